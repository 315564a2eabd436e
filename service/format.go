package service

import (
	"fmt"
	"strings"

	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
)

// NoTicketsFound is the source block injected when a query returns no rows.
const NoTicketsFound = "No customer support tickets found."

// QueryShape classifies how a result set should be rendered into a source
// block. The classification inspects the query text, not the result schema,
// so a COUNT hidden inside a subquery still renders as a count line.
type QueryShape int

const (
	// QueryShapeRowList renders one "Ticket:" line per row.
	QueryShapeRowList QueryShape = iota
	// QueryShapeCountOnly renders the single aggregate value.
	QueryShapeCountOnly
	// QueryShapeGroupedCount renders one "Count:" line per group.
	QueryShapeGroupedCount
)

// ClassifyQueryShape applies the query-text heuristics: COUNT(*) without
// GROUP BY is a bare count, COUNT with GROUP BY is a grouped count,
// anything else is a row list.
func ClassifyQueryShape(query string) QueryShape {
	upper := strings.ToUpper(query)
	hasGroupBy := strings.Contains(upper, "GROUP BY")
	switch {
	case strings.Contains(upper, "COUNT(*)") && !hasGroupBy:
		return QueryShapeCountOnly
	case strings.Contains(upper, "COUNT") && hasGroupBy:
		return QueryShapeGroupedCount
	default:
		return QueryShapeRowList
	}
}

// FormatTicketRows renders result rows into the textual source block given
// to the answer prompt. Lines are joined by a carriage return.
func FormatTicketRows(query string, rows []models.Row) string {
	if len(rows) == 0 {
		return NoTicketsFound
	}

	switch ClassifyQueryShape(query) {
	case QueryShapeCountOnly:
		count := "0"
		if len(rows[0]) > 0 {
			count = fmt.Sprintf("%v", rows[0][0].Value)
		}
		return fmt.Sprintf("Count: %s", count)
	case QueryShapeGroupedCount:
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("Count: %s", formatRowFields(row)))
		}
		return strings.Join(lines, "\r")
	default:
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("Ticket: %s", formatRowFields(row)))
		}
		return strings.Join(lines, "\r")
	}
}

func formatRowFields(row models.Row) string {
	parts := make([]string, 0, len(row))
	for _, f := range row {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Name, f.Value))
	}
	return strings.Join(parts, ", ")
}
