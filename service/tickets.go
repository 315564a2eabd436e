package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"

	_ "github.com/lib/pq"
)

// TicketStore executes generated queries against the customer support
// ticket database.
type TicketStore interface {
	Query(ctx context.Context, query string, params []BoundParam) ([]models.Row, error)
}

type PostgresTicketService struct {
	db *sql.DB
}

func NewPostgresTicketService(cfg config.PostgresConfig) (*PostgresTicketService, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("PostgreSQL configuration is incomplete")
	}

	db, err := sql.Open("postgres", cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		// Let the application start even if the database is temporarily
		// unreachable; queries will fail individually instead.
		log.Printf("Warning: failed to ping PostgreSQL during initialization: %v", err)
	}

	return &PostgresTicketService{db: db}, nil
}

func (s *PostgresTicketService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresTicketService) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("PostgreSQL connection is not initialized")
	}
	return s.db.PingContext(ctx)
}

// Query runs a generated query with its bound parameters and returns rows
// as ordered column/value pairs. Generated queries use @name placeholders;
// they are rewritten to positional $n arguments in parameter order.
func (s *PostgresTicketService) Query(ctx context.Context, query string, params []BoundParam) ([]models.Row, error) {
	if s.db == nil {
		return nil, fmt.Errorf("PostgreSQL connection is not initialized")
	}

	rewritten, args := RewritePlaceholders(query, params)

	rows, err := s.db.QueryContext(ctx, rewritten, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ticket query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var results []models.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			row[i] = models.RowField{Name: col, Value: normalizeDBValue(values[i])}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate result rows: %w", err)
	}

	return results, nil
}

// RewritePlaceholders converts @name placeholders into positional $n
// arguments, keeping parameter order. Longer names are replaced first so
// @p10 is never clobbered by @p1.
func RewritePlaceholders(query string, params []BoundParam) (string, []interface{}) {
	type indexed struct {
		name     string
		position int
	}

	byLength := make([]indexed, 0, len(params))
	args := make([]interface{}, 0, len(params))
	for i, p := range params {
		byLength = append(byLength, indexed{name: p.Name, position: i + 1})
		args = append(args, p.Value)
	}
	for i := 0; i < len(byLength); i++ {
		for j := i + 1; j < len(byLength); j++ {
			if len(byLength[j].name) > len(byLength[i].name) {
				byLength[i], byLength[j] = byLength[j], byLength[i]
			}
		}
	}

	for _, p := range byLength {
		query = strings.ReplaceAll(query, "@"+p.name, fmt.Sprintf("$%d", p.position))
	}
	return query, args
}

func normalizeDBValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []byte:
		return string(v)
	default:
		return v
	}
}
