package validation

import (
	"fmt"
	"strings"
)

// ValidationError reports a generated query that failed a safety rule.
// The request carrying the query is aborted; validation is never retried.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	RuleMissingSelect = "missing_select"
	RuleWrongTable    = "wrong_table"
	RuleMissingLimit  = "missing_limit"
)

// ValidateGeneratedQuery enforces the safety rules on a model-generated SQL
// query. All checks are case-insensitive substring checks:
//
//   - the query must contain SELECT;
//   - when expectedTable is non-empty, the query must reference it;
//   - a SELECT with no aggregate keyword (COUNT or SUM) must contain LIMIT,
//     capped at dbTop.
//
// Queries using COUNT or SUM are exempt from the LIMIT rule because
// aggregates already bound the result size.
func ValidateGeneratedQuery(query string, dbTop int, expectedTable string) error {
	upper := strings.ToUpper(query)

	if !strings.Contains(upper, "SELECT") {
		return &ValidationError{
			Rule:    RuleMissingSelect,
			Message: "generated SQL query is invalid or unsafe: missing SELECT",
		}
	}

	if expectedTable != "" && !strings.Contains(upper, strings.ToUpper(expectedTable)) {
		return &ValidationError{
			Rule:    RuleWrongTable,
			Message: fmt.Sprintf("generated SQL query is invalid or unsafe: does not reference %s", expectedTable),
		}
	}

	hasAggregate := strings.Contains(upper, "COUNT") || strings.Contains(upper, "SUM")
	if !hasAggregate && !strings.Contains(upper, "LIMIT") {
		return &ValidationError{
			Rule:    RuleMissingLimit,
			Message: fmt.Sprintf("row selection query must include LIMIT %d", dbTop),
		}
	}

	return nil
}
