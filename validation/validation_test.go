package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGeneratedQuery(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedTable string
		wantRule      string
	}{
		{
			name:     "missing select",
			query:    "DELETE FROM customer_support_tickets",
			wantRule: RuleMissingSelect,
		},
		{
			name:          "wrong table",
			query:         "SELECT * FROM users LIMIT 15",
			expectedTable: "customer_support_tickets",
			wantRule:      RuleWrongTable,
		},
		{
			name:     "row selection without limit",
			query:    "SELECT * FROM customer_support_tickets WHERE ticket_status = @p1",
			wantRule: RuleMissingLimit,
		},
		{
			name:  "row selection with limit",
			query: "SELECT * FROM customer_support_tickets LIMIT 15",
		},
		{
			name:  "count aggregate exempt from limit",
			query: "SELECT COUNT(*) AS ticket_count FROM customer_support_tickets",
		},
		{
			name:  "sum aggregate exempt from limit",
			query: "SELECT SUM(customer_satisfaction_rating) FROM customer_support_tickets",
		},
		{
			name:  "lowercase keywords accepted",
			query: "select * from customer_support_tickets limit 5",
		},
		{
			name:          "table check case insensitive",
			query:         "SELECT * FROM CUSTOMER_SUPPORT_TICKETS LIMIT 5",
			expectedTable: "customer_support_tickets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeneratedQuery(tt.query, 15, tt.expectedTable)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantRule, validationErr.Rule)
		})
	}
}

func TestValidateGeneratedQueryNamesDBTop(t *testing.T) {
	err := ValidateGeneratedQuery("SELECT * FROM customer_support_tickets", 25, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIMIT 25")
}
