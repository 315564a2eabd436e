package ai

import (
	"fmt"
	"strings"

	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
)

// SystemPromptDatabase seeds the answer conversation in Database mode.
const SystemPromptDatabase = "You are a system assistant who helps with customer support ticket queries. Be brief and precise in your answers."

// SystemPromptDocument seeds the answer conversation in Document mode.
const SystemPromptDocument = "You are a system assistant who helps the company employees with their questions. Be brief in your answers"

// NoSourceAvailable is the source block used when document search returns
// nothing.
const NoSourceAvailable = "no source available."

// BuildSQLQueryPrompt describes the ticket schema and the structured output
// the model must return when generating a query. dbTop caps row-selection
// queries.
func BuildSQLQueryPrompt(dbTop int) string {
	return fmt.Sprintf(`You are a helpful AI assistant that generates SQL queries for a PostgreSQL database.
The table 'customer_support_tickets' has the following schema:
- ticket_id (INTEGER, PRIMARY KEY) NOT NULL
- customer_name (VARCHAR(255)) NOT NULL
- customer_email (VARCHAR(255)) NOT NULL
- customer_age (INTEGER) NOT NULL
- customer_gender (VARCHAR(50)) NOT NULL
- product_purchased (VARCHAR(255)) NOT NULL
- date_of_purchase (DATE) NOT NULL
- ticket_type (VARCHAR(100)) NOT NULL
- ticket_subject (VARCHAR(255)) NOT NULL
- ticket_description (TEXT) NOT NULL
- ticket_status (VARCHAR(50)) NOT NULL
- resolution (TEXT)
- ticket_priority (VARCHAR(50)) NOT NULL
- ticket_channel (VARCHAR(50)) NOT NULL
- first_response_time (TIMESTAMP)
- time_to_resolution (TIMESTAMP)
- customer_satisfaction_rating (FLOAT)

Generate a parameterized SQL query based on the user's prompt. Return a JSON object with:
- 'query': The SQL query with placeholders (e.g., @p1, @p2).
- 'parameters': A list of dictionary of parameter names and their values. For date/time-related value, construct the value in 'yyyy-MM-dd' format for date only and 'yyyy-MM-dd HH:mm:ss' format for datetime. Add a parameter named 'type' whose value corresponds with column data type (e.g., if @p1 is a placeholder for 'ticket_priority' column, 'type' parameter value should be 'VARCHAR')
- 'notification': Only when the user explicitly asks to notify or email someone about the results, an object {"send": true, "recipientEmail": "...", "subject": "...", "body": "..."}. The body may reference result columns with placeholders in square brackets, e.g. [CustomerName] or [TicketStatus], which are filled from the first result row. Omit the field or use {"send": false} otherwise.
Ensure the query is safe, uses ILIKE for text searches, and limits to %d results. For nullable columns, use IS NULL or IS NOT NULL to check whether a value exists or not. For date/time columns, use BETWEEN or = as appropriate.
Example output:
{
    "query": "SELECT * FROM customer_support_tickets WHERE ticket_subject ILIKE @p1 AND ticket_status = @p2 LIMIT %d",
    "parameters": [{ "p1": "%%issue%%", "type": "VARCHAR" }, { "p2": "Open", "type": "VARCHAR" }]
}
{
    "query": "SELECT COUNT(*) AS ticket_count FROM customer_support_tickets WHERE ticket_status = @p1",
    "parameters": [{ "p1": "Pending Customer Response", "type": "VARCHAR" }]
}
{
    "query": "SELECT ticket_status, COUNT(*) AS Recurrence FROM customer_support_tickets GROUP BY ticket_status",
    "parameters": {}
}
{
    "query": "SELECT * FROM customer_support_tickets WHERE resolution IS NOT NULL LIMIT %d",
    "parameters": {}
}
{
    "query": "SELECT * FROM customer_support_tickets WHERE first_response_time BETWEEN @p1 AND @p2",
    "parameters": [{ "p1": "2024-05-01 00:00:00", "type": "TIMESTAMP" }, { "p2": "2024-05-01 23:59:59", "type": "TIMESTAMP" }]
}`, dbTop, dbTop, dbTop)
}

// BuildSearchQueryPrompt instructs the model to rewrite the latest user
// question into a concise search query.
func BuildSearchQueryPrompt() string {
	return `You are a helpful AI assistant, generate search query for followup question.
Make your respond simple and precise. Return the query only, do not return any other text.
e.g.
Northwind Health Plus AND standard plan.
standard plan AND dental AND employee benefit.
`
}

// BuildDatabaseAnswerPrompt embeds the formatted source block and the
// notification delivery status, and states the four-field output contract.
func BuildDatabaseAnswerPrompt(sourceBlock, notificationStatus string) string {
	var b strings.Builder
	b.WriteString("## Source ##\n")
	b.WriteString(sourceBlock)
	b.WriteString("\n## End ##\n\n")
	if notificationStatus != "" {
		b.WriteString("## Notification Status ##\n")
		b.WriteString(notificationStatus)
		b.WriteString("\n## End ##\n\n")
	}
	b.WriteString(`Answer the question based on the available source.
Your answer needs to be a JSON object with the following format. Don't put your answer between ` + "```json and ```" + `, return the json string directly.
{
    "introduction": // A one-sentence introduction of what the answer contains.
    "answer": // The answer to the question. Summarize ticket details. When listing tickets, return them as a JSON array of objects, one per ticket. If no source, answer as 'I don't know'.
    "notification": // A short human-readable note about the notification delivery status, or an empty string when no notification was requested.
    "thoughts": // Brief thoughts on how you came up with the answer, e.g., what sources or tickets you used.
}`)
	return b.String()
}

// BuildDocumentAnswerPrompt embeds the source block with the two-field
// output contract used in Document mode.
func BuildDocumentAnswerPrompt(sourceBlock string) string {
	var b strings.Builder
	b.WriteString("## Source ##\n")
	b.WriteString(sourceBlock)
	b.WriteString("\n## End ##\n\n")
	b.WriteString(`Answer the question based on the available source.
Your answer needs to be a JSON object with the following format:
{
    "answer": // The answer to the question. Include source references [title]. If no source, answer as 'I don't know'.
    "thoughts": // Brief thoughts on how you came up with the answer, e.g., what sources you used.
}`)
	return b.String()
}

// BuildImageAnswerPrompt is the text part of a mixed text+image prompt; the
// image URLs ride alongside as separate content parts.
func BuildImageAnswerPrompt(sourceBlock string) string {
	var b strings.Builder
	b.WriteString("## Source ##\n")
	b.WriteString(sourceBlock)
	b.WriteString("\n## End ##\n\n")
	b.WriteString("Answer question based on available source and images.\n")
	b.WriteString("Your answer needs to be a json object with answer and thoughts field.\n")
	b.WriteString("Don't put your answer between ```json and ```, return the json string directly. e.g {\"answer\": \"I don't know\", \"thoughts\": \"I don't know\"}")
	return b.String()
}

// FollowupSystemPrompt returns the system message for the follow-up call.
func FollowupSystemPrompt(mode models.QueryMode) string {
	if mode == models.QueryModeDatabase {
		return "You are a helpful AI assistant specializing in customer support ticket queries."
	}
	return "You are a helpful AI assistant"
}

// BuildFollowupPrompt asks for exactly three follow-up questions as a JSON
// string array, with mode-specific wording.
func BuildFollowupPrompt(answer string, mode models.QueryMode) string {
	if mode == models.QueryModeDatabase {
		return fmt.Sprintf(`Generate three follow-up questions based on the answer you just generated about customer support tickets.
The questions should be relevant to the ticket context (e.g., ticket status, priority, customer details, product purchased, or resolution). Don't put your answer between `+"```json and ```"+`, return the json string directly.
# Answer
%s

# Format of the response
Return the follow-up questions as a JSON string list.
e.g.
[
    "What is the current status of the ticket?",
    "Can you provide more details about the resolution?",
    "How many tickets are open for this product?"
]`, answer)
	}
	return fmt.Sprintf(`Generate three follow-up question based on the answer you just generated.
# Answer
%s

# Format of the response
Return the follow-up question as a json string list. Don't put your answer between `+"```json and ```"+`, return the json string directly.
e.g.
[
    "What is the deductible?",
    "What is the co-pay?",
    "What is the out-of-pocket maximum?"
]`, answer)
}

// StripCodeFences removes a markdown code fence wrapper from a model reply.
// Models occasionally ignore the "return the json string directly"
// instruction.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
