package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vincenteouswilliam/azure-ai-day-demo/ai"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
	"github.com/vincenteouswilliam/azure-ai-day-demo/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter returns queued responses in order and records every call.
type scriptedCompleter struct {
	responses []string
	calls     [][]models.PromptMessage
	settings  []models.ChatSettings
}

func (c *scriptedCompleter) CompleteChat(_ context.Context, messages []models.PromptMessage, settings models.ChatSettings) (string, error) {
	c.calls = append(c.calls, messages)
	c.settings = append(c.settings, settings)
	if len(c.responses) == 0 {
		return "", fmt.Errorf("no scripted response for call %d", len(c.calls))
	}
	raw := c.responses[0]
	c.responses = c.responses[1:]
	return raw, nil
}

// lastPrompt returns the final message of the most recent completion call.
func (c *scriptedCompleter) lastPrompt(t *testing.T) models.PromptMessage {
	t.Helper()
	require.NotEmpty(t, c.calls)
	call := c.calls[len(c.calls)-1]
	require.NotEmpty(t, call)
	return call[len(call)-1]
}

type fakeEmbedder struct {
	calls int
}

func (e *fakeEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float64, error) {
	e.calls++
	return []float64{0.1, 0.2, 0.3}, nil
}

type fakeSearcher struct {
	docs        []models.SupportingContentRecord
	images      []models.SupportingImageRecord
	lastQuery   string
	lastVector  []float64
	imagesCalls int
}

func (s *fakeSearcher) QueryDocuments(_ context.Context, query string, embedding []float64, _ models.RequestOverrides) ([]models.SupportingContentRecord, error) {
	s.lastQuery = query
	s.lastVector = embedding
	return s.docs, nil
}

func (s *fakeSearcher) QueryImages(_ context.Context, _ string, _ []float64, _ models.RequestOverrides) ([]models.SupportingImageRecord, error) {
	s.imagesCalls++
	return s.images, nil
}

type fakeTickets struct {
	rows       []models.Row
	err        error
	lastQuery  string
	lastParams []BoundParam
	calls      int
}

func (f *fakeTickets) Query(_ context.Context, query string, params []BoundParam) ([]models.Row, error) {
	f.calls++
	f.lastQuery = query
	f.lastParams = params
	return f.rows, f.err
}

type fakeNotifier struct {
	ok            bool
	status        string
	lastRecipient string
	lastSubject   string
	lastBody      string
	calls         int
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, body string) (bool, string) {
	f.calls++
	f.lastRecipient = recipient
	f.lastSubject = subject
	f.lastBody = body
	return f.ok, f.status
}

func newTestService(completer *scriptedCompleter, searcher *fakeSearcher, tickets *fakeTickets, notifier *fakeNotifier) *ChatService {
	return NewChatService(completer, &fakeEmbedder{}, searcher, tickets, notifier, ChatOptions{
		CitationBaseURL: "https://storage.example.com/content",
		ExpectedTable:   "customer_support_tickets",
	})
}

func userTurn(content string) models.ChatMessage {
	return models.ChatMessage{IsUser: true, Content: content}
}

func TestReplyNoUserMessage(t *testing.T) {
	completer := &scriptedCompleter{}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	history := []models.ChatMessage{{IsUser: false, Content: "Hello, how can I help?"}}
	_, err := svc.Reply(context.Background(), history, models.RequestOverrides{})

	assert.ErrorIs(t, err, ErrNoUserMessage)
	assert.Empty(t, completer.calls, "no collaborator call should happen without a question")
}

func TestReplyDatabaseHappyPath(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT ticket_id, status FROM customer_support_tickets WHERE status = @status LIMIT 15",
		  "parameters": [{"status": "Open", "type": "VARCHAR"}],
		  "notification": {"send": false}}`,
		`{"introduction": "Here are the open tickets.",
		  "answer": [{"ticket_id": "1", "status": "Open"}, {"ticket_id": "2", "status": "Open"}],
		  "notification": "",
		  "thoughts": "Queried open tickets."}`,
	}}
	tickets := &fakeTickets{rows: []models.Row{
		{{Name: "ticket_id", Value: int64(1)}, {Name: "status", Value: "Open"}},
		{{Name: "ticket_id", Value: int64(2)}, {Name: "status", Value: "Open"}},
	}}
	svc := newTestService(completer, &fakeSearcher{}, tickets, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("Which tickets are open?")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})
	require.NoError(t, err)

	require.Equal(t, 1, tickets.calls)
	assert.Contains(t, tickets.lastQuery, "FROM customer_support_tickets")
	require.Len(t, tickets.lastParams, 1)
	assert.Equal(t, "status", tickets.lastParams[0].Name)
	assert.Equal(t, "Open", tickets.lastParams[0].Value)

	// The answer prompt carries the formatted rows.
	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, "Ticket: ticket_id: 1, status: Open")

	require.Len(t, resp.Choices, 1)
	choice := resp.Choices[0]
	assert.Equal(t, 0, choice.Index)
	assert.True(t, strings.HasPrefix(choice.Message.Content, "Here are the open tickets.\n\n"))
	assert.Contains(t, choice.Message.Content, "<th>ticket_id</th><th>status</th>")
	assert.Empty(t, choice.Context.DataPointsContent)
	assert.Empty(t, choice.Context.DataPointsImages)
	require.Len(t, choice.Context.Thoughts, 1)
	assert.Equal(t, "Queried open tickets.", choice.Context.Thoughts[0].Description)
	assert.Equal(t, "https://storage.example.com/content", choice.CitationBaseURL)
}

func TestReplyDatabaseValidationAborts(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT * FROM customer_support_tickets", "parameters": {}}`,
	}}
	tickets := &fakeTickets{}
	svc := newTestService(completer, &fakeSearcher{}, tickets, &fakeNotifier{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("Show everything")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})

	var vErr *validation.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, validation.RuleMissingLimit, vErr.Rule)
	assert.Contains(t, vErr.Message, "LIMIT 15")
	assert.Zero(t, tickets.calls, "invalid queries must never reach the database")
}

func TestReplyDatabaseStoreErrorDegrades(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT ticket_id FROM customer_support_tickets LIMIT 15", "parameters": {}}`,
		`{"introduction": "", "answer": "There are no tickets to show.", "notification": "", "thoughts": "Empty source."}`,
	}}
	tickets := &fakeTickets{err: errors.New("connection refused")}
	svc := newTestService(completer, &fakeSearcher{}, tickets, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("List tickets")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})
	require.NoError(t, err, "a failed store query degrades instead of failing the request")

	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, NoTicketsFound)
	assert.Equal(t, "There are no tickets to show.", resp.Choices[0].Message.Content)
}

func TestReplyDatabaseNotification(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT customer_name, customer_email, ticket_id FROM customer_support_tickets WHERE ticket_id = @id LIMIT 15",
		  "parameters": [{"id": 7, "type": "INTEGER"}],
		  "notification": {"send": true, "recipientEmail": "[CustomerEmail]", "subject": "Ticket [TicketNo] update", "body": "Dear [CustomerName], your ticket is in progress."}}`,
		`{"introduction": "Ticket 7 details.", "answer": "Ticket 7 is in progress.", "notification": "An update email was sent to the customer.", "thoughts": "Looked up ticket 7."}`,
	}}
	tickets := &fakeTickets{rows: []models.Row{
		{
			{Name: "customer_name", Value: "Budi"},
			{Name: "customer_email", Value: "budi@example.com"},
			{Name: "ticket_id", Value: int64(7)},
		},
	}}
	notifier := &fakeNotifier{ok: true, status: "Email sent successfully"}
	svc := newTestService(completer, &fakeSearcher{}, tickets, notifier)

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("Email the customer of ticket 7")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})
	require.NoError(t, err)

	require.Equal(t, 1, notifier.calls)
	assert.Equal(t, "budi@example.com", notifier.lastRecipient)
	assert.Equal(t, "Ticket [TicketNo] update", notifier.lastSubject, "non-matching placeholders stay in place")
	assert.Contains(t, notifier.lastBody, "Dear Budi,")

	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, "Notification sent to budi@example.com")

	content := resp.Choices[0].Message.Content
	assert.True(t, strings.HasSuffix(content, "\n\nAn update email was sent to the customer."))
}

func TestReplyDatabaseNotificationFailureDegrades(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT ticket_id FROM customer_support_tickets LIMIT 15",
		  "parameters": {},
		  "notification": {"send": true, "recipientEmail": "", "subject": "s", "body": "b"}}`,
		`{"introduction": "", "answer": "Done.", "notification": "The notification could not be delivered.", "thoughts": "t"}`,
	}}
	notifier := &fakeNotifier{ok: false, status: "Recipient email is empty"}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, notifier)

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("Notify")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})
	require.NoError(t, err)

	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, "Notification could not be sent: Recipient email is empty")
}

func TestReplyDocumentEmptySearch(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"warranty coverage period",
		`{"answer": "I don't know", "thoughts": "No relevant sources were found."}`,
	}}
	searcher := &fakeSearcher{}
	svc := newTestService(completer, searcher, &fakeTickets{}, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("How long is the warranty?")},
		models.RequestOverrides{})
	require.NoError(t, err)

	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, ai.NoSourceAvailable)

	choice := resp.Choices[0]
	assert.Equal(t, "I don't know", choice.Message.Content)
	assert.NotNil(t, choice.Context.DataPointsContent)
	assert.Empty(t, choice.Context.DataPointsContent)
	assert.NotNil(t, choice.Context.FollowupQuestions)
	assert.Empty(t, choice.Context.FollowupQuestions)
}

func TestReplyDocumentSourceBlock(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"warranty coverage period",
		`{"answer": "Coverage lasts two years [guide-3.pdf].", "thoughts": "Found it in the guide."}`,
	}}
	searcher := &fakeSearcher{docs: []models.SupportingContentRecord{
		{Title: "guide-3.pdf", Content: "Coverage lasts two years."},
		{Title: "faq-1.pdf", Content: "See the product guide."},
	}}
	svc := newTestService(completer, searcher, &fakeTickets{}, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("How long is the warranty?")},
		models.RequestOverrides{})
	require.NoError(t, err)

	// Rewritten query and embedding both reach the searcher in hybrid mode.
	assert.Equal(t, "warranty coverage period", searcher.lastQuery)
	assert.NotEmpty(t, searcher.lastVector)

	prompt := completer.lastPrompt(t)
	assert.Contains(t, prompt.Content, "guide-3.pdf:Coverage lasts two years.\rfaq-1.pdf:See the product guide.")

	choice := resp.Choices[0]
	assert.Equal(t, searcher.docs, choice.Context.DataPointsContent)
	assert.Equal(t, "Coverage lasts two years [guide-3.pdf].", choice.Message.Content)
}

func TestReplyDocumentTextModeSkipsEmbedding(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"return policy",
		`{"answer": "I don't know", "thoughts": "t"}`,
	}}
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{}
	svc := NewChatService(completer, embedder, searcher, nil, nil, ChatOptions{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("What is the return policy?")},
		models.RequestOverrides{RetrievalMode: models.RetrievalModeText})
	require.NoError(t, err)

	assert.Zero(t, embedder.calls)
	assert.Nil(t, searcher.lastVector)
}

func TestReplyDocumentVectorModeSkipsRewrite(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"answer": "I don't know", "thoughts": "t"}`,
	}}
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{}
	svc := NewChatService(completer, embedder, searcher, nil, nil, ChatOptions{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("What is the return policy?")},
		models.RequestOverrides{RetrievalMode: models.RetrievalModeVector})
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
	assert.Empty(t, searcher.lastQuery)
	require.Len(t, completer.calls, 1, "vector mode needs no query rewrite call")
}

func TestReplyFollowupQuestions(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"warranty coverage period",
		`{"answer": "Coverage lasts two years.", "thoughts": "t"}`,
		`["Does it cover accidental damage?", "How do I file a claim?", "Can I extend the coverage?"]`,
	}}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("How long is the warranty?")},
		models.RequestOverrides{SuggestFollowupQuestions: true})
	require.NoError(t, err)

	choice := resp.Choices[0]
	require.Len(t, choice.Context.FollowupQuestions, 3)
	assert.Equal(t, "Does it cover accidental damage?", choice.Context.FollowupQuestions[0])

	content := choice.Message.Content
	first := strings.Index(content, "<<Does it cover accidental damage?>>")
	second := strings.Index(content, "<<How do I file a claim?>>")
	third := strings.Index(content, "<<Can I extend the coverage?>>")
	require.True(t, first > 0 && second > first && third > second,
		"follow-ups must be appended in order: %q", content)
}

func TestReplyMalformedAnswerFails(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"query",
		"this is not json",
	}}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("question")},
		models.RequestOverrides{})

	var fErr *UpstreamFormatError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "answer", fErr.Stage)
}

func TestReplyAnswerInCodeFence(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"query",
		"```json\n{\"answer\": \"Fenced answers still parse.\", \"thoughts\": \"t\"}\n```",
	}}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	resp, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("question")},
		models.RequestOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "Fenced answers still parse.", resp.Choices[0].Message.Content)
}

func TestReplyDuplicateParameterFails(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"query": "SELECT ticket_id FROM customer_support_tickets WHERE status = @s LIMIT 15",
		  "parameters": [{"s": "Open", "type": "VARCHAR"}, {"s": "Closed", "type": "VARCHAR"}]}`,
	}}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("question")},
		models.RequestOverrides{QueryMode: models.QueryModeDatabase})

	var fErr *UpstreamFormatError
	require.ErrorAs(t, err, &fErr)
	assert.Contains(t, fErr.Message, "duplicate parameter")
}

func TestReplyAnswerSettings(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		"query",
		`{"answer": "ok", "thoughts": "t"}`,
	}}
	svc := newTestService(completer, &fakeSearcher{}, &fakeTickets{}, &fakeNotifier{})

	_, err := svc.Reply(context.Background(),
		[]models.ChatMessage{userTurn("question")},
		models.RequestOverrides{Temperature: 0.2})
	require.NoError(t, err)

	require.Len(t, completer.settings, 2)
	answerSettings := completer.settings[1]
	assert.Equal(t, 1024, answerSettings.MaxTokens)
	assert.Equal(t, 0.2, answerSettings.Temperature)
}
