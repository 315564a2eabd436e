package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vincenteouswilliam/azure-ai-day-demo/ai"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
	"github.com/vincenteouswilliam/azure-ai-day-demo/validation"
)

// ChatCompleter issues a single language-model call over role-tagged
// messages.
type ChatCompleter interface {
	CompleteChat(ctx context.Context, messages []models.PromptMessage, settings models.ChatSettings) (string, error)
}

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// VisionVectorizer converts text into a vector in the image-retrieval
// space.
type VisionVectorizer interface {
	VectorizeText(ctx context.Context, text string) ([]float64, error)
}

// DocumentSearcher retrieves supporting content and image records.
type DocumentSearcher interface {
	QueryDocuments(ctx context.Context, query string, embedding []float64, overrides models.RequestOverrides) ([]models.SupportingContentRecord, error)
	QueryImages(ctx context.Context, query string, embedding []float64, overrides models.RequestOverrides) ([]models.SupportingImageRecord, error)
}

// TokenProvider issues a short-lived token for a scope, used to authorize
// retrieved image URLs.
type TokenProvider interface {
	GetToken(ctx context.Context, scope string) (string, error)
}

// ChatOptions carries the optional collaborators and process-wide settings
// of a ChatService. Vision and Tokens may be nil; image retrieval is
// skipped without them.
type ChatOptions struct {
	Vision          VisionVectorizer
	Tokens          TokenProvider
	CitationBaseURL string
	StorageScope    string
	ExpectedTable   string
}

// ChatService routes a chat request through document retrieval or a
// generated database query, asks the language model for an answer under a
// strict output contract, and assembles the response envelope. All wiring
// is fixed at construction; a ChatService is safe for concurrent requests.
type ChatService struct {
	completer ChatCompleter
	embedder  Embedder
	searcher  DocumentSearcher
	tickets   TicketStore
	notifier  Notifier
	opts      ChatOptions
}

func NewChatService(completer ChatCompleter, embedder Embedder, searcher DocumentSearcher, tickets TicketStore, notifier Notifier, opts ChatOptions) *ChatService {
	return &ChatService{
		completer: completer,
		embedder:  embedder,
		searcher:  searcher,
		tickets:   tickets,
		notifier:  notifier,
		opts:      opts,
	}
}

const answerMaxTokens = 1024

// Reply runs the full pipeline for one request. It fails before any
// collaborator call when history carries no user message. Malformed model
// output and failed query validation abort the request; record-store and
// notification failures degrade into the answer instead.
func (s *ChatService) Reply(ctx context.Context, history []models.ChatMessage, overrides models.RequestOverrides) (models.ChatAppResponse, error) {
	o := applyDefaults(overrides)

	question, ok := lastUserMessage(history)
	if !ok {
		return models.ChatAppResponse{}, ErrNoUserMessage
	}

	systemPrompt := ai.SystemPromptDocument
	if o.QueryMode == models.QueryModeDatabase {
		systemPrompt = ai.SystemPromptDatabase
	}
	answerChat := []models.PromptMessage{{Role: models.RoleSystem, Content: systemPrompt}}
	for _, m := range history {
		role := models.RoleAssistant
		if m.IsUser {
			role = models.RoleUser
		}
		answerChat = append(answerChat, models.PromptMessage{Role: role, Content: m.Content})
	}

	var (
		docs   []models.SupportingContentRecord
		images []models.SupportingImageRecord
	)

	if o.QueryMode == models.QueryModeDatabase {
		prompt, err := s.runDatabaseGrounding(ctx, question, o)
		if err != nil {
			return models.ChatAppResponse{}, err
		}
		answerChat = append(answerChat, prompt)
	} else {
		prompt, retrievedDocs, retrievedImages, err := s.runDocumentGrounding(ctx, question, o)
		if err != nil {
			return models.ChatAppResponse{}, err
		}
		docs = retrievedDocs
		images = retrievedImages
		answerChat = append(answerChat, prompt)
	}

	settings := models.ChatSettings{
		MaxTokens:   answerMaxTokens,
		Temperature: o.Temperature,
	}

	raw, err := s.completer.CompleteChat(ctx, answerChat, settings)
	if err != nil {
		return models.ChatAppResponse{}, fmt.Errorf("failed to get answer: %w", err)
	}

	display, thoughts, err := s.parseAnswer(raw, o.QueryMode)
	if err != nil {
		return models.ChatAppResponse{}, err
	}

	var followups []string
	if o.SuggestFollowupQuestions {
		followups, err = s.generateFollowups(ctx, display, o.QueryMode, settings)
		if err != nil {
			return models.ChatAppResponse{}, err
		}
		for _, q := range followups {
			display += fmt.Sprintf(" <<%s>> ", q)
		}
	}

	return s.assembleResponse(o.QueryMode, display, thoughts, docs, images, followups), nil
}

// runDatabaseGrounding generates, validates and executes a ticket query,
// sends the requested notification, and returns the answer prompt carrying
// the formatted source block.
func (s *ChatService) runDatabaseGrounding(ctx context.Context, question string, o models.RequestOverrides) (models.PromptMessage, error) {
	if s.tickets == nil {
		return models.PromptMessage{}, fmt.Errorf("ticket database is not configured")
	}

	spec, err := s.generateQuerySpec(ctx, question, o.DBTop)
	if err != nil {
		return models.PromptMessage{}, err
	}
	log.Printf("[CHAT] generated query: %s (%d parameters)", spec.Query, len(spec.Parameters))

	if err := validation.ValidateGeneratedQuery(spec.Query, o.DBTop, s.opts.ExpectedTable); err != nil {
		return models.PromptMessage{}, err
	}

	params := BindParameters(spec.Parameters)
	rows, err := s.tickets.Query(ctx, spec.Query, params)
	if err != nil {
		if ctx.Err() != nil {
			return models.PromptMessage{}, ctx.Err()
		}
		// Degrade to an empty result; the model still answers from "no
		// tickets found".
		log.Printf("[CHAT] ticket query failed, continuing with empty result: %v", err)
		rows = nil
	}

	notificationStatus := ""
	if spec.Notification != nil && spec.Notification.Send {
		notificationStatus = s.sendNotification(ctx, spec.Notification, rows)
		log.Printf("[CHAT] notification status: %s", notificationStatus)
	}

	sourceBlock := FormatTicketRows(spec.Query, rows)
	return models.PromptMessage{
		Role:    models.RoleUser,
		Content: ai.BuildDatabaseAnswerPrompt(sourceBlock, notificationStatus),
	}, nil
}

// runDocumentGrounding retrieves supporting content (and images when a
// vision collaborator is configured) and returns the answer prompt plus the
// retrieved records for the response context.
func (s *ChatService) runDocumentGrounding(ctx context.Context, question string, o models.RequestOverrides) (models.PromptMessage, []models.SupportingContentRecord, []models.SupportingImageRecord, error) {
	if s.searcher == nil {
		return models.PromptMessage{}, nil, nil, fmt.Errorf("document search is not configured")
	}

	var embedding []float64
	if o.RetrievalMode != models.RetrievalModeText {
		var err error
		embedding, err = s.embedder.GenerateEmbedding(ctx, question)
		if err != nil {
			return models.PromptMessage{}, nil, nil, fmt.Errorf("failed to embed question: %w", err)
		}
	}

	query := ""
	if o.RetrievalMode != models.RetrievalModeVector {
		var err error
		query, err = s.rewriteSearchQuery(ctx, question)
		if err != nil {
			return models.PromptMessage{}, nil, nil, err
		}
		log.Printf("[CHAT] search query: %s", query)
	}

	docs, err := s.searcher.QueryDocuments(ctx, query, embedding, o)
	if err != nil {
		return models.PromptMessage{}, nil, nil, fmt.Errorf("document search failed: %w", err)
	}

	sourceBlock := ai.NoSourceAvailable
	if len(docs) > 0 {
		lines := make([]string, 0, len(docs))
		for _, d := range docs {
			lines = append(lines, fmt.Sprintf("%s:%s", d.Title, d.Content))
		}
		sourceBlock = strings.Join(lines, "\r")
	}

	var images []models.SupportingImageRecord
	if s.opts.Vision != nil {
		visionQuery := query
		if visionQuery == "" {
			visionQuery = question
		}
		vector, err := s.opts.Vision.VectorizeText(ctx, visionQuery)
		if err != nil {
			return models.PromptMessage{}, nil, nil, fmt.Errorf("failed to vectorize question for image search: %w", err)
		}
		images, err = s.searcher.QueryImages(ctx, query, vector, o)
		if err != nil {
			return models.PromptMessage{}, nil, nil, fmt.Errorf("image search failed: %w", err)
		}
	}

	if len(images) > 0 {
		if s.opts.Tokens == nil {
			return models.PromptMessage{}, nil, nil, fmt.Errorf("image answering requires a token provider")
		}
		token, err := s.opts.Tokens.GetToken(ctx, s.opts.StorageScope)
		if err != nil {
			return models.PromptMessage{}, nil, nil, fmt.Errorf("failed to get token: %w", err)
		}
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, fmt.Sprintf("%s?%s", img.URL, token))
		}
		return models.PromptMessage{
			Role:      models.RoleUser,
			Content:   ai.BuildImageAnswerPrompt(sourceBlock),
			ImageURLs: urls,
		}, docs, images, nil
	}

	return models.PromptMessage{
		Role:    models.RoleUser,
		Content: ai.BuildDocumentAnswerPrompt(sourceBlock),
	}, docs, images, nil
}

// generateQuerySpec asks the model for a structured database query and
// parses the result under the query/parameters/notification contract.
func (s *ChatService) generateQuerySpec(ctx context.Context, question string, dbTop int) (models.GeneratedQuerySpec, error) {
	messages := []models.PromptMessage{
		{Role: models.RoleSystem, Content: ai.BuildSQLQueryPrompt(dbTop)},
		{Role: models.RoleUser, Content: question},
	}

	raw, err := s.completer.CompleteChat(ctx, messages, models.ChatSettings{})
	if err != nil {
		return models.GeneratedQuerySpec{}, fmt.Errorf("failed to generate SQL query: %w", err)
	}

	cleaned := ai.StripCodeFences(raw)
	if !gjson.Valid(cleaned) {
		return models.GeneratedQuerySpec{}, formatErr("query generation", "model response is not valid JSON")
	}
	parsed := gjson.Parse(cleaned)

	queryField := parsed.Get("query")
	if queryField.Type != gjson.String || queryField.String() == "" {
		return models.GeneratedQuerySpec{}, formatErr("query generation", "missing required field 'query'")
	}

	spec := models.GeneratedQuerySpec{Query: queryField.String()}

	// Parameters arrive either as a list of one-entry dictionaries plus a
	// 'type' key, or as an empty object when the query has none.
	paramsField := parsed.Get("parameters")
	if paramsField.IsArray() {
		var parseErr error
		seen := make(map[string]bool)
		paramsField.ForEach(func(_, element gjson.Result) bool {
			descriptor := models.ParamDescriptor{}
			element.ForEach(func(key, value gjson.Result) bool {
				if key.String() == "type" {
					descriptor.Type = value.String()
				} else {
					descriptor.Name = key.String()
					descriptor.Value = value.Value()
				}
				return true
			})
			if descriptor.Name == "" {
				parseErr = formatErr("query generation", "parameter entry has no name")
				return false
			}
			if seen[descriptor.Name] {
				parseErr = formatErr("query generation", "duplicate parameter name %q", descriptor.Name)
				return false
			}
			seen[descriptor.Name] = true
			spec.Parameters = append(spec.Parameters, descriptor)
			return true
		})
		if parseErr != nil {
			return models.GeneratedQuerySpec{}, parseErr
		}
	}

	if notification := parsed.Get("notification"); notification.IsObject() {
		var n models.NotificationSpec
		if err := json.Unmarshal([]byte(notification.Raw), &n); err != nil {
			return models.GeneratedQuerySpec{}, formatErr("query generation", "malformed notification field: %v", err)
		}
		spec.Notification = &n
	}

	return spec, nil
}

// sendNotification fills placeholders from the first result row and
// attempts delivery. The outcome is always reduced to a status string.
func (s *ChatService) sendNotification(ctx context.Context, n *models.NotificationSpec, rows []models.Row) string {
	var firstRow models.Row
	if len(rows) > 0 {
		firstRow = rows[0]
	}

	recipient := SubstitutePlaceholders(n.RecipientEmail, firstRow)
	subject := SubstitutePlaceholders(n.Subject, firstRow)
	body := SubstitutePlaceholders(n.Body, firstRow)

	ok, message := s.notifier.Send(ctx, recipient, subject, body)
	if ok {
		return fmt.Sprintf("Notification sent to %s: %s", recipient, message)
	}
	return fmt.Sprintf("Notification could not be sent: %s", message)
}

func (s *ChatService) rewriteSearchQuery(ctx context.Context, question string) (string, error) {
	messages := []models.PromptMessage{
		{Role: models.RoleSystem, Content: ai.BuildSearchQueryPrompt()},
		{Role: models.RoleUser, Content: question},
	}

	raw, err := s.completer.CompleteChat(ctx, messages, models.ChatSettings{})
	if err != nil {
		return "", fmt.Errorf("failed to get search query: %w", err)
	}

	query := strings.TrimSpace(raw)
	if query == "" {
		return "", formatErr("search query", "model returned an empty query")
	}
	return query, nil
}

// parseAnswer enforces the mode's output contract on the answer call and
// returns the display string plus the model-reported thoughts. In Database
// mode the introduction is prepended and the notification note appended.
func (s *ChatService) parseAnswer(raw string, mode models.QueryMode) (string, string, error) {
	cleaned := ai.StripCodeFences(raw)
	if !gjson.Valid(cleaned) {
		return "", "", formatErr("answer", "model response is not valid JSON")
	}
	parsed := gjson.Parse(cleaned)

	answerField := parsed.Get("answer")
	if !answerField.Exists() {
		return "", "", formatErr("answer", "missing required field 'answer'")
	}
	thoughtsField := parsed.Get("thoughts")
	if thoughtsField.Type != gjson.String {
		return "", "", formatErr("answer", "missing required field 'thoughts'")
	}

	value, err := ParseAnswerValue(answerField)
	if err != nil {
		return "", "", err
	}
	display := value.Display()

	if mode == models.QueryModeDatabase {
		if intro := parsed.Get("introduction").String(); intro != "" {
			display = intro + "\n\n" + display
		}
		if note := parsed.Get("notification").String(); note != "" {
			display = display + "\n\n" + note
		}
	}

	return display, thoughtsField.String(), nil
}

// generateFollowups asks for three follow-up questions as a JSON string
// array.
func (s *ChatService) generateFollowups(ctx context.Context, answer string, mode models.QueryMode, settings models.ChatSettings) ([]string, error) {
	messages := []models.PromptMessage{
		{Role: models.RoleSystem, Content: ai.FollowupSystemPrompt(mode)},
		{Role: models.RoleUser, Content: ai.BuildFollowupPrompt(answer, mode)},
	}

	raw, err := s.completer.CompleteChat(ctx, messages, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to get follow-up questions: %w", err)
	}

	cleaned := ai.StripCodeFences(raw)
	parsed := gjson.Parse(cleaned)
	if !gjson.Valid(cleaned) || !parsed.IsArray() {
		return nil, formatErr("follow-up questions", "model response is not a JSON string list")
	}

	var questions []string
	parsed.ForEach(func(_, q gjson.Result) bool {
		questions = append(questions, q.String())
		return true
	})
	return questions, nil
}

func (s *ChatService) assembleResponse(mode models.QueryMode, content, thoughts string, docs []models.SupportingContentRecord, images []models.SupportingImageRecord, followups []string) models.ChatAppResponse {
	dataPointsContent := make([]models.SupportingContentRecord, 0)
	dataPointsImages := make([]models.SupportingImageRecord, 0)
	if mode == models.QueryModeDocument {
		dataPointsContent = append(dataPointsContent, docs...)
		dataPointsImages = append(dataPointsImages, images...)
	}
	if followups == nil {
		followups = make([]string, 0)
	}

	choice := models.ResponseChoice{
		Index: 0,
		Message: models.ResponseMessage{
			Role:    models.RoleAssistant,
			Content: content,
		},
		Context: models.ResponseContext{
			DataPointsContent: dataPointsContent,
			DataPointsImages:  dataPointsImages,
			FollowupQuestions: followups,
			Thoughts:          []models.Thought{{Title: "Thoughts", Description: thoughts}},
		},
		CitationBaseURL: s.opts.CitationBaseURL,
	}

	return models.ChatAppResponse{Choices: []models.ResponseChoice{choice}}
}

func applyDefaults(o models.RequestOverrides) models.RequestOverrides {
	if o.QueryMode == "" {
		o.QueryMode = models.QueryModeDocument
	}
	if o.RetrievalMode == "" {
		o.RetrievalMode = models.RetrievalModeHybrid
	}
	if o.Top <= 0 {
		o.Top = 3
	}
	if o.DBTop <= 0 {
		o.DBTop = 15
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.7
	}
	return o
}

func lastUserMessage(history []models.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsUser {
			return history[i].Content, true
		}
	}
	return "", false
}
