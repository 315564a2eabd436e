package models

// QueryMode selects the grounding strategy for a chat request.
type QueryMode string

const (
	QueryModeDocument QueryMode = "document"
	QueryModeDatabase QueryMode = "database"
)

// RetrievalMode selects how document search is performed.
type RetrievalMode string

const (
	RetrievalModeText   RetrievalMode = "text"
	RetrievalModeVector RetrievalMode = "vector"
	RetrievalModeHybrid RetrievalMode = "hybrid"
)

type ChatMessage struct {
	IsUser  bool   `json:"isUser"`
	Content string `json:"content"`
}

// RequestOverrides carries per-request tuning options. Zero values mean
// "use the default" (Document mode, hybrid retrieval, top 3, dbTop 15,
// temperature 0.7).
type RequestOverrides struct {
	QueryMode                QueryMode     `json:"queryMode,omitempty"`
	RetrievalMode            RetrievalMode `json:"retrievalMode,omitempty"`
	Top                      int           `json:"top,omitempty"`
	DBTop                    int           `json:"dbTop,omitempty"`
	SemanticCaptions         bool          `json:"semanticCaptions,omitempty"`
	SemanticRanker           bool          `json:"semanticRanker,omitempty"`
	ExcludeCategory          string        `json:"excludeCategory,omitempty"`
	SuggestFollowupQuestions bool          `json:"suggestFollowupQuestions,omitempty"`
	Temperature              float64       `json:"temperature,omitempty"`
}

type ChatRequest struct {
	History   []ChatMessage    `json:"history"`
	Overrides RequestOverrides `json:"overrides"`
}

// ParamDescriptor is one loosely-typed parameter from a generated query.
// Type drives binding (VARCHAR/TEXT/INTEGER/FLOAT/NUMERIC/DATE/TIMESTAMP).
type ParamDescriptor struct {
	Name  string
	Value interface{}
	Type  string
}

type NotificationSpec struct {
	Send           bool   `json:"send"`
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// GeneratedQuerySpec is the model's structured output in Database mode.
type GeneratedQuerySpec struct {
	Query        string
	Parameters   []ParamDescriptor
	Notification *NotificationSpec
}

type SupportingContentRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SupportingImageRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RowField is one column/value pair of a result row. Rows keep column
// order so "first column" semantics survive formatting.
type RowField struct {
	Name  string
	Value interface{}
}

type Row []RowField

func (r Row) Get(name string) (interface{}, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// PromptMessage is one role-tagged message sent to the language model.
// ImageURLs, when non-empty, turn the message into mixed text+image content.
type PromptMessage struct {
	Role      string
	Content   string
	ImageURLs []string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatSettings struct {
	MaxTokens     int
	Temperature   float64
	StopSequences []string
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Thought struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ResponseContext struct {
	DataPointsContent []SupportingContentRecord `json:"dataPointsContent"`
	DataPointsImages  []SupportingImageRecord   `json:"dataPointsImages"`
	FollowupQuestions []string                  `json:"followupQuestions"`
	Thoughts          []Thought                 `json:"thoughts"`
}

type ResponseChoice struct {
	Index           int             `json:"index"`
	Message         ResponseMessage `json:"message"`
	Context         ResponseContext `json:"context"`
	CitationBaseURL string          `json:"citationBaseUrl"`
}

type ChatAppResponse struct {
	Choices []ResponseChoice `json:"choices"`
}
