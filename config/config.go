package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	CitationBaseURL string
	OpenAI          OpenAIConfig
	Search          SearchConfig
	Vision          VisionConfig
	Postgres        PostgresConfig
	Mail            MailConfig
	Auth            AuthConfig
}

type OpenAIConfig struct {
	APIKey              string
	BaseURL             string // optional, e.g. an Azure OpenAI endpoint
	ChatDeployment      string
	EmbeddingDeployment string
}

type SearchConfig struct {
	Endpoint   string
	APIKey     string
	Index      string
	ImageIndex string
}

// VisionConfig points at an image vectorization endpoint. Leave Endpoint
// empty to disable image retrieval entirely.
type VisionConfig struct {
	Endpoint string
	APIKey   string
}

type PostgresConfig struct {
	ConnectionString string
}

type MailConfig struct {
	SMTPHost          string
	SMTPPort          int
	SenderAddress     string
	SenderPassword    string
	SenderDisplayName string
	// All outgoing mail is redirected here when set, so demo runs never
	// notify real customers.
	DummyRecipient string
}

type AuthConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	StorageScope string
}

func GetConfig() Config {
	return Config{
		Port:            getEnv("PORT", "9090"),
		CitationBaseURL: getEnv("CITATION_BASE_URL", ""),
		OpenAI: OpenAIConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			BaseURL:             getEnv("OPENAI_BASE_URL", ""),
			ChatDeployment:      getEnv("OPENAI_CHATGPT_DEPLOYMENT", "gpt-4o"),
			EmbeddingDeployment: getEnv("OPENAI_EMBEDDING_DEPLOYMENT", "text-embedding-3-small"),
		},
		Search: SearchConfig{
			Endpoint:   getEnv("AZURE_SEARCH_SERVICE_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_SEARCH_API_KEY", ""),
			Index:      getEnv("AZURE_SEARCH_INDEX", "gptkbindex"),
			ImageIndex: getEnv("AZURE_SEARCH_IMAGE_INDEX", ""),
		},
		Vision: VisionConfig{
			Endpoint: getEnv("AZURE_COMPUTER_VISION_ENDPOINT", ""),
			APIKey:   getEnv("AZURE_COMPUTER_VISION_API_KEY", ""),
		},
		Postgres: PostgresConfig{
			ConnectionString: getEnv("AZURE_POSTGRESQL_CONNECTION_STRING", ""),
		},
		Mail: MailConfig{
			SMTPHost:          getEnv("MAIL_SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnvInt("MAIL_SMTP_PORT", 587),
			SenderAddress:     getEnv("MAIL_SENDER_EMAIL_ADDRESS", ""),
			SenderPassword:    getEnv("MAIL_SENDER_EMAIL_PASSWORD", ""),
			SenderDisplayName: getEnv("MAIL_SENDER_DISPLAY_NAME", "AI App"),
			DummyRecipient:    getEnv("MAIL_DUMMY_RECIPIENT_ADDRESS", ""),
		},
		Auth: AuthConfig{
			TenantID:     getEnv("AZURE_TENANT_ID", ""),
			ClientID:     getEnv("AZURE_CLIENT_ID", ""),
			ClientSecret: getEnv("AZURE_CLIENT_SECRET", ""),
			StorageScope: getEnv("AZURE_STORAGE_SCOPE", "https://storage.azure.com/.default"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
