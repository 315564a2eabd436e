package handlers

import (
	"context"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
	"github.com/vincenteouswilliam/azure-ai-day-demo/service"
)

// @title           Ticket & Knowledge Assistant API
// @version         1.0
// @description     Retrieval-augmented chat backend - answers questions from indexed documents or from the customer support ticket database

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

// ChatReplier is the orchestration entry point consumed by the HTTP layer.
type ChatReplier interface {
	Reply(ctx context.Context, history []models.ChatMessage, overrides models.RequestOverrides) (models.ChatAppResponse, error)
}

// DBPinger probes record-store connectivity for the diagnostics endpoint.
type DBPinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	chatService ChatReplier
	tickets     DBPinger
	notifier    service.Notifier
	mailCfg     config.MailConfig
}

func New(chatService ChatReplier, tickets DBPinger, notifier service.Notifier, mailCfg config.MailConfig) *Handlers {
	return &Handlers{
		chatService: chatService,
		tickets:     tickets,
		notifier:    notifier,
		mailCfg:     mailCfg,
	}
}
