package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
	"github.com/vincenteouswilliam/azure-ai-day-demo/service"
	"github.com/vincenteouswilliam/azure-ai-day-demo/validation"
)

// ChatHandler answers a conversation from documents or the ticket database
// @Summary      Retrieval-augmented chat
// @Description  Send the conversation history and per-request overrides; the assistant grounds its answer in indexed documents or a generated ticket-database query depending on queryMode
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest     true  "Conversation history with overrides"
// @Success      200      {object}  models.ChatAppResponse "Assistant answer with citations, follow-ups and thoughts"
// @Failure      400      {object}  map[string]string      "Invalid request"
// @Failure      500      {object}  map[string]string      "Internal server error"
// @Router       /api/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if len(req.History) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "History is empty"})
		return
	}

	response, err := h.chatService.Reply(c.Request.Context(), req.History, req.Overrides)
	if err != nil {
		log.Printf("[CHAT HANDLER] reply failed: %v", err)

		var validationErr *validation.ValidationError
		switch {
		case errors.Is(err, service.ErrNoUserMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
