package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DBCheckHandler probes the ticket database connection
// @Summary      Database connectivity check
// @Description  Open and close a connection to the PostgreSQL ticket database
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {object}  map[string]string  "Connection successful"
// @Failure      500  {object}  map[string]string  "Connection failed"
// @Router       /api/db [get]
func (h *Handlers) DBCheckHandler(c *gin.Context) {
	if h.tickets == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Connection string not found in environment variable."})
		return
	}

	if err := h.tickets.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error connecting to database: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "PostgreSQL connection successful!"})
}

// MailCheckHandler probes the SMTP connection with a test message
// @Summary      Mail connectivity check
// @Description  Send a fixed test email to the configured diagnostic recipient
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {object}  map[string]string  "Mail sent"
// @Failure      500  {object}  map[string]string  "Send failed"
// @Router       /api/mail [get]
func (h *Handlers) MailCheckHandler(c *gin.Context) {
	if h.mailCfg.SenderAddress == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sender email address is not configured."})
		return
	}
	if h.mailCfg.DummyRecipient == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dummy target recipient is empty"})
		return
	}

	ok, message := h.notifier.Send(
		c.Request.Context(),
		h.mailCfg.DummyRecipient,
		"Test Email from AI App",
		"This is a test email from AI App for the purpose of checking mail connection",
	)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email connection successful!"})
}

// EnableLogoutHandler reports whether a client principal header is present
// @Summary      Logout availability
// @Description  Returns true when the request carries an authenticated client principal header
// @Tags         Diagnostics
// @Produce      json
// @Success      200  {boolean}  bool  "Logout enabled"
// @Router       /api/enableLogout [get]
func (h *Handlers) EnableLogoutHandler(c *gin.Context) {
	header := c.GetHeader("X-MS-CLIENT-PRINCIPAL-ID")
	c.JSON(http.StatusOK, header != "")
}
