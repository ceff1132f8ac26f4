// README: Conversation handlers; open, send message, read and clear.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"charterdesk/internal/http/middleware"
	"charterdesk/internal/modules/conversation"
	"charterdesk/internal/service"
	"charterdesk/internal/types"
)

const maxMessageLen = 4000

type ConversationHandler struct {
	concierge *service.Concierge
}

func NewConversationHandler(c *service.Concierge) *ConversationHandler {
	return &ConversationHandler{concierge: c}
}

type sendMessageReq struct {
	Message string `json:"message"`
}

func (h *ConversationHandler) Create(c *gin.Context) {
	id, err := h.concierge.Open(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"conversation_id": id})
}

func (h *ConversationHandler) Send(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if len(msg) > maxMessageLen {
		writeError(c, http.StatusRequestEntityTooLarge, "message too long")
		return
	}
	res := h.concierge.ProcessMessage(c.Request.Context(), msg, id, middleware.CallerRole(c))
	writeJSON(c, http.StatusOK, res)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}
	rec, found := h.concierge.History(c.Request.Context(), id)
	if !found {
		writeDomainError(c, conversation.ErrNotFound)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}
	h.concierge.Clear(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

func conversationID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid conversation id")
		return "", false
	}
	return types.ID(id), true
}
