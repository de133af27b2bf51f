package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListMatches returns the caller's matches with both horses joined.
func (h *Handler) ListMatches(c *gin.Context) {
	matches, err := h.conversation.ListMatches(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// ListMessages returns a match's history, oldest first. Content is a
// plain JSON string; clients must not interpret it as markup.
func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.conversation.ListMessages(c.Request.Context(), identityFrom(c).UserID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage appends a message to one of the caller's matches.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	msg, err := h.conversation.Send(c.Request.Context(), identityFrom(c).UserID, c.Param("id"), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
