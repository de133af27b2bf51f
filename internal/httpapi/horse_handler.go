package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stablemate/stablemate/internal/service/stable"
)

// ListMyHorses returns the caller's own horses.
func (h *Handler) ListMyHorses(c *gin.Context) {
	horses, err := h.stable.ListMine(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"horses": horses})
}

// CreateHorse adds a horse to the caller's stable.
func (h *Handler) CreateHorse(c *gin.Context) {
	var req stable.HorseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	horse, err := h.stable.Create(c.Request.Context(), identityFrom(c).UserID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"horse": horse})
}

// UpdateHorse edits one of the caller's horses.
func (h *Handler) UpdateHorse(c *gin.Context) {
	var req stable.HorseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	horse, err := h.stable.Update(c.Request.Context(), identityFrom(c).UserID, c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"horse": horse})
}

// DeleteHorse removes one of the caller's horses.
func (h *Handler) DeleteHorse(c *gin.Context) {
	if err := h.stable.Delete(c.Request.Context(), identityFrom(c).UserID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
