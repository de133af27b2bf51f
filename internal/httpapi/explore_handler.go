package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Discover returns the swipe feed: other owners' horses, at most 20.
func (h *Handler) Discover(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	horses, err := h.explore.Candidates(c.Request.Context(), identityFrom(c).UserID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"horses": horses})
}

type swipeRequest struct {
	HorseID       string `json:"horse_id" binding:"required"`
	TargetHorseID string `json:"target_horse_id" binding:"required"`
	Action        string `json:"action" binding:"required"`
}

// Swipe records a like/pass and reports whether it completed a match.
func (h *Handler) Swipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	result, err := h.explore.Swipe(c.Request.Context(), identityFrom(c).UserID, req.HorseID, req.TargetHorseID, req.Action)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LikedCount returns how many horses liked the caller's horse.
func (h *Handler) LikedCount(c *gin.Context) {
	count, err := h.explore.LikedCount(c.Request.Context(), identityFrom(c).UserID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ListLikers pages through the horses that liked the caller's horse.
func (h *Handler) ListLikers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	var token *string
	if t := c.Query("token"); t != "" {
		token = &t
	}

	page, err := h.explore.Likers(c.Request.Context(), identityFrom(c).UserID, c.Param("id"), token, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
