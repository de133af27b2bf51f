package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "github.com/stablemate/stablemate/internal/service/auth"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns the user plus a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), authsvc.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": result.User, "token": result.Token})
}

// Login checks credentials and returns the user plus a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": result.User, "token": result.Token})
}

// Logout revokes the current session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), sessionIDFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the caller's account record.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Email        *string `json:"email"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile edits the caller's own descriptive fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBadRequest(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), identityFrom(c).UserID, sessionIDFrom(c), authsvc.UpdateProfileInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Location:     req.Location,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
