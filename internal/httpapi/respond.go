package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/stablemate/stablemate/internal/errors"
)

// fail writes the JSON error envelope for err. Internal errors are
// logged with detail and surfaced as a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := svcErr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.appCtx.Logger.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": svcErr.Message(err)})
}

// failBadRequest is for malformed request bodies caught at binding.
func (h *Handler) failBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
