package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Paul1o1/rendojobs-frontend/internal/logger"
)

type loginRequest struct {
	InitData string `json:"initData"`
}

// telegramLogin verifies a Telegram initData payload and exchanges it
// for a session token, auto-registering the user on first sight.
func (h *Handler) telegramLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing initData",
		})
		return
	}

	userData, err := h.validator.Validate(req.InitData)
	if err != nil {
		// The specific check that tripped is logged for diagnostics
		// but never returned; the response stays opaque so the
		// verification algorithm cannot be probed.
		logger.Warn("telegram payload rejected", map[string]any{
			"reason": err.Error(),
			"ip":     c.ClientIP(),
		})
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Invalid Telegram data",
		})
		return
	}

	// Replay check runs only on payloads with a valid signature, so
	// unauthenticated garbage cannot fill the guard. The payload is
	// not marked yet: a store failure below must return a retryable
	// 500 without consuming it.
	seen, err := h.guard.Check(c.Request.Context(), req.InitData)
	if err != nil {
		// Fail open: losing replay hardening beats locking every
		// user out when Redis is down.
		logger.Error("replay guard unavailable", map[string]any{
			"error": err.Error(),
		})
	}
	if seen {
		logger.Warn("telegram payload replayed", map[string]any{
			"telegram_id": userData.ID,
			"ip":          c.ClientIP(),
		})
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Invalid Telegram data",
		})
		return
	}

	u, err := h.resolver.Resolve(c.Request.Context(), userData)
	if err != nil {
		logger.Error("failed to resolve telegram user", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		return
	}

	signed, err := h.issuer.Issue(u)
	if err != nil {
		logger.Error("failed to issue session token", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
		return
	}

	// The login is now fully issued; only here is the payload
	// consumed. Marking is best-effort, like the check.
	if err := h.guard.Mark(c.Request.Context(), req.InitData); err != nil {
		logger.Error("replay guard mark failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("telegram login", map[string]any{
		"user_id": u.ID,
		"ip":      c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   signed,
	})
}
