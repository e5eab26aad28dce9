package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Paul1o1/rendojobs-frontend/internal/auth/replay"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/resolver"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/telegram"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/token"
)

type Handler struct {
	validator *telegram.Validator
	resolver  resolver.Resolver
	issuer    *token.Issuer
	guard     replay.Guard
}

func NewHandler(
	validator *telegram.Validator,
	resolver resolver.Resolver,
	issuer *token.Issuer,
	guard replay.Guard,
) *Handler {
	return &Handler{
		validator: validator,
		resolver:  resolver,
		issuer:    issuer,
		guard:     guard,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/telegram-login", h.telegramLogin)
}
