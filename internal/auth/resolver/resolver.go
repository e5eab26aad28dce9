package resolver

import (
	"context"

	"github.com/Paul1o1/rendojobs-frontend/internal/auth/telegram"
	"github.com/Paul1o1/rendojobs-frontend/internal/user"
)

// Resolver determines which internal user a verified Telegram identity
// belongs to. It is the ONLY place where identity-to-user mapping
// logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *telegram.UserData,
	) (*user.User, error)
}
