package resolver

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Paul1o1/rendojobs-frontend/internal/auth/telegram"
	"github.com/Paul1o1/rendojobs-frontend/internal/logger"
	"github.com/Paul1o1/rendojobs-frontend/internal/user"
)

// placeholderName is used when a Telegram account carries no usable
// name fields at all.
const placeholderName = "New User"

// StoreResolver resolves Telegram identities against the user store,
// auto-registering accounts on first sight.
type StoreResolver struct {
	store user.Store
}

func NewStoreResolver(store user.Store) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *telegram.UserData,
) (*user.User, error) {

	if identity == nil {
		return nil, errors.New("resolver: identity is nil")
	}

	telegramID := strconv.FormatInt(identity.ID, 10)

	// 1. Existing account.
	u, err := r.store.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	// 2. First sight: auto-register.
	u, err = r.store.Create(ctx, telegramID, displayName(identity))
	if err == nil {
		logger.Info("auto-registered telegram user", map[string]any{
			"telegram_id": telegramID,
			"user_id":     u.ID,
		})
		return u, nil
	}

	// 3. Lost a concurrent-registration race: the unique constraint is
	// the arbiter, re-read the winner's record instead of erroring.
	if errors.Is(err, user.ErrDuplicate) {
		return r.store.FindByTelegramID(ctx, telegramID)
	}

	return nil, err
}

func displayName(identity *telegram.UserData) string {
	parts := make([]string, 0, 2)
	if identity.FirstName != "" {
		parts = append(parts, identity.FirstName)
	}
	if identity.LastName != "" {
		parts = append(parts, identity.LastName)
	}
	if len(parts) == 0 {
		return placeholderName
	}
	return strings.Join(parts, " ")
}
