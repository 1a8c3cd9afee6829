// internal/auth/resolve.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Annany2002/bookreader-backend/internal/domain"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// ResolveUser turns a bearer token into the active user it was issued for.
// Any token failure or a missing subject yields ErrUnauthenticated (wrapping
// the cause); a deactivated account yields ErrInactiveUser.
func ResolveUser(ctx context.Context, db *sql.DB, tokens *TokenService, token string) (*domain.User, error) {
	subject, err := tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := storage.FindUserByID(ctx, db, subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			customLog.Printf("Auth: Token subject %s no longer exists", subject)
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
