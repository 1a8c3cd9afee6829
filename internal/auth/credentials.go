// internal/auth/credentials.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Annany2002/bookreader-backend/internal/domain"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

// Compared against when the username is unknown so both login failures cost
// one bcrypt comparison.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

func compareDummyHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// RegisterUser hashes the password and stores a new active user. Username and
// email uniqueness is left to the store, which reports
// storage.ErrUsernameExists or storage.ErrEmailExists.
func RegisterUser(ctx context.Context, db *sql.DB, username, email, password string, cost int, superuser bool) (*domain.User, error) {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  superuser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := storage.CreateUser(ctx, db, user); err != nil {
		return nil, err
	}
	customLog.Printf("Auth: Registered user %s (%s)", user.Username, user.ID)
	return user, nil
}

// VerifyCredentials returns the user when password matches. An unknown
// username and a wrong password both yield storage.ErrInvalidCredentials.
func VerifyCredentials(ctx context.Context, db *sql.DB, username, password string) (*domain.User, error) {
	user, err := storage.FindUserByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			compareDummyHash(password)
			return nil, storage.ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, storage.ErrInvalidCredentials
	}
	return user, nil
}
