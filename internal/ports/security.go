package ports

import (
	"time"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
)

// PasswordHasher abstracts credential hashing so the application layer stays
// independent of the hash algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthClaims is the token payload carried between sign and validate.
type AuthClaims struct {
	UserID    uuid.UUID
	Username  string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	KeyID     string
}

// TokenSigner issues and validates bearer tokens for the transport layer.
type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}
