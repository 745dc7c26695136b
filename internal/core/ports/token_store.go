package ports

import (
	"context"
	"time"
)

// TokenRevocationStore remembers access tokens that were explicitly logged
// out before their expiry.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
