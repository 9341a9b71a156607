package auth

import (
	"context"
	"time"

	"quill/internal/cache"
)

const blacklistKeyPrefix = "blacklist:session:"

// TokenStoreInterface defines the interface for session token revocation.
type TokenStoreInterface interface {
	BlacklistSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore records logged-out session token IDs in Redis. Session
// cookies are stateless JWTs, so logout marks the token ID revoked until
// the token would have expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// BlacklistSession marks a session token ID as revoked until ttl elapses.
func (s *TokenStore) BlacklistSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Set(ctx, blacklistKeyPrefix+tokenID, []byte("1"), ttl)
	return nil
}

// IsSessionBlacklisted checks if a session token ID has been revoked.
// Cache failures read as not blacklisted.
func (s *TokenStore) IsSessionBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	_, found := s.cache.Get(ctx, blacklistKeyPrefix+tokenID)
	return found, nil
}
