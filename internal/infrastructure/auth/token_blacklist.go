package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire. A single access token is
// revoked by JTI on logout; a password change revokes every token the user
// was issued before it.
//
// Token timestamps have second precision, so a user revocation rejects tokens
// issued strictly before the revocation second. A login right after a
// password change keeps working.
type TokenBlacklist interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	// Revoked checks both the JTI and the user revocation. Empty arguments are skipped.
	Revoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error)
}

func issuedBefore(issuedAt time.Time, revokedAtUnix int64) bool {
	return issuedAt.Unix() < revokedAtUnix
}

// RedisTokenBlacklist keeps revocations in redis so every API instance sees them
type RedisTokenBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenBlacklist stores keys under hyperflow:revoked:
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, prefix: "hyperflow:revoked:"}
}

func (b *RedisTokenBlacklist) tokenKey(jti string) string { return b.prefix + "jti:" + jti }
func (b *RedisTokenBlacklist) userKey(id string) string   { return b.prefix + "user:" + id }

// RevokeToken revokes jti for ttl, normally the token's remaining lifetime
func (b *RedisTokenBlacklist) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.tokenKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RevokeUser records the revocation second. ttl should cover the longest
// token lifetime.
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// Revoked looks up both keys in one round trip
func (b *RedisTokenBlacklist) Revoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	var (
		tokenCmd *redis.IntCmd
		userCmd  *redis.StringCmd
	)
	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if jti != "" {
			tokenCmd = pipe.Exists(ctx, b.tokenKey(jti))
		}
		if userID != "" {
			userCmd = pipe.Get(ctx, b.userKey(userID))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	if tokenCmd != nil && tokenCmd.Val() > 0 {
		return true, nil
	}
	if userCmd != nil {
		revokedAt, err := userCmd.Int64()
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read user revocation: %w", err)
		}
		return issuedBefore(issuedAt, revokedAt), nil
	}
	return false, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is used when redis is disabled. Revocations are
// local to the process and expire like their redis counterparts.
type InMemoryTokenBlacklist struct {
	mu     sync.Mutex
	now    func() time.Time
	tokens map[string]time.Time // jti -> expiry
	users  map[string]userRevocation
}

type userRevocation struct {
	at      int64
	expires time.Time
}

// InMemoryOption configures an InMemoryTokenBlacklist
type InMemoryOption func(*InMemoryTokenBlacklist)

// WithClock replaces time.Now
func WithClock(now func() time.Time) InMemoryOption {
	return func(b *InMemoryTokenBlacklist) { b.now = now }
}

// NewInMemoryTokenBlacklist creates an empty blacklist
func NewInMemoryTokenBlacklist(opts ...InMemoryOption) *InMemoryTokenBlacklist {
	b := &InMemoryTokenBlacklist{
		now:    time.Now,
		tokens: make(map[string]time.Time),
		users:  make(map[string]userRevocation),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RevokeToken revokes jti for ttl
func (b *InMemoryTokenBlacklist) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[jti] = b.now().Add(ttl)
	return nil
}

// RevokeUser revokes every token of userID issued before now
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.users[userID] = userRevocation{at: now.Unix(), expires: now.Add(ttl)}
	return nil
}

// Revoked drops expired entries as it finds them
func (b *InMemoryTokenBlacklist) Revoked(_ context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()

	if jti != "" {
		if expiry, ok := b.tokens[jti]; ok {
			if now.Before(expiry) {
				return true, nil
			}
			delete(b.tokens, jti)
		}
	}
	if userID != "" {
		if rev, ok := b.users[userID]; ok {
			if now.Before(rev.expires) {
				return issuedBefore(issuedAt, rev.at), nil
			}
			delete(b.users, userID)
		}
	}
	return false, nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
