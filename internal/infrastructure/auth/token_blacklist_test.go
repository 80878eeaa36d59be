package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestInMemoryTokenBlacklist_RevokeToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	blacklist := auth.NewInMemoryTokenBlacklist(auth.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, blacklist.RevokeToken(ctx, "jti-1", time.Minute))

	revoked, err := blacklist.Revoked(ctx, "jti-1", "", clock.now)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.Revoked(ctx, "jti-2", "", clock.now)
	require.NoError(t, err)
	assert.False(t, revoked)

	clock.Advance(2 * time.Minute)
	revoked, err = blacklist.Revoked(ctx, "jti-1", "", clock.now)
	require.NoError(t, err)
	assert.False(t, revoked, "revocation expires with the token")
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 500, time.UTC)}
	blacklist := auth.NewInMemoryTokenBlacklist(auth.WithClock(clock.Now))
	ctx := context.Background()
	issued := clock.now.Add(-time.Hour)

	revoked, err := blacklist.Revoked(ctx, "", "user-1", issued)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", 24*time.Hour))

	tests := []struct {
		name     string
		userID   string
		issuedAt time.Time
		want     bool
	}{
		{"issued an hour before", "user-1", issued, true},
		{"issued the previous second", "user-1", clock.now.Add(-time.Second), true},
		{"issued in the revocation second", "user-1", clock.now.Truncate(time.Second), false},
		{"issued after", "user-1", clock.now.Add(time.Minute), false},
		{"other user", "user-2", issued, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := blacklist.Revoked(ctx, "", tt.userID, tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	clock.Advance(25 * time.Hour)
	revoked, err = blacklist.Revoked(ctx, "", "user-1", issued)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ChecksBothKeys(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.RevokeToken(ctx, "jti-1", time.Hour))
	revoked, err := blacklist.Revoked(ctx, "jti-1", "user-1", time.Now())
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.Revoked(ctx, "", "", time.Now())
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
