package repo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/civictechlab/contrib-api/internal/domain"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return &Redis{C: redis.NewClient(&redis.Options{Addr: m.Addr()})}
}

func TestUserRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	u := &domain.User{
		Iden:          "u-1",
		FacebookIden:  "fb-1",
		Name:          "Jane",
		Email:         "jane@example.com",
		Occupation:    "Engineer",
		Employer:      "Acme",
		StreetAddress: "1 Main St",
		CityStateZip:  "Springfield, IL 62701",
		CreatedAt:     1700000000,
		ModifiedAt:    1700000100,
	}
	require.NoError(t, r.SaveUser(ctx, u))

	got, err := r.FindUser(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestFindUser_Missing(t *testing.T) {
	r := newTestRedis(t)
	got, err := r.FindUser(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTokenAndIdentityMaps(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SaveTokenUser(ctx, "tok-1", "u-1"))
	require.NoError(t, r.SaveUserToken(ctx, "u-1", "tok-1"))
	require.NoError(t, r.SaveFacebookUser(ctx, "fb-1", "u-1"))

	iden, err := r.UserIdenByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "u-1", iden)

	tok, err := r.TokenByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	iden, err = r.UserIdenByFacebook(ctx, "fb-1")
	require.NoError(t, err)
	require.Equal(t, "u-1", iden)

	// Misses resolve to empty strings, not errors.
	iden, err = r.UserIdenByToken(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, iden)
	tok, err = r.TokenByUser(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, tok)
	iden, err = r.UserIdenByFacebook(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, iden)
}
