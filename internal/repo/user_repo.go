package repo

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/civictechlab/contrib-api/internal/domain"
)

// SaveUser writes the full user hash. Used both for registration and for
// profile updates; unchanged fields are rewritten with their current values.
func (r *Redis) SaveUser(ctx context.Context, u *domain.User) error {
	return r.C.HSet(ctx, keyUser(u.Iden), map[string]interface{}{
		"iden":           u.Iden,
		"facebook_iden":  u.FacebookIden,
		"name":           u.Name,
		"email":          u.Email,
		"occupation":     u.Occupation,
		"employer":       u.Employer,
		"street_address": u.StreetAddress,
		"city_state_zip": u.CityStateZip,
		"created_at":     u.CreatedAt,
		"modified_at":    u.ModifiedAt,
	}).Err()
}

// FindUser returns nil when no hash exists for the iden.
func (r *Redis) FindUser(ctx context.Context, iden string) (*domain.User, error) {
	m, err := r.C.HGetAll(ctx, keyUser(iden)).Result()
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	u := &domain.User{
		Iden:          m["iden"],
		FacebookIden:  m["facebook_iden"],
		Name:          m["name"],
		Email:         m["email"],
		Occupation:    m["occupation"],
		Employer:      m["employer"],
		StreetAddress: m["street_address"],
		CityStateZip:  m["city_state_zip"],
	}
	u.CreatedAt, _ = strconv.ParseInt(m["created_at"], 10, 64)
	u.ModifiedAt, _ = strconv.ParseInt(m["modified_at"], 10, 64)
	return u, nil
}

func (r *Redis) SaveTokenUser(ctx context.Context, token, userIden string) error {
	return r.C.Set(ctx, keyToken(token), userIden, 0).Err()
}

func (r *Redis) SaveUserToken(ctx context.Context, userIden, token string) error {
	return r.C.Set(ctx, keyUserToken(userIden), token, 0).Err()
}

func (r *Redis) SaveFacebookUser(ctx context.Context, facebookIden, userIden string) error {
	return r.C.Set(ctx, keyFacebook(facebookIden), userIden, 0).Err()
}

// UserIdenByToken returns "" when the token is unknown.
func (r *Redis) UserIdenByToken(ctx context.Context, token string) (string, error) {
	return getOrEmpty(r.C.Get(ctx, keyToken(token)))
}

// TokenByUser returns "" when the user has no token mapping.
func (r *Redis) TokenByUser(ctx context.Context, userIden string) (string, error) {
	return getOrEmpty(r.C.Get(ctx, keyUserToken(userIden)))
}

// UserIdenByFacebook returns "" when the external identity is unregistered.
func (r *Redis) UserIdenByFacebook(ctx context.Context, facebookIden string) (string, error) {
	return getOrEmpty(r.C.Get(ctx, keyFacebook(facebookIden)))
}

func getOrEmpty(cmd *redis.StringCmd) (string, error) {
	v, err := cmd.Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}
