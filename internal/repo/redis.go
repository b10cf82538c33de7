package repo

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Redis is the key/value adapter. Keys follow the structured naming the rest
// of the repo methods rely on:
//
//	user:{iden}                user hash
//	user:{iden}:token          user iden -> bearer token
//	user:{iden}:customer       user iden -> gateway customer iden
//	user:{iden}:contributions  reverse-chronological contribution iden list
//	user:{iden}:sum            per-user running total
//	token:{tok}                bearer token -> user iden
//	facebook:{iden}            external identity -> user iden
//	sum:event:{iden}:{side}    per-event running totals
//	sum:politician:{iden}:{side}
//	sum:global
type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

const keyGlobalSum = "sum:global"

func keyUser(iden string) string         { return "user:" + iden }
func keyUserToken(iden string) string    { return "user:" + iden + ":token" }
func keyUserCustomer(iden string) string { return "user:" + iden + ":customer" }
func keyUserContribs(iden string) string { return "user:" + iden + ":contributions" }
func keyUserSum(iden string) string      { return "user:" + iden + ":sum" }
func keyToken(tok string) string         { return "token:" + tok }
func keyFacebook(iden string) string     { return "facebook:" + iden }

func keyEventSum(iden string, support bool) string {
	return "sum:event:" + iden + ":" + side(support)
}

func keyPoliticianSum(iden string, support bool) string {
	return "sum:politician:" + iden + ":" + side(support)
}

func side(support bool) string {
	if support {
		return "support"
	}
	return "oppose"
}
