package repo

import (
	"context"
)

// CustomerIden returns "" when the user never registered a payment method.
func (r *Redis) CustomerIden(ctx context.Context, userIden string) (string, error) {
	return getOrEmpty(r.C.Get(ctx, keyUserCustomer(userIden)))
}

func (r *Redis) SaveCustomerIden(ctx context.Context, userIden, customerIden string) error {
	return r.C.Set(ctx, keyUserCustomer(userIden), customerIden, 0).Err()
}

// PushContribution prepends a contribution iden to the user's list, keeping it
// reverse-chronological.
func (r *Redis) PushContribution(ctx context.Context, userIden, contribIden string) error {
	return r.C.LPush(ctx, keyUserContribs(userIden), contribIden).Err()
}

// ContributionIdens returns the user's contribution idens, most recent first.
func (r *Redis) ContributionIdens(ctx context.Context, userIden string) ([]string, error) {
	return r.C.LRange(ctx, keyUserContribs(userIden), 0, -1).Result()
}

// Counter increments. Atomicity under concurrent contributions is delegated to
// Redis; the increments themselves carry no replay protection.

func (r *Redis) IncrEventSum(ctx context.Context, eventIden string, support bool, amount int64) error {
	return r.C.IncrBy(ctx, keyEventSum(eventIden, support), amount).Err()
}

func (r *Redis) IncrPoliticianSum(ctx context.Context, pacIden string, support bool, amount int64) error {
	return r.C.IncrBy(ctx, keyPoliticianSum(pacIden, support), amount).Err()
}

func (r *Redis) IncrGlobalSum(ctx context.Context, amount int64) error {
	return r.C.IncrBy(ctx, keyGlobalSum, amount).Err()
}

func (r *Redis) IncrUserSum(ctx context.Context, userIden string, amount int64) error {
	return r.C.IncrBy(ctx, keyUserSum(userIden), amount).Err()
}
