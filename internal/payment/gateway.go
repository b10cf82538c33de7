package payment

import "context"

// ChargeMeta is attached to the gateway charge so the external record can be
// traced back to the event and polarity it paid for.
type ChargeMeta struct {
	EventIden string
	PacIden   string
	Support   bool
}

// Gateway is the payment collaborator. Amounts are in minor units (cents);
// callers convert from dollars at this boundary.
type Gateway interface {
	// CreateCustomer registers a new gateway customer with the card token as
	// its payment source, tagged with the internal user iden.
	CreateCustomer(ctx context.Context, userIden, cardToken string) (customerIden string, err error)
	// UpdateCard replaces the customer's payment source.
	UpdateCard(ctx context.Context, customerIden, cardToken string) error
	// Charge debits the customer and returns the gateway charge iden.
	Charge(ctx context.Context, customerIden string, amountCents int64, meta ChargeMeta) (chargeIden string, err error)
}
