package payment

import (
	"context"
	"fmt"
	"strconv"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/civictechlab/contrib-api/internal/domain"
)

// Stripe implements Gateway against the Stripe API.
type Stripe struct {
	api *client.API
}

func NewStripe(key string) *Stripe {
	api := &client.API{}
	api.Init(key, nil)
	return &Stripe{api: api}
}

func (s *Stripe) CreateCustomer(ctx context.Context, userIden, cardToken string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Source: stripe.String(cardToken),
	}
	params.AddMetadata("user_iden", userIden)
	cus, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %v", domain.ErrPaymentGateway, err)
	}
	return cus.ID, nil
}

func (s *Stripe) UpdateCard(ctx context.Context, customerIden, cardToken string) error {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Source: stripe.String(cardToken),
	}
	if _, err := s.api.Customers.Update(customerIden, params); err != nil {
		return fmt.Errorf("%w: update card: %v", domain.ErrPaymentGateway, err)
	}
	return nil
}

func (s *Stripe) Charge(ctx context.Context, customerIden string, amountCents int64, meta ChargeMeta) (string, error) {
	params := &stripe.ChargeParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerIden),
	}
	params.AddMetadata("event_iden", meta.EventIden)
	params.AddMetadata("pac_iden", meta.PacIden)
	params.AddMetadata("support", strconv.FormatBool(meta.Support))
	ch, err := s.api.Charges.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: charge: %v", domain.ErrPaymentGateway, err)
	}
	return ch.ID, nil
}
