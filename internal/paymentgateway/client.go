// Package paymentgateway реализует клиент платежного шлюза Stripe
// для покупки курсов: создание и чтение PaymentIntent.
package paymentgateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// Client оборачивает Stripe API в форму Intent.
type Client struct {
	api      *client.API
	currency string
}

// NewClient создает клиента Stripe с заданным секретным ключом и валютой.
func NewClient(secretKey, currency string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, currency: currency}
}

// CreatePaymentIntent создает платежное намерение на сумму amount
// (в минимальных единицах валюты) с переданными метаданными.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*Intent, error) {
	const op = "paymentgateway.CreatePaymentIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(c.currency),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.New().String())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toIntent(pi), nil
}

// RetrievePaymentIntent возвращает текущее состояние платежного намерения.
func (c *Client) RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error) {
	const op = "paymentgateway.RetrievePaymentIntent"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:             pi.ID,
		ClientSecret:   pi.ClientSecret,
		Status:         string(pi.Status),
		AmountReceived: pi.AmountReceived,
		Metadata:       pi.Metadata,
	}
}
