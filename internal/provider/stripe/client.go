// Package stripe implements the reconciler's Provider on top of the official
// Stripe SDK. Network retries with backoff are delegated to the SDK; list
// calls are exposed as lazy sequences that follow Stripe's cursor pagination
// until it is exhausted.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"payoutrecon/internal/cache"
	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
)

// ErrNotConfigured is returned when no secret key was supplied.
var ErrNotConfigured = errors.New("stripe: secret key not configured")

const pageSize = 100

type Config struct {
	SecretKey         string
	MaxNetworkRetries int
	ProductCacheSize  int
	ProductCacheTTL   time.Duration
	Logger            *log.Logger
	// APIURL overrides the API base URL, e.g. for stripe-mock.
	APIURL string
}

type Client struct {
	api      *client.API
	products *cache.LRUCache[core.Product]
	logger   *log.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStripe)

	// GetBackendWithConfig fills in the URL, so each backend needs its own config.
	backendConfig := func(url string) *stripego.BackendConfig {
		bc := &stripego.BackendConfig{
			MaxNetworkRetries: stripego.Int64(int64(cfg.MaxNetworkRetries)),
			LeveledLogger:     &leveledLogger{logger: logger},
		}
		if url != "" {
			bc.URL = stripego.String(url)
		}
		return bc
	}
	backends := &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, backendConfig(cfg.APIURL)),
		Connect: stripego.GetBackendWithConfig(stripego.ConnectBackend, backendConfig("")),
		Uploads: stripego.GetBackendWithConfig(stripego.UploadsBackend, backendConfig("")),
	}

	size, ttl := cfg.ProductCacheSize, cfg.ProductCacheTTL
	if size <= 0 {
		size = 500
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Client{
		api:      client.New(cfg.SecretKey, backends),
		products: cache.NewLRUCache[core.Product](size, ttl),
		logger:   logger,
	}, nil
}

// Payouts lists payouts with created in [from, to).
func (c *Client) Payouts(ctx context.Context, from, to time.Time) iter.Seq2[core.Payout, error] {
	return func(yield func(core.Payout, error) bool) {
		params := &stripego.PayoutListParams{
			CreatedRange: &stripego.RangeQueryParams{
				GreaterThanOrEqual: from.Unix(),
				LesserThan:         to.Unix(),
			},
		}
		params.Context = ctx
		params.Limit = stripego.Int64(pageSize)

		c.logger.DebugContext(ctx, "listing payouts", "from", from, "to", to)
		it := c.api.Payouts.List(params)
		drain(it, it.Payout, toPayout, yield)
	}
}

func (c *Client) Transactions(ctx context.Context, payoutID string) iter.Seq2[core.BalanceTransaction, error] {
	return func(yield func(core.BalanceTransaction, error) bool) {
		params := &stripego.BalanceTransactionListParams{Payout: stripego.String(payoutID)}
		params.Context = ctx
		params.Limit = stripego.Int64(pageSize)

		it := c.api.BalanceTransactions.List(params)
		drain(it, it.BalanceTransaction, toBalanceTransaction, yield)
	}
}

func (c *Client) Refund(ctx context.Context, id string) (core.Refund, error) {
	params := &stripego.RefundParams{}
	params.Context = ctx
	r, err := c.api.Refunds.Get(id, params)
	if err != nil {
		return core.Refund{}, fmt.Errorf("get refund %s: %w", id, err)
	}
	return toRefund(r), nil
}

func (c *Client) Charge(ctx context.Context, id string) (core.Charge, error) {
	params := &stripego.ChargeParams{}
	params.Context = ctx
	ch, err := c.api.Charges.Get(id, params)
	if err != nil {
		return core.Charge{}, fmt.Errorf("get charge %s: %w", id, err)
	}
	return toCharge(ch), nil
}

func (c *Client) PaymentIntent(ctx context.Context, id string) (core.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return core.PaymentIntent{}, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return toPaymentIntent(pi), nil
}

// Invoice returns the invoice with all of its lines; the embedded first page
// is topped up from the lines endpoint when Stripe reports more.
func (c *Client) Invoice(ctx context.Context, id string) (core.Invoice, error) {
	params := &stripego.InvoiceParams{}
	params.Context = ctx
	inv, err := c.api.Invoices.Get(id, params)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice %s: %w", id, err)
	}

	out := toInvoice(inv)
	if inv.Lines == nil || !inv.Lines.HasMore {
		return out, nil
	}

	lp := &stripego.InvoiceListLinesParams{Invoice: stripego.String(id)}
	lp.Context = ctx
	lp.Limit = stripego.Int64(pageSize)
	out.Lines = out.Lines[:0]
	it := c.api.Invoices.ListLines(lp)
	for it.Next() {
		out.Lines = append(out.Lines, toInvoiceLine(it.InvoiceLineItem()))
	}
	if err := it.Err(); err != nil {
		return core.Invoice{}, fmt.Errorf("list invoice %s lines: %w", id, err)
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id string) (core.Product, error) {
	if p, ok := c.products.Get(id); ok {
		return p, nil
	}
	params := &stripego.ProductParams{}
	params.Context = ctx
	p, err := c.api.Products.Get(id, params)
	if err != nil {
		return core.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	out := core.Product{ID: p.ID, Name: p.Name}
	c.products.Set(id, out)
	return out, nil
}

func (c *Client) CheckoutSessions(ctx context.Context, paymentIntentID string) ([]core.CheckoutSession, error) {
	params := &stripego.CheckoutSessionListParams{PaymentIntent: stripego.String(paymentIntentID)}
	params.Context = ctx
	params.Limit = stripego.Int64(pageSize)

	var out []core.CheckoutSession
	it := c.api.CheckoutSessions.List(params)
	for it.Next() {
		out = append(out, toCheckoutSession(it.CheckoutSession()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list checkout sessions for %s: %w", paymentIntentID, err)
	}
	return out, nil
}

func (c *Client) CheckoutSessionLineItems(ctx context.Context, sessionID string) ([]core.LineItem, error) {
	params := &stripego.CheckoutSessionListLineItemsParams{Session: stripego.String(sessionID)}
	params.Context = ctx
	params.Limit = stripego.Int64(pageSize)

	var out []core.LineItem
	it := c.api.CheckoutSessions.ListLineItems(params)
	for it.Next() {
		out = append(out, toLineItem(it.LineItem()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list line items for session %s: %w", sessionID, err)
	}
	return out, nil
}

// CacheStats exposes product cache effectiveness for the end-of-run log.
func (c *Client) CacheStats() cache.Stats {
	return c.products.Stats()
}

type pager interface {
	Next() bool
	Err() error
}

// drain walks a Stripe list iterator, converting each item and stopping
// early when the consumer does.
func drain[S any, T any](it pager, current func() S, conv func(S) T, yield func(T, error) bool) {
	for it.Next() {
		if !yield(conv(current()), nil) {
			return
		}
	}
	if err := it.Err(); err != nil {
		var zero T
		yield(zero, err)
	}
}
