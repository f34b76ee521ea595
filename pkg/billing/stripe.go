package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

// Subscription plan constants. The product and price are created lazily on
// first checkout and reused afterwards.
const (
	proPlanName        = "Centra Pro Plan"
	proPlanAmountCents = 4900
	proPlanCurrency    = string(stripe.CurrencyUSD)
)

// stripeBackend is the slice of the Stripe API the provider uses. Kept
// narrow so tests can substitute a fake.
type stripeBackend interface {
	ListProducts(ctx context.Context, params *stripe.ProductListParams) ([]*stripe.Product, error)
	CreateProduct(ctx context.Context, params *stripe.ProductParams) (*stripe.Product, error)
	ListPrices(ctx context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error)
	CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// stripeProvider implements Provider against the Stripe API.
type stripeProvider struct {
	backend stripeBackend
	logger  *zap.Logger
}

// NewStripeProvider creates a provider using the given secret key.
func NewStripeProvider(secretKey string, logger *zap.Logger) Provider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return newStripeProvider(&liveBackend{api: api}, logger)
}

func newStripeProvider(backend stripeBackend, logger *zap.Logger) *stripeProvider {
	return &stripeProvider{
		backend: backend,
		logger:  logger.Named("billing"),
	}
}

// CreateEmbeddedCheckout ensures the pro plan price exists and opens an
// embedded subscription checkout session for it.
func (p *stripeProvider) CreateEmbeddedCheckout(ctx context.Context, origin string) (*CheckoutSession, error) {
	priceID, err := p.ensureProPrice(ctx)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		UIMode: stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:   stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ReturnURL: stripe.String(origin + "/billing?success=true&session_id={CHECKOUT_SESSION_ID}"),
	}

	session, err := p.backend.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p.logger.Info("Created embedded checkout session", zap.String("session_id", session.ID))

	return &CheckoutSession{ClientSecret: session.ClientSecret}, nil
}

// ensureProPrice returns the recurring price ID for the pro plan, creating
// the product and price when absent. Lookup runs on every call, by product
// name and price shape, so neither restarts nor concurrent replicas mint
// duplicates from stale local state.
func (p *stripeProvider) ensureProPrice(ctx context.Context) (string, error) {
	product, err := p.findProduct(ctx)
	if err != nil {
		return "", err
	}
	if product == nil {
		product, err = p.backend.CreateProduct(ctx, &stripe.ProductParams{
			Name: stripe.String(proPlanName),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create plan product: %w", err)
		}
		p.logger.Info("Created plan product", zap.String("product_id", product.ID))
	}

	price, err := p.findPrice(ctx, product.ID)
	if err != nil {
		return "", err
	}
	if price == nil {
		price, err = p.backend.CreatePrice(ctx, &stripe.PriceParams{
			Product:    stripe.String(product.ID),
			UnitAmount: stripe.Int64(proPlanAmountCents),
			Currency:   stripe.String(proPlanCurrency),
			Recurring: &stripe.PriceRecurringParams{
				Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to create plan price: %w", err)
		}
		p.logger.Info("Created plan price", zap.String("price_id", price.ID))
	}

	return price.ID, nil
}

func (p *stripeProvider) findProduct(ctx context.Context) (*stripe.Product, error) {
	products, err := p.backend.ListProducts(ctx, &stripe.ProductListParams{
		Active: stripe.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for _, product := range products {
		if product.Name == proPlanName {
			return product, nil
		}
	}
	return nil, nil
}

func (p *stripeProvider) findPrice(ctx context.Context, productID string) (*stripe.Price, error) {
	prices, err := p.backend.ListPrices(ctx, &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	for _, price := range prices {
		if price.UnitAmount == proPlanAmountCents &&
			price.Currency == stripe.Currency(proPlanCurrency) &&
			price.Recurring != nil &&
			price.Recurring.Interval == stripe.PriceRecurringIntervalMonth {
			return price, nil
		}
	}
	return nil, nil
}

// liveBackend adapts the Stripe SDK client to the stripeBackend interface.
type liveBackend struct {
	api *client.API
}

func (b *liveBackend) ListProducts(ctx context.Context, params *stripe.ProductListParams) ([]*stripe.Product, error) {
	params.Context = ctx
	var products []*stripe.Product
	iter := b.api.Products.List(params)
	for iter.Next() {
		products = append(products, iter.Product())
	}
	return products, iter.Err()
}

func (b *liveBackend) CreateProduct(ctx context.Context, params *stripe.ProductParams) (*stripe.Product, error) {
	params.Context = ctx
	return b.api.Products.New(params)
}

func (b *liveBackend) ListPrices(ctx context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error) {
	params.Context = ctx
	var prices []*stripe.Price
	iter := b.api.Prices.List(params)
	for iter.Next() {
		prices = append(prices, iter.Price())
	}
	return prices, iter.Err()
}

func (b *liveBackend) CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	params.Context = ctx
	return b.api.Prices.New(params)
}

func (b *liveBackend) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return b.api.CheckoutSessions.New(params)
}

var _ Provider = (*stripeProvider)(nil)
var _ stripeBackend = (*liveBackend)(nil)
