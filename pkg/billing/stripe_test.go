package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// fakeBackend simulates the processor's product and price catalog in memory.
type fakeBackend struct {
	products []*stripe.Product
	prices   []*stripe.Price

	productsCreated int
	pricesCreated   int
	sessionsCreated int
	lastSession     *stripe.CheckoutSessionParams

	sessionErr error
}

func (f *fakeBackend) ListProducts(_ context.Context, _ *stripe.ProductListParams) ([]*stripe.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, params *stripe.ProductParams) (*stripe.Product, error) {
	f.productsCreated++
	product := &stripe.Product{
		ID:   fmt.Sprintf("prod_%d", f.productsCreated),
		Name: stripe.StringValue(params.Name),
	}
	f.products = append(f.products, product)
	return product, nil
}

func (f *fakeBackend) ListPrices(_ context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error) {
	var matched []*stripe.Price
	for _, price := range f.prices {
		if price.Product != nil && price.Product.ID == stripe.StringValue(params.Product) {
			matched = append(matched, price)
		}
	}
	return matched, nil
}

func (f *fakeBackend) CreatePrice(_ context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	f.pricesCreated++
	price := &stripe.Price{
		ID:         fmt.Sprintf("price_%d", f.pricesCreated),
		Product:    &stripe.Product{ID: stripe.StringValue(params.Product)},
		UnitAmount: stripe.Int64Value(params.UnitAmount),
		Currency:   stripe.Currency(stripe.StringValue(params.Currency)),
		Recurring: &stripe.PriceRecurring{
			Interval: stripe.PriceRecurringInterval(stripe.StringValue(params.Recurring.Interval)),
		},
	}
	f.prices = append(f.prices, price)
	return price, nil
}

func (f *fakeBackend) CreateCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	f.sessionsCreated++
	f.lastSession = params
	return &stripe.CheckoutSession{
		ID:           fmt.Sprintf("cs_%d", f.sessionsCreated),
		ClientSecret: fmt.Sprintf("cs_%d_secret", f.sessionsCreated),
	}, nil
}

func TestStripeProvider_CreatesPlanOnFirstCheckout(t *testing.T) {
	backend := &fakeBackend{}
	provider := newStripeProvider(backend, zap.NewNop())

	session, err := provider.CreateEmbeddedCheckout(context.Background(), "https://console.example.com")
	require.NoError(t, err)

	assert.Equal(t, "cs_1_secret", session.ClientSecret)
	assert.Equal(t, 1, backend.productsCreated)
	assert.Equal(t, 1, backend.pricesCreated)
}

func TestStripeProvider_ReusesExistingPlan(t *testing.T) {
	product := &stripe.Product{ID: "prod_existing", Name: proPlanName}
	backend := &fakeBackend{
		products: []*stripe.Product{
			{ID: "prod_other", Name: "Some Other Product"},
			product,
		},
		prices: []*stripe.Price{
			{
				ID:         "price_existing",
				Product:    product,
				UnitAmount: proPlanAmountCents,
				Currency:   stripe.CurrencyUSD,
				Recurring:  &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth},
			},
		},
	}
	provider := newStripeProvider(backend, zap.NewNop())

	_, err := provider.CreateEmbeddedCheckout(context.Background(), "https://console.example.com")
	require.NoError(t, err)

	assert.Zero(t, backend.productsCreated, "existing product must be reused")
	assert.Zero(t, backend.pricesCreated, "existing price must be reused")
	require.Len(t, backend.lastSession.LineItems, 1)
	assert.Equal(t, "price_existing", stripe.StringValue(backend.lastSession.LineItems[0].Price))
}

func TestStripeProvider_RepeatCheckoutsDoNotDuplicatePlan(t *testing.T) {
	backend := &fakeBackend{}
	provider := newStripeProvider(backend, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := provider.CreateEmbeddedCheckout(context.Background(), "https://console.example.com")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, backend.productsCreated)
	assert.Equal(t, 1, backend.pricesCreated)
	assert.Equal(t, 3, backend.sessionsCreated)
}

func TestStripeProvider_SessionShape(t *testing.T) {
	backend := &fakeBackend{}
	provider := newStripeProvider(backend, zap.NewNop())

	_, err := provider.CreateEmbeddedCheckout(context.Background(), "https://console.example.com")
	require.NoError(t, err)

	params := backend.lastSession
	assert.Equal(t, string(stripe.CheckoutSessionUIModeEmbedded), stripe.StringValue(params.UIMode))
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), stripe.StringValue(params.Mode))
	assert.Equal(t,
		"https://console.example.com/billing?success=true&session_id={CHECKOUT_SESSION_ID}",
		stripe.StringValue(params.ReturnURL))
}

func TestStripeProvider_SessionErrorPropagates(t *testing.T) {
	backend := &fakeBackend{sessionErr: errors.New("rate limited")}
	provider := newStripeProvider(backend, zap.NewNop())

	_, err := provider.CreateEmbeddedCheckout(context.Background(), "https://console.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
