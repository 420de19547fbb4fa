package client

import (
	"context"
	"testing"
	"time"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/interceptor"
	"github.com/storeops/backoffice-mock/mockapi"
	"github.com/storeops/backoffice-mock/overrides"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T) (*Client, *interceptor.Server) {
	server := interceptor.NewServer()
	mockapi.MountAll(server, fixtures.Default())
	server.Listen()
	t.Cleanup(server.Close)
	return New(mockedBaseURL, WithHTTPClient(server.Client())), server
}

func TestListProducts(t *testing.T) {
	c, _ := newMockedClient(t)

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 8)
	assert.Equal(t, "Wireless Headphones", products[0].Name)
}

func TestGetProduct(t *testing.T) {
	c, _ := newMockedClient(t)

	product, err := c.GetProduct(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "Smart Watch", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("249.00")))
}

func TestGetProductNotFoundIsAPIError(t *testing.T) {
	c, _ := newMockedClient(t)

	_, err := c.GetProduct(context.Background(), "999")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "999")
}

func TestListOrdersWithFilter(t *testing.T) {
	c, _ := newMockedClient(t)

	orders, err := c.ListOrders(context.Background(), OrderFilter{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = c.ListOrders(context.Background(), OrderFilter{Status: fixtures.OrderShipped})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-3", orders[0].ID)
}

func TestCreateOrder(t *testing.T) {
	c, _ := newMockedClient(t)

	created, err := c.CreateOrder(context.Background(), fixtures.Order{
		CustomerID: "cust-2",
		Lines: []fixtures.OrderLine{
			{ProductID: "7", Quantity: 2, UnitPrice: decimal.RequireFromString("24.99")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixtures.OrderPending, created.Status)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("49.98")))
}

func TestDashboardSummary(t *testing.T) {
	c, _ := newMockedClient(t)

	summary, err := c.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, summary.ProductCount)
	assert.Equal(t, 5, summary.CustomerCount)
}

func TestErrorOverrideSurfacesAsErrorState(t *testing.T) {
	c, server := newMockedClient(t)
	scope := overrides.NewScope(t, server)

	scope.MockError("GET", "/products/999", 404)

	_, err := c.GetProduct(context.Background(), "999")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message) // error overrides have an empty body

	// an unrelated endpoint in the same test still works
	product, err := c.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", product.Name)
}

func TestDelayedOverrideThroughClient(t *testing.T) {
	c, server := newMockedClient(t)
	scope := overrides.NewScope(t, server)

	const delay = 60 * time.Millisecond
	scope.MockDelayed("GET", "/categories", delay, []fixtures.Category{{ID: "x", Name: "X", Slug: "x"}})

	start := time.Now()
	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
	require.Len(t, categories, 1)
	assert.Equal(t, "x", categories[0].ID)
}

func TestNewFromEnvWithMockingEnabled(t *testing.T) {
	t.Setenv(MockAPIEnvVar, "1")

	c := NewFromEnv("")
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 8)
}

func TestMockEnabledParsing(t *testing.T) {
	for value, expected := range map[string]bool{
		"1": true, "true": true, "TRUE": true,
		"": false, "0": false, "no": false,
	} {
		t.Setenv(MockAPIEnvVar, value)
		assert.Equal(t, expected, mockEnabled(), "value %q", value)
	}
}
