package mockapi

import (
	"encoding/json"
	"testing"

	"github.com/storeops/backoffice-mock/fixtures"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersList(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	rr := doRequest(s, "GET", "/", "")
	assert.Equal(t, 200, rr.Code)
	var orders []fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
	assert.Len(t, orders, 6)
}

func TestOrdersListFilters(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	rr := doRequest(s, "GET", "/?status=pending", "")
	var pending []fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	assert.Len(t, pending, 2)

	rr = doRequest(s, "GET", "/?customerId=cust-1", "")
	var byCustomer []fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &byCustomer))
	assert.Len(t, byCustomer, 2)

	rr = doRequest(s, "GET", "/?status=pending&customerId=cust-5", "")
	var both []fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &both))
	require.Len(t, both, 1)
	assert.Equal(t, "ord-6", both[0].ID)

	rr = doRequest(s, "GET", "/?status=refunded", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestOrdersGet(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	rr := doRequest(s, "GET", "/ord-2", "")
	assert.Equal(t, 200, rr.Code)
	var order fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
	assert.Equal(t, "cust-2", order.CustomerID)
	assert.Len(t, order.Lines, 2)

	rr = doRequest(s, "GET", "/no-such-order", "")
	assert.Equal(t, 404, rr.Code)
}

func TestOrdersCreateFillsDefaults(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	body := `{"customerId": "cust-3", "lines": [
		{"productId": "5", "quantity": 2, "unitPrice": "12.50"}
	]}`
	rr := doRequest(s, "POST", "/", body)
	require.Equal(t, 201, rr.Code)

	var created fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixtures.OrderPending, created.Status)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("25.00")),
		"unexpected total %s", created.Total)
	assert.False(t, created.CreatedAt.IsZero())

	got := doRequest(s, "GET", "/"+created.ID, "")
	assert.Equal(t, 200, got.Code)
}

func TestOrdersCreateKeepsExplicitValues(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	body := `{"id": "ord-custom", "customerId": "cust-1", "status": "paid", "total": "99.00"}`
	rr := doRequest(s, "POST", "/", body)
	require.Equal(t, 201, rr.Code)

	var created fixtures.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "ord-custom", created.ID)
	assert.Equal(t, fixtures.OrderPaid, created.Status)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("99.00")))
}

func TestOrdersCreateInvalidPayload(t *testing.T) {
	s := NewOrdersService(fixtures.Default())

	rr := doRequest(s, "POST", "/", `[}`)
	assert.Equal(t, 400, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid order payload")
}
