package client

import (
	"context"
	"net/url"

	"github.com/storeops/backoffice-mock/fixtures"
)

func (c *Client) ListProducts(ctx context.Context) ([]fixtures.Product, error) {
	var products []fixtures.Product
	err := c.get(ctx, "/products", nil, &products)
	return products, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (fixtures.Product, error) {
	var product fixtures.Product
	err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &product)
	return product, err
}

func (c *Client) CreateProduct(ctx context.Context, product fixtures.Product) (fixtures.Product, error) {
	var created fixtures.Product
	err := c.post(ctx, "/products", product, &created)
	return created, err
}

func (c *Client) ListCategories(ctx context.Context) ([]fixtures.Category, error) {
	var categories []fixtures.Category
	err := c.get(ctx, "/categories", nil, &categories)
	return categories, err
}

func (c *Client) ListCustomers(ctx context.Context) ([]fixtures.Customer, error) {
	var customers []fixtures.Customer
	err := c.get(ctx, "/customers", nil, &customers)
	return customers, err
}

func (c *Client) GetCustomer(ctx context.Context, id string) (fixtures.Customer, error) {
	var customer fixtures.Customer
	err := c.get(ctx, "/customers/"+url.PathEscape(id), nil, &customer)
	return customer, err
}

// OrderFilter restricts ListOrders. Zero values match everything.
type OrderFilter struct {
	Status     fixtures.OrderStatus
	CustomerID string
}

func (c *Client) ListOrders(ctx context.Context, filter OrderFilter) ([]fixtures.Order, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.CustomerID != "" {
		query.Set("customerId", filter.CustomerID)
	}
	var orders []fixtures.Order
	err := c.get(ctx, "/orders", query, &orders)
	return orders, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (fixtures.Order, error) {
	var order fixtures.Order
	err := c.get(ctx, "/orders/"+url.PathEscape(id), nil, &order)
	return order, err
}

func (c *Client) CreateOrder(ctx context.Context, order fixtures.Order) (fixtures.Order, error) {
	var created fixtures.Order
	err := c.post(ctx, "/orders", order, &created)
	return created, err
}

func (c *Client) DashboardSummary(ctx context.Context) (fixtures.DashboardSummary, error) {
	var summary fixtures.DashboardSummary
	err := c.get(ctx, "/dashboard/summary", nil, &summary)
	return summary, err
}
