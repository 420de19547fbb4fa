package fixtures

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Products with less stock than this are counted as low-stock in the
// dashboard summary.
const lowStockThreshold = 5

// DataSet is an immutable snapshot of all fixture records with id-indexed
// lookups. Accessors return copies, so a handler can never mutate the shared
// fixture state through a returned record.
type DataSet struct {
	products   []Product
	categories []Category
	customers  []Customer
	orders     []Order

	productsByID   map[string]Product
	categoriesByID map[string]Category
	customersByID  map[string]Customer
	ordersByID     map[string]Order
}

// NewDataSet builds a DataSet from raw record slices, preserving their order
// for listings. Records with duplicate ids keep the last occurrence in the
// index, matching last-wins registration elsewhere in this module.
func NewDataSet(
	products []Product,
	categories []Category,
	customers []Customer,
	orders []Order,
) DataSet {
	d := DataSet{
		products:       slices.Clone(products),
		categories:     slices.Clone(categories),
		customers:      slices.Clone(customers),
		orders:         cloneOrders(orders),
		productsByID:   make(map[string]Product, len(products)),
		categoriesByID: make(map[string]Category, len(categories)),
		customersByID:  make(map[string]Customer, len(customers)),
		ordersByID:     make(map[string]Order, len(orders)),
	}
	for _, p := range d.products {
		d.productsByID[p.ID] = p
	}
	for _, c := range d.categories {
		d.categoriesByID[c.ID] = c
	}
	for _, c := range d.customers {
		d.customersByID[c.ID] = c
	}
	for _, o := range d.orders {
		d.ordersByID[o.ID] = o
	}
	return d
}

func cloneOrders(orders []Order) []Order {
	out := slices.Clone(orders)
	for i := range out {
		out[i].Lines = slices.Clone(out[i].Lines)
	}
	return out
}

// Products returns all products in fixture-file order.
func (d DataSet) Products() []Product { return slices.Clone(d.products) }

// Categories returns all categories in fixture-file order.
func (d DataSet) Categories() []Category { return slices.Clone(d.categories) }

// Customers returns all customers in fixture-file order.
func (d DataSet) Customers() []Customer { return slices.Clone(d.customers) }

// Orders returns all orders in fixture-file order.
func (d DataSet) Orders() []Order { return cloneOrders(d.orders) }

func (d DataSet) ProductByID(id string) (Product, bool) {
	p, ok := d.productsByID[id]
	return p, ok
}

func (d DataSet) CategoryByID(id string) (Category, bool) {
	c, ok := d.categoriesByID[id]
	return c, ok
}

func (d DataSet) CustomerByID(id string) (Customer, bool) {
	c, ok := d.customersByID[id]
	return c, ok
}

func (d DataSet) OrderByID(id string) (Order, bool) {
	o, ok := d.ordersByID[id]
	if ok {
		o.Lines = slices.Clone(o.Lines)
	}
	return o, ok
}

// FilterOrders returns the orders matching the given status and customer id.
// An empty filter value matches everything.
func (d DataSet) FilterOrders(status OrderStatus, customerID string) []Order {
	var out []Order
	for _, o := range d.orders {
		if status != "" && o.Status != status {
			continue
		}
		if customerID != "" && o.CustomerID != customerID {
			continue
		}
		o.Lines = slices.Clone(o.Lines)
		out = append(out, o)
	}
	return out
}

// WithProduct returns a new DataSet with the product appended. A product with
// the same id replaces the indexed entry (last registration wins).
func (d DataSet) WithProduct(p Product) DataSet {
	return NewDataSet(append(slices.Clone(d.products), p), d.categories, d.customers, d.orders)
}

// WithOrder returns a new DataSet with the order appended.
func (d DataSet) WithOrder(o Order) DataSet {
	return NewDataSet(d.products, d.categories, d.customers, append(cloneOrders(d.orders), o))
}

// DashboardSummary is the aggregate view behind the back-office dashboard
// page.
type DashboardSummary struct {
	ProductCount   int                 `json:"productCount"`
	CategoryCount  int                 `json:"categoryCount"`
	CustomerCount  int                 `json:"customerCount"`
	OrderCount     int                 `json:"orderCount"`
	OrdersByStatus map[OrderStatus]int `json:"ordersByStatus"`
	Revenue        decimal.Decimal     `json:"revenue"`
	LowStockCount  int                 `json:"lowStockCount"`
}

// Summarize computes the dashboard aggregates over the snapshot. Cancelled
// orders are excluded from revenue but still counted by status.
func (d DataSet) Summarize() DashboardSummary {
	s := DashboardSummary{
		ProductCount:   len(d.products),
		CategoryCount:  len(d.categories),
		CustomerCount:  len(d.customers),
		OrderCount:     len(d.orders),
		OrdersByStatus: make(map[OrderStatus]int),
		Revenue:        decimal.Zero,
	}
	for _, o := range d.orders {
		s.OrdersByStatus[o.Status]++
		if o.Status != OrderCancelled {
			s.Revenue = s.Revenue.Add(o.Total)
		}
	}
	for _, p := range d.products {
		if p.Stock < lowStockThreshold {
			s.LowStockCount++
		}
	}
	return s
}
