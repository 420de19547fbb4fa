package mockapi

import (
	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/interceptor"
)

// MountAll mounts the standard back-office services on the interception
// server, all answering from the same fixture snapshot. This is the base
// handler set that ResetHandlers restores.
func MountAll(server *interceptor.Server, data fixtures.DataSet, options ...ServiceOption) {
	server.Mount("/products", NewProductsService(data, options...))
	server.Mount("/categories", NewCategoriesService(data, options...))
	server.Mount("/customers", NewCustomersService(data, options...))
	server.Mount("/orders", NewOrdersService(data, options...))
	server.Mount("/dashboard", NewDashboardService(data, options...))
}
