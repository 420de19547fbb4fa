package mockapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// OrdersService serves the order endpoints. Listing supports ?status= and
// ?customerId= filters.
type OrdersService struct {
	data    fixtures.DataSet
	handler http.Handler
	logger  framework.Logger
	lock    sync.RWMutex
}

func NewOrdersService(data fixtures.DataSet, options ...ServiceOption) *OrdersService {
	cfg := newServiceConfig(options...)
	cfg.logger = framework.LoggerWithPrefix(cfg.logger, "orders: ")
	s := &OrdersService{data: data, logger: cfg.logger}

	router := mux.NewRouter()
	router.HandleFunc("/", s.serveList).Methods("GET")
	router.HandleFunc("/", s.serveCreate).Methods("POST")
	router.HandleFunc("/{id}", s.serveGet).Methods("GET")
	s.handler = cfg.middleware(router)

	return s
}

func (s *OrdersService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the fixture snapshot the service answers from.
func (s *OrdersService) SetData(data fixtures.DataSet) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *OrdersService) snapshot() fixtures.DataSet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

func (s *OrdersService) serveList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := fixtures.OrderStatus(query.Get("status"))
	customerID := query.Get("customerId")

	orders := s.snapshot().FilterOrders(status, customerID)
	if orders == nil {
		orders = []fixtures.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *OrdersService) serveGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	order, ok := s.snapshot().OrderByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no order with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *OrdersService) serveCreate(w http.ResponseWriter, r *http.Request) {
	var order fixtures.Order
	if err := decodeBody(r, &order); err != nil {
		writeError(w, http.StatusBadRequest, "invalid order payload: "+err.Error())
		return
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = fixtures.OrderPending
	}
	if order.Total.IsZero() {
		order.Total = order.ComputeTotal()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	s.lock.Lock()
	s.data = s.data.WithOrder(order)
	s.lock.Unlock()

	s.logger.Printf("Created order %s for customer %s", order.ID, order.CustomerID)
	writeJSON(w, http.StatusCreated, order)
}
