package mockapi

import (
	"net/http"
	"sync"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"

	"github.com/gorilla/mux"
)

// CustomersService serves the read-only customer endpoints.
type CustomersService struct {
	data    fixtures.DataSet
	handler http.Handler
	logger  framework.Logger
	lock    sync.RWMutex
}

func NewCustomersService(data fixtures.DataSet, options ...ServiceOption) *CustomersService {
	cfg := newServiceConfig(options...)
	cfg.logger = framework.LoggerWithPrefix(cfg.logger, "customers: ")
	s := &CustomersService{data: data, logger: cfg.logger}

	router := mux.NewRouter()
	router.HandleFunc("/", s.serveList).Methods("GET")
	router.HandleFunc("/{id}", s.serveGet).Methods("GET")
	s.handler = cfg.middleware(router)

	return s
}

func (s *CustomersService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the fixture snapshot the service answers from.
func (s *CustomersService) SetData(data fixtures.DataSet) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *CustomersService) snapshot() fixtures.DataSet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

func (s *CustomersService) serveList(w http.ResponseWriter, r *http.Request) {
	customers := s.snapshot().Customers()
	if customers == nil {
		customers = []fixtures.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *CustomersService) serveGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	customer, ok := s.snapshot().CustomerByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no customer with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}
