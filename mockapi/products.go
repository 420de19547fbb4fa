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

// ProductsService serves the product catalog endpoints. Paths are relative to
// wherever the service is mounted (normally /products).
type ProductsService struct {
	data    fixtures.DataSet
	handler http.Handler
	logger  framework.Logger
	lock    sync.RWMutex
}

func NewProductsService(data fixtures.DataSet, options ...ServiceOption) *ProductsService {
	cfg := newServiceConfig(options...)
	cfg.logger = framework.LoggerWithPrefix(cfg.logger, "products: ")
	s := &ProductsService{data: data, logger: cfg.logger}

	router := mux.NewRouter()
	router.HandleFunc("/", s.serveList).Methods("GET")
	router.HandleFunc("/", s.serveCreate).Methods("POST")
	router.HandleFunc("/{id}", s.serveGet).Methods("GET")
	s.handler = cfg.middleware(router)

	return s
}

func (s *ProductsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the fixture snapshot the service answers from.
func (s *ProductsService) SetData(data fixtures.DataSet) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *ProductsService) snapshot() fixtures.DataSet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

func (s *ProductsService) serveList(w http.ResponseWriter, r *http.Request) {
	products := s.snapshot().Products()
	if products == nil {
		products = []fixtures.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *ProductsService) serveGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, ok := s.snapshot().ProductByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no product with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *ProductsService) serveCreate(w http.ResponseWriter, r *http.Request) {
	var product fixtures.Product
	if err := decodeBody(r, &product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product payload: "+err.Error())
		return
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	s.lock.Lock()
	s.data = s.data.WithProduct(product)
	s.lock.Unlock()

	s.logger.Printf("Created product %s (%s)", product.ID, product.Name)
	writeJSON(w, http.StatusCreated, product)
}
