package mockapi

import (
	"net/http"
	"sync"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"

	"github.com/gorilla/mux"
)

// CategoriesService serves the read-only category endpoints.
type CategoriesService struct {
	data    fixtures.DataSet
	handler http.Handler
	logger  framework.Logger
	lock    sync.RWMutex
}

func NewCategoriesService(data fixtures.DataSet, options ...ServiceOption) *CategoriesService {
	cfg := newServiceConfig(options...)
	cfg.logger = framework.LoggerWithPrefix(cfg.logger, "categories: ")
	s := &CategoriesService{data: data, logger: cfg.logger}

	router := mux.NewRouter()
	router.HandleFunc("/", s.serveList).Methods("GET")
	router.HandleFunc("/{id}", s.serveGet).Methods("GET")
	s.handler = cfg.middleware(router)

	return s
}

func (s *CategoriesService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the fixture snapshot the service answers from.
func (s *CategoriesService) SetData(data fixtures.DataSet) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *CategoriesService) snapshot() fixtures.DataSet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

func (s *CategoriesService) serveList(w http.ResponseWriter, r *http.Request) {
	categories := s.snapshot().Categories()
	if categories == nil {
		categories = []fixtures.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *CategoriesService) serveGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	category, ok := s.snapshot().CategoryByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no category with id "+id)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
