package mockapi

import (
	"net/http"
	"sync"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"

	"github.com/gorilla/mux"
)

// DashboardService serves the aggregated summary behind the dashboard page.
// It answers from its own fixture snapshot, independent of the other
// services; orders created through the orders endpoint do not show up here
// unless SetData is called with a new snapshot.
type DashboardService struct {
	data    fixtures.DataSet
	handler http.Handler
	logger  framework.Logger
	lock    sync.RWMutex
}

func NewDashboardService(data fixtures.DataSet, options ...ServiceOption) *DashboardService {
	cfg := newServiceConfig(options...)
	cfg.logger = framework.LoggerWithPrefix(cfg.logger, "dashboard: ")
	s := &DashboardService{data: data, logger: cfg.logger}

	router := mux.NewRouter()
	router.HandleFunc("/summary", s.serveSummary).Methods("GET")
	s.handler = cfg.middleware(router)

	return s
}

func (s *DashboardService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the fixture snapshot the summary is computed from.
func (s *DashboardService) SetData(data fixtures.DataSet) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *DashboardService) serveSummary(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	summary := s.data.Summarize()
	s.lock.RUnlock()
	writeJSON(w, http.StatusOK, summary)
}
