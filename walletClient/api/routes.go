package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API server.
// Routes hang off the root router so a wrong method answers 405.
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/transfers", s.handleTransferHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/transfers", s.handleSubmitTransfer).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/submission", s.handleSubmissionState).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/submission/clear", s.handleClearSubmission).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/submissions", s.handleRecentSubmissions).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/balances/{account_id}", s.handleBalance).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	return r
}
