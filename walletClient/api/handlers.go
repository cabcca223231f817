package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/anoma/transferd/walletClient/accounts"
	"github.com/anoma/transferd/walletClient/errors"
)

const (
	defaultSubmissionsLimit = 20
	maxSubmissionsLimit     = 500
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleTransferHistory handles GET /api/v1/transfers
func (s *Server) handleTransferHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, QueryResponse{
		Data:      s.client.GetTransferHistory(),
		Timestamp: time.Now(),
	})
}

// handleSubmissionState handles GET /api/v1/submission
func (s *Server) handleSubmissionState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, QueryResponse{
		Data:      s.client.GetSubmissionState(),
		Timestamp: time.Now(),
	})
}

// handleClearSubmission handles POST /api/v1/submission/clear
func (s *Server) handleClearSubmission(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, QueryResponse{
		Data:      s.client.ClearSubmission(),
		Timestamp: time.Now(),
	})
}

// handleSubmitTransfer handles POST /api/v1/transfers. It blocks until the
// submission resolves and answers with the resulting submission state.
func (s *Server) handleSubmitTransfer(w http.ResponseWriter, r *http.Request) {
	var req SubmitTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.AccountID == "" || req.Target == "" || req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "account_id, target and amount are required"})
		return
	}
	if _, err := math.LegacyNewDecFromStr(req.Amount); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid amount " + req.Amount})
		return
	}

	state, err := s.client.SubmitTransfer(r.Context(), req)
	if err != nil {
		s.logger.Debug().Err(err).Str("account_id", req.AccountID).Msg("transfer submission failed")
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Data: state, Timestamp: time.Now()})
}

// handleBalance handles GET /api/v1/balances/{account_id}?refresh=true
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	balance, err := s.client.GetBalance(r.Context(), accountID, refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if balance == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no balance known for account " + accountID})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Data: balance, Timestamp: balance.UpdatedAt})
}

// handleRecentSubmissions handles GET /api/v1/submissions?limit=<n>
func (s *Server) handleRecentSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := defaultSubmissionsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSubmissionsLimit {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	records, err := s.client.GetRecentSubmissions(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Data: records, Timestamp: time.Now()})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrAccountNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	code := errors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case errors.ErrCodeTransport, errors.ErrCodeProtocol:
		status = http.StatusBadGateway
	case errors.ErrCodeBuilder, errors.ErrCodeValidation:
		status = http.StatusBadRequest
	case errors.ErrCodeConfig, errors.ErrCodeDatabase:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
