package api

import "time"

// QueryResponse represents the standard query response format
type QueryResponse struct {
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SubmitTransferRequest is the body of POST /api/v1/transfers.
type SubmitTransferRequest struct {
	AccountID string `json:"account_id"`
	Target    string `json:"target"`
	Amount    string `json:"amount"`
	Memo      string `json:"memo"`
	Shielded  bool   `json:"shielded"`
	UseFaucet bool   `json:"use_faucet"`
	Channel   string `json:"channel,omitempty"`
}
