package api

import (
	"context"

	"github.com/anoma/transferd/walletClient/cache"
	"github.com/anoma/transferd/walletClient/store"
	"github.com/anoma/transferd/walletClient/transfer"
)

// TransferClientInterface defines the methods needed by the API server
type TransferClientInterface interface {
	SubmitTransfer(ctx context.Context, req SubmitTransferRequest) (transfer.SubmissionState, error)
	GetSubmissionState() transfer.SubmissionState
	ClearSubmission() transfer.SubmissionState
	GetTransferHistory() []transfer.TransferOutcome
	GetBalance(ctx context.Context, accountID string, refresh bool) (*cache.Balance, error)
	GetRecentSubmissions(ctx context.Context, limit int) ([]store.SubmissionRecord, error)
}
