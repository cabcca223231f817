package transfer

import (
	"context"

	"github.com/anoma/transferd/walletClient/accounts"
	"github.com/anoma/transferd/walletClient/ledger"
	"github.com/anoma/transferd/walletClient/store"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

//go:generate mockgen -destination=mock_interfaces_test.go -package=transfer github.com/anoma/transferd/walletClient/transfer EpochSource,TxBuilder,Broadcaster,BalanceRefresher

// EpochSource returns the ledger's current epoch.
type EpochSource interface {
	QueryEpoch(ctx context.Context) (uint64, error)
}

// TxBuilder turns transfer parameters into a signed transaction.
type TxBuilder interface {
	MakeTransfer(ctx context.Context, p txbuilder.Params) (SignedTransaction, error)
}

// Broadcaster submits transaction bytes for inclusion. Success is acceptance only.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, tx []byte) error
}

// Subscriber registers interest in the block applying a transaction hash.
// The returned subscription must be ready to receive when Subscribe returns.
type Subscriber interface {
	Subscribe(ctx context.Context, hash string) (ledger.Subscription, error)
}

// BalanceRefresher refreshes an account balance without blocking the caller.
type BalanceRefresher interface {
	RefreshBalance(account accounts.DerivedAccount)
}

// Journal records submission attempts. Failures never affect a submission's outcome.
type Journal interface {
	Begin(ctx context.Context, rec store.SubmissionRecord) error
	Finish(ctx context.Context, submissionID string, res store.SubmissionResult) error
}
