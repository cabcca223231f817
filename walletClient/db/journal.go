package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/anoma/transferd/walletClient/store"
)

// SubmissionJournal persists submission attempts as store.SubmissionRecord rows.
type SubmissionJournal struct {
	db *DB
}

// NewSubmissionJournal creates a journal on top of d. d must be migrated.
func NewSubmissionJournal(d *DB) *SubmissionJournal {
	return &SubmissionJournal{db: d}
}

// Begin inserts rec as a pending submission.
func (j *SubmissionJournal) Begin(ctx context.Context, rec store.SubmissionRecord) error {
	rec.Status = store.StatusPending
	if err := j.db.Client().WithContext(ctx).Create(&rec).Error; err != nil {
		return errors.Wrapf(err, "failed to journal submission %s", rec.SubmissionID)
	}
	return nil
}

// Finish records the terminal result of a submission.
func (j *SubmissionJournal) Finish(ctx context.Context, submissionID string, res store.SubmissionResult) error {
	result := j.db.Client().WithContext(ctx).
		Model(&store.SubmissionRecord{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]any{
			"status":    res.Status,
			"tx_hash":   res.TxHash,
			"height":    res.Height,
			"error_msg": res.ErrorMsg,
		})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to update submission %s", submissionID)
	}
	if result.RowsAffected == 0 {
		return errors.Errorf("submission %s not journaled", submissionID)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *SubmissionJournal) Recent(ctx context.Context, limit int) ([]store.SubmissionRecord, error) {
	var recs []store.SubmissionRecord
	if err := j.db.Client().WithContext(ctx).Order("id DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list submissions")
	}
	return recs, nil
}
