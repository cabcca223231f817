// Package store contains GORM-backed SQLite models used by the transfer daemon.
//
// Database Structure (database file: submissions.db):
//
//	databases/
//	└── submissions.db
//	    └── submission_records
package store

import (
	"gorm.io/gorm"
)

// Submission journal statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusFailed    = "FAILED"
)

// SubmissionRecord journals one transfer submission attempt. It is an
// operational log only; the transfer history is kept in memory.
type SubmissionRecord struct {
	gorm.Model
	SubmissionID string `gorm:"uniqueIndex;not null"` // Submission id (uuid)
	Source       string // Source address (faucet address for faucet submissions)
	Target       string // Target address
	Token        string // Token symbol
	Amount       string // Display amount as a decimal string
	Faucet       bool   // Whether the faucet funded the transfer
	Status       string `gorm:"index;not null;default:'PENDING'"` // "PENDING", "CONFIRMED" or "FAILED"
	TxHash       string `gorm:"index"`                            // Content hash of the signed transaction (empty if never built)
	Height       uint64 // Block height of inclusion (0 until confirmed)
	ErrorMsg     string `gorm:"type:text"` // Error message if the submission failed
}

// SubmissionResult is the terminal update applied to a SubmissionRecord.
type SubmissionResult struct {
	Status   string
	TxHash   string
	Height   uint64
	ErrorMsg string
}
