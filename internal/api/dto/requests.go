package dto

import (
	"errors"
	"fmt"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// FeatureRequest asks for the features of one transaction. History is the
// context list; the transaction is added to it when missing.
type FeatureRequest struct {
	Transaction transaction.Transaction   `json:"transaction"`
	History     []transaction.Transaction `json:"history"`
}

// Validate checks required fields.
func (r FeatureRequest) Validate() error {
	if err := validateTransaction(r.Transaction); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	for i, tx := range r.History {
		if err := validateTransaction(tx); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return nil
}

// BatchRequest scores every transaction against the list and records a run.
type BatchRequest struct {
	Transactions []transaction.Transaction `json:"transactions"`
	Source       string                    `json:"source,omitempty"`
}

// Validate checks required fields.
func (r BatchRequest) Validate() error {
	if len(r.Transactions) == 0 {
		return errors.New("transactions must not be empty")
	}
	for i, tx := range r.Transactions {
		if err := validateTransaction(tx); err != nil {
			return fmt.Errorf("transactions[%d]: %w", i, err)
		}
	}
	return nil
}

// Dates are not validated here: malformed dates are scored, not rejected.
func validateTransaction(tx transaction.Transaction) error {
	if tx.UserID == "" {
		return errors.New("user_id is required")
	}
	if tx.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
