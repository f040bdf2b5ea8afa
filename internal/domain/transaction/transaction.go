// Package transaction defines the transaction record consumed by the
// recurrence feature engine.
package transaction

// Transaction is a single account movement as supplied by the caller.
// The engine never mutates it.
type Transaction struct {
	ID     string  `json:"id,omitempty"`
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"` // positive = inflow, negative = outflow
	Date   string  `json:"date"`   // YYYY-MM-DD
}

// Key identifies the (owner, counterparty) pair a transaction belongs to.
type Key struct {
	UserID string
	Name   string
}

// Key returns the merchant history key for the transaction.
func (t Transaction) Key() Key {
	return Key{UserID: t.UserID, Name: t.Name}
}

// Amounts extracts the amounts of txs in order.
func Amounts(txs []Transaction) []float64 {
	amounts := make([]float64, len(txs))
	for i, tx := range txs {
		amounts[i] = tx.Amount
	}
	return amounts
}
