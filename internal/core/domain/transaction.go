package domain

import (
	"fmt"
	"time"
)

// TimestampLayout renders transaction times, e.g. "2024-03-01 09:15:02.123456".
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Transaction records one successful stock addition.
type Transaction struct {
	ID        string
	Item      string
	Quantity  int
	CreatedAt time.Time
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s: Added %d of %s", t.CreatedAt.Format(TimestampLayout), t.Quantity, t.Item)
}

// TransactionLog is an in-memory, append-only sequence of transactions.
// It is never persisted.
type TransactionLog struct {
	entries []Transaction
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{}
}

func (l *TransactionLog) Append(tx Transaction) {
	l.entries = append(l.entries, tx)
}

func (l *TransactionLog) Len() int {
	return len(l.entries)
}

func (l *TransactionLog) Transactions() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Entries returns the human-readable form of each transaction, oldest first.
func (l *TransactionLog) Entries() []string {
	out := make([]string, 0, len(l.entries))
	for _, tx := range l.entries {
		out = append(out, tx.String())
	}
	return out
}
