package models

type TransactionType string

const (
	TxnCharge TransactionType = "CHARGE"
	TxnUse    TransactionType = "USE"
)

func (t TransactionType) Valid() bool {
	return t == TxnCharge || t == TxnUse
}

// PointHistory is an immutable record of one applied charge or use.
// ID is a global sequence shared by all users.
type PointHistory struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Amount       int64           `json:"amount"`
	Type         TransactionType `json:"type"`
	UpdateMillis int64           `json:"updateMillis"`
}
