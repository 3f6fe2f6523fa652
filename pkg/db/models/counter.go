package models

// Counter backs the monotonic document numbers (orders, tickets, receipts).
// Values are advanced with an atomic UPDATE inside the caller's transaction.
type Counter struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}
