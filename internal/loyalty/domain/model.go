package domain

import "time"

// Entry is one append-only loyalty ledger row. Delta records the requested
// change even when the resulting balance was clamped at zero.
type Entry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	OrderID   *int64    `json:"order_id,omitempty" gorm:"index"`
	Delta     int64     `json:"delta" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "loyalty_ledger" }
