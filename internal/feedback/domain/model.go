package domain

import "time"

// Feedback is a customer testimonial. New rows start hidden and only show
// on the public list after a moderator approves them.
type Feedback struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    *int64    `json:"user_id,omitempty" gorm:"index"`
	Rating    int       `json:"rating,omitempty" gorm:"not null;default:0"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Active    bool      `json:"is_active" gorm:"column:is_active;not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Feedback) TableName() string { return "site_feedback" }
