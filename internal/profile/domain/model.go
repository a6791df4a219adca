package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// Profile is an account row. Points is the current loyalty balance and is
// only ever written through the loyalty ledger.
type Profile struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text;not null"`
	Role         Role      `json:"role" gorm:"type:text;not null;default:customer"`
	DisplayName  *string   `json:"display_name,omitempty" gorm:"column:display_name;type:text"`
	Points       int64     `json:"points" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Profile) TableName() string { return "users" }
