package models

import (
	"time"
)

// User represents a registered account (client, washer or staff member).
// Credentials live with the Auth0 collaborator; only the profile is stored here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Auth0ID   string    `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
