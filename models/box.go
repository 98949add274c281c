package models

import (
	"time"
)

// Box represents a physical wash bay that can be assigned to an order
type Box struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Capacity    int       `gorm:"not null;default:2;check:capacity > 0" json:"capacity"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Box model
func (Box) TableName() string {
	return "boxes"
}
