package models

import (
	"time"
)

// ServiceType represents a purchasable wash service in the catalog
type ServiceType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}
