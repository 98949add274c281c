package models

import (
	"time"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// OrderStatuses lists every valid order status
var OrderStatuses = []string{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// Order represents a scheduled car-wash booking.
// Deleting the client deletes the order; deleting the washer, box or
// service type only clears the reference.
type Order struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	CarModel        string       `gorm:"not null" json:"car_model"`
	CarNumber       string       `gorm:"not null" json:"car_number"`
	Description     string       `gorm:"type:text" json:"description"`
	AppointmentDate time.Time    `gorm:"not null;index" json:"appointment_date"`
	ClientID        uint         `gorm:"not null;index" json:"client_id"`
	Client          User         `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client"`
	WasherID        *uint        `gorm:"index" json:"washer_id"` // nullable, must not reference a staff user
	Washer          *User        `gorm:"foreignKey:WasherID;constraint:OnDelete:SET NULL" json:"washer,omitempty"`
	BoxID           *uint        `gorm:"index" json:"box_id"`
	Box             *Box         `gorm:"foreignKey:BoxID;constraint:OnDelete:SET NULL" json:"box,omitempty"`
	ServiceTypeID   *uint        `gorm:"index" json:"service_type_id"`
	ServiceType     *ServiceType `gorm:"foreignKey:ServiceTypeID;constraint:OnDelete:SET NULL" json:"service_type,omitempty"`
	Price           *float64     `gorm:"check:price >= 0" json:"price"` // snapshot of the service type price at creation
	Discount        float64      `gorm:"not null;default:0;check:discount >= 0" json:"discount"`
	CarImageKey     *string      `json:"car_image_key,omitempty"`
	CarImageURL     *string      `gorm:"-" json:"car_image_url,omitempty"` // computed, resolved through the image service
	Status          string       `gorm:"not null;default:'pending'" json:"status"`
	IsPublished     bool         `gorm:"not null;default:true" json:"is_published"`
	CreatedAt       time.Time    `json:"created_at"`
	ReviewCount     int64        `gorm:"->;-:migration" json:"review_count"` // annotation filled by listing queries
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// FinalPrice returns the price after discount, or nil when no price is set
func (o *Order) FinalPrice() *float64 {
	if o.Price == nil {
		return nil
	}
	final := *o.Price - *o.Price*o.Discount/100
	return &final
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
