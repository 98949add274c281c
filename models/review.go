package models

import (
	"time"
)

// Review represents a client's rated comment on an order.
// Reviews cascade-delete with their order and with their author.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Rating    int       `gorm:"not null;default:5;check:rating >= 1 AND rating <= 5" json:"rating"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"` // don't include full order in JSON
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
