package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name        string    `gorm:"not null;index"           json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Stock       int       `gorm:"not null;default:0"       json:"stock"`
	Category    string    `gorm:"index"                    json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"       json:"id"`
	UserID     uuid.UUID   `gorm:"type:uuid;index;not null"   json:"user_id"`
	User       *User       `gorm:"foreignKey:UserID"          json:"user,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"         json:"items"`
	TotalPrice float64     `gorm:"not null"                   json:"total_price"`
	Status     string      `gorm:"not null;default:pending"   json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OrderItem keeps the unit price captured at placement time, so later
// catalog price changes never alter historical orders.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"         json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID"       json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity>0"  json:"quantity"`
	UnitPrice float64   `gorm:"not null"                   json:"unit_price"`
	LineTotal float64   `gorm:"not null"                   json:"line_total"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
