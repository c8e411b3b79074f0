package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Address is the shipping/billing snapshot embedded in an order. It is
// copied at checkout so historical orders survive address-book edits.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Line1      string `gorm:"type:varchar(255)" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `gorm:"type:varchar(20)" json:"phone,omitempty"`
}

type Order struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	OrderNumber   string        `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	Status        OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(30)" json:"payment_method"`
	PaymentID     string        `gorm:"type:varchar(100);index" json:"payment_id,omitempty"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	Shipping decimal.Decimal `gorm:"type:decimal(10,2)" json:"shipping"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2)" json:"tax"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Notes []OrderNote `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots one purchased product. Name, image and unit price
// are intentionally decoupled from the live product row.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(200);not null" json:"name"`
	Image     string          `gorm:"type:varchar(500)" json:"image,omitempty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

const (
	NoteTypeManual = "manual"
	NoteTypeSystem = "system"
)

type OrderNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Author    string    `gorm:"type:varchar(100)" json:"author"`
	Type      string    `gorm:"type:varchar(10);default:'manual'" json:"type"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderNote) TableName() string {
	return "order_notes"
}
