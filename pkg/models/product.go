package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StringSlice stores an ordered list of strings as a JSON text column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", value)
	}
}

type Product struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	ComparePrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"compare_price"`
	Category     string          `gorm:"type:varchar(100);index" json:"category"`
	Brand        string          `gorm:"type:varchar(100);index" json:"brand"`
	SKU          string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Barcode      string          `gorm:"type:varchar(64)" json:"barcode,omitempty"`
	Weight       float64         `json:"weight"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	LowStock     int             `gorm:"not null;default:5" json:"low_stock"`
	Status       ProductStatus   `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Images       StringSlice     `gorm:"type:text" json:"images"`
	Features     StringSlice     `gorm:"type:text" json:"features"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
