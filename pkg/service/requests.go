package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/pkg/models"
)

// CartItem is one checkout line. Price, name and image are supplied by
// the client and snapshotted onto the order item.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

type CreateOrderRequest struct {
	Items           []CartItem     `json:"items"`
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method"`
	Subtotal        float64        `json:"subtotal"`
	Shipping        float64        `json:"shipping"`
	Tax             float64        `json:"tax"`
	Total           float64        `json:"total"`
}

func (r *CreateOrderRequest) validate() map[string]string {
	fields := map[string]string{}

	if len(r.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, item := range r.Items {
		if item.ProductID == "" {
			fields[fmt.Sprintf("items.%d.product_id", i)] = "product id is required"
		}
		if item.Quantity < 1 {
			fields[fmt.Sprintf("items.%d.quantity", i)] = "quantity must be a positive integer"
		}
		if item.Price <= 0 {
			fields[fmt.Sprintf("items.%d.price", i)] = "price must be positive"
		}
		if item.Name == "" {
			fields[fmt.Sprintf("items.%d.name", i)] = "name is required"
		}
	}

	validateAddress("shipping_address", &r.ShippingAddress, fields)
	validateAddress("billing_address", &r.BillingAddress, fields)

	if r.PaymentMethod == "" {
		fields["payment_method"] = "payment method is required"
	}
	if r.Subtotal <= 0 {
		fields["subtotal"] = "subtotal must be positive"
	}
	if r.Shipping < 0 {
		fields["shipping"] = "shipping must not be negative"
	}
	if r.Tax < 0 {
		fields["tax"] = "tax must not be negative"
	}
	if r.Total <= 0 {
		fields["total"] = "total must be positive"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validateAddress(prefix string, a *models.Address, fields map[string]string) {
	required := map[string]string{
		"first_name":  a.FirstName,
		"last_name":   a.LastName,
		"line1":       a.Line1,
		"city":        a.City,
		"state":       a.State,
		"postal_code": a.PostalCode,
		"country":     a.Country,
	}
	for name, value := range required {
		if value == "" {
			fields[prefix+"."+name] = name + " is required"
		}
	}
}

// toOrder builds the order aggregate. Monetary totals are stored as
// submitted; the server does not recompute them.
func (r *CreateOrderRequest) toOrder(userID string) *models.Order {
	items := make([]models.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
		}
	}

	return &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		OrderNumber:     newOrderNumber(time.Now()),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   r.PaymentMethod,
		Subtotal:        decimal.NewFromFloat(r.Subtotal),
		Shipping:        decimal.NewFromFloat(r.Shipping),
		Tax:             decimal.NewFromFloat(r.Tax),
		Total:           decimal.NewFromFloat(r.Total),
		ShippingAddress: r.ShippingAddress,
		BillingAddress:  r.BillingAddress,
		Items:           items,
	}
}

type ListOrdersQuery struct {
	Status        string
	PaymentStatus string
	Search        string
	Sort          string
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

type ProductInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	ComparePrice float64  `json:"compare_price"`
	Category     string   `json:"category"`
	Brand        string   `json:"brand"`
	SKU          string   `json:"sku"`
	Barcode      string   `json:"barcode"`
	Weight       float64  `json:"weight"`
	Quantity     int      `json:"quantity"`
	LowStock     *int     `json:"low_stock"`
	Status       string   `json:"status"`
	Images       []string `json:"images"`
	Features     []string `json:"features"`
}

func (p *ProductInput) validate() map[string]string {
	fields := map[string]string{}

	if p.Name == "" {
		fields["name"] = "name is required"
	}
	if p.SKU == "" {
		fields["sku"] = "sku is required"
	}
	if p.Price <= 0 {
		fields["price"] = "price must be positive"
	}
	if p.ComparePrice < 0 {
		fields["compare_price"] = "compare price must not be negative"
	}
	if p.Quantity < 0 {
		fields["quantity"] = "quantity must not be negative"
	}
	if p.LowStock != nil && *p.LowStock < 0 {
		fields["low_stock"] = "low stock threshold must not be negative"
	}
	if p.Status != "" && !models.ProductStatus(p.Status).Valid() {
		fields["status"] = "unknown product status"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

type ListProductsQuery struct {
	Status   string
	Category string
	Brand    string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type ListUsersQuery struct {
	Role   string
	Search string
	Page   int
	Limit  int
}
