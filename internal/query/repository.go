package query

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pos-workshop/internal/model"
)

const (
	DefaultListLimit       = 50
	DefaultHistoryLimit    = 20
	DefaultTopSellersLimit = 10
	SummaryLimit           = 20
)

var ErrNonPositiveLimit = errors.New("the limit must be positive")

// Repository is the read/write surface the API needs. A Limit of 0 on a
// filter means no limit.
type Repository interface {
	ListStores(ctx context.Context, f StoreFilter) ([]model.Store, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error)
	ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]model.Order, error)

	// FindCustomer returns nil, nil when no customer has the id.
	FindCustomer(ctx context.Context, customerID string) (*model.Customer, error)
	CustomerOrders(ctx context.Context, customerID string, limit int) ([]model.Order, error)

	// CreateOrder stamps createdAt, defaults the status and stores the
	// order under a server-assigned id, which it returns.
	CreateOrder(ctx context.Context, order *model.Order) (string, error)

	RevenueSummary(ctx context.Context) ([]RevenueRow, error)
	TopSellers(ctx context.Context, limit int) ([]TopSeller, error)

	Ping(ctx context.Context) error
}

type StoreFilter struct {
	Limit int
}

type ProductFilter struct {
	Category string
	Limit    int
}

type CustomerFilter struct {
	LoyaltyTier string
	Limit       int
}

// OrderFilter bounds are inclusive.
type OrderFilter struct {
	StoreID string
	From    *time.Time
	To      *time.Time
	Limit   int
}

type RevenueKey struct {
	StoreID  string `bson:"storeId" json:"storeId"`
	Category string `bson:"category" json:"category"`
}

// RevenueRow is one (store, category) group. OrderCount counts line items,
// since the pipeline groups after unwinding items.
type RevenueRow struct {
	ID            RevenueKey `bson:"_id" json:"_id"`
	TotalRevenue  float64    `bson:"totalRevenue" json:"totalRevenue"`
	TotalQuantity int        `bson:"totalQuantity" json:"totalQuantity"`
	OrderCount    int        `bson:"orderCount" json:"orderCount"`
}

type TopSeller struct {
	ProductID     string  `bson:"_id" json:"_id"`
	ProductName   string  `bson:"productName" json:"productName"`
	TotalQuantity int     `bson:"totalQuantity" json:"totalQuantity"`
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	OrderCount    int     `bson:"orderCount" json:"orderCount"`
}

// prepareOrder applies the server-side defaults for a new order.
func prepareOrder(order *model.Order, now time.Time) {
	order.ID = primitive.NilObjectID
	order.CreatedAt = now
	if order.Status == "" {
		order.Status = model.DefaultOrderStatus
	}
}
