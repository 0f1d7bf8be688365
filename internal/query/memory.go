package query

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pos-workshop/internal/generator"
	"pos-workshop/internal/model"
)

// MemoryRepository keeps the dataset in slices and answers queries by
// scanning them, the same way an unindexed collection would. It doubles as
// a generator.Sink so a dataset can be generated straight into it.
type MemoryRepository struct {
	mu        sync.RWMutex
	stores    []model.Store
	products  []model.Product
	customers []model.Customer
	orders    []model.Order

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// LoadMemoryRepository reads the per-collection files a FileSink wrote into
// dir. Missing files load as empty collections.
func LoadMemoryRepository(dir string) (*MemoryRepository, error) {
	r := NewMemoryRepository()
	for _, c := range model.Collections {
		if err := r.loadFile(filepath.Join(dir, generator.FileName(c)), c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

const maxLineSize = 16 * 1024 * 1024

func (r *MemoryRepository) loadFile(path, collection string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := r.decodeLine(collection, scanner.Bytes()); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	return scanner.Err()
}

func (r *MemoryRepository) decodeLine(collection string, data []byte) error {
	switch collection {
	case model.StoresCollection:
		var s model.Store
		if err := bson.UnmarshalExtJSON(data, false, &s); err != nil {
			return err
		}
		r.stores = append(r.stores, s)
	case model.ProductsCollection:
		var p model.Product
		if err := bson.UnmarshalExtJSON(data, false, &p); err != nil {
			return err
		}
		r.products = append(r.products, p)
	case model.CustomersCollection:
		var c model.Customer
		if err := bson.UnmarshalExtJSON(data, false, &c); err != nil {
			return err
		}
		r.customers = append(r.customers, c)
	case model.OrdersCollection:
		var o model.Order
		if err := bson.UnmarshalExtJSON(data, false, &o); err != nil {
			return err
		}
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		r.orders = append(r.orders, o)
	default:
		return fmt.Errorf("unknown collection: %s", collection)
	}
	return nil
}

// Prepare empties every collection.
func (r *MemoryRepository) Prepare(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores, r.products, r.customers, r.orders = nil, nil, nil, nil
	return nil
}

func (r *MemoryRepository) Write(ctx context.Context, collection string, docs []interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range docs {
		switch d := doc.(type) {
		case model.Store:
			r.stores = append(r.stores, d)
		case model.Product:
			r.products = append(r.products, d)
		case model.Customer:
			r.customers = append(r.customers, d)
		case model.Order:
			if d.ID.IsZero() {
				d.ID = primitive.NewObjectID()
			}
			r.orders = append(r.orders, d)
		default:
			return fmt.Errorf("unsupported document %T for %s", doc, collection)
		}
	}
	return nil
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) ListStores(ctx context.Context, f StoreFilter) ([]model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return limited(append([]model.Store(nil), r.stores...), f.Limit), nil
}

func (r *MemoryRepository) ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Product
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Customer
	for _, c := range r.customers {
		if f.LoyaltyTier != "" && c.LoyaltyTier != f.LoyaltyTier {
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListOrders(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	return r.newestOrders(f.Limit, func(o *model.Order) bool {
		if f.StoreID != "" && o.StoreID != f.StoreID {
			return false
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			return false
		}
		return true
	}), nil
}

func (r *MemoryRepository) FindCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.customers {
		if r.customers[i].CustomerID == customerID {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) CustomerOrders(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	return r.newestOrders(limit, func(o *model.Order) bool {
		return o.HasCustomer(customerID)
	}), nil
}

func (r *MemoryRepository) newestOrders(limit int, match func(*model.Order) bool) []model.Order {
	r.mu.RLock()
	var out []model.Order
	for i := range r.orders {
		if match(&r.orders[i]) {
			out = append(out, r.orders[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limited(out, limit)
}

func (r *MemoryRepository) CreateOrder(ctx context.Context, order *model.Order) (string, error) {
	prepareOrder(order, r.now().UTC().Truncate(time.Millisecond))
	order.ID = primitive.NewObjectID()

	r.mu.Lock()
	r.orders = append(r.orders, *order)
	r.mu.Unlock()
	return order.ID.Hex(), nil
}

// RevenueSummary follows RevenueSummaryPipeline: line items whose product
// is unknown drop out at the join.
func (r *MemoryRepository) RevenueSummary(ctx context.Context) ([]RevenueRow, error) {
	r.mu.RLock()
	byID := make(map[string][]*model.Product, len(r.products))
	for i := range r.products {
		p := &r.products[i]
		byID[p.ProductID] = append(byID[p.ProductID], p)
	}

	var rows []RevenueRow
	index := map[RevenueKey]int{}
	for i := range r.orders {
		o := &r.orders[i]
		for _, item := range o.Items {
			for _, p := range byID[item.ProductID] {
				key := RevenueKey{StoreID: o.StoreID, Category: p.Category}
				n, ok := index[key]
				if !ok {
					n = len(rows)
					index[key] = n
					rows = append(rows, RevenueRow{ID: key})
				}
				rows[n].TotalRevenue += item.Subtotal
				rows[n].TotalQuantity += item.Quantity
				rows[n].OrderCount++
			}
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})
	return limited(rows, SummaryLimit), nil
}

func (r *MemoryRepository) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	if limit <= 0 {
		return nil, ErrNonPositiveLimit
	}

	r.mu.RLock()
	var sellers []TopSeller
	index := map[string]int{}
	for i := range r.orders {
		for _, item := range r.orders[i].Items {
			n, ok := index[item.ProductID]
			if !ok {
				n = len(sellers)
				index[item.ProductID] = n
				sellers = append(sellers, TopSeller{ProductID: item.ProductID, ProductName: item.Name})
			}
			sellers[n].TotalQuantity += item.Quantity
			sellers[n].TotalRevenue += item.Subtotal
			sellers[n].OrderCount++
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].TotalQuantity > sellers[j].TotalQuantity
	})
	return limited(sellers, limit), nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
