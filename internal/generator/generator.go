package generator

import (
	"fmt"
	"strings"
	"time"

	"pos-workshop/internal/model"
)

const (
	// AltTotalRate is the share of orders whose total lands in total_amount.
	AltTotalRate = 0.05
	// MissingCustomerRate is the share of orders written without customerId.
	MissingCustomerRate = 0.03
)

var (
	storeOpenFrom = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	storeOpenTo   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	joinFrom      = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	joinTo        = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

type Options struct {
	OrdersFrom time.Time
	OrdersTo   time.Time
}

func DefaultOptions() Options {
	return Options{
		OrdersFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		OrdersTo:   time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
	}
}

// Generator synthesizes the workshop dataset. Every random choice comes from
// the generator's own stream, so two generators built with the same seed and
// called in the same order produce the same records.
type Generator struct {
	rng  *mulberry32
	opts Options
}

func New(seed int64, opts Options) *Generator {
	return &Generator{rng: newMulberry32(seed), opts: opts}
}

func (g *Generator) Stores(count int) []model.Store {
	stores := make([]model.Store, 0, count)
	for i := 1; i <= count; i++ {
		name := pick(g, cities) + fmt.Sprintf(" Store #%d", i)
		address := fmt.Sprintf("%d %s", g.randInt(100, 9999), pick(g, streets))
		manager := pick(g, firstNames) + " " + pick(g, lastNames)
		stores = append(stores, model.Store{
			StoreID:  padID("S", i, 4),
			Name:     name,
			Address:  address,
			City:     cities[i%len(cities)],
			State:    states[i%len(states)],
			Region:   regions[(i-1)%len(regions)],
			Manager:  manager,
			Phone:    g.phone(),
			OpenDate: g.randomDate(storeOpenFrom, storeOpenTo),
		})
	}
	return stores
}

func (g *Generator) Products(count int) []model.Product {
	products := make([]model.Product, 0, count)
	for i := 1; i <= count; i++ {
		category := pick(g, categoryNames)
		subcategory := pick(g, subcategories[category])
		cost := g.randFloat(0.5, 30)
		margin := g.randFloat(1.2, 3.0)

		numTags := g.randInt(0, 3)
		tags := make([]string, 0, numTags)
		for t := 0; t < numTags; t++ {
			tags = append(tags, pick(g, tagPool))
		}

		name := pick(g, adjectives) + " " + subcategory
		sku := g.sku()

		products = append(products, model.Product{
			ProductID:   padID("P", i, 4),
			Name:        name,
			Category:    category,
			Subcategory: subcategory,
			SKU:         sku,
			Price:       Round2(cost * margin),
			Cost:        cost,
			Inventory:   g.randInt(0, 500),
			Tags:        dedupe(tags),
		})
	}
	return products
}

func (g *Generator) Customers(count int) []model.Customer {
	customers := make([]model.Customer, 0, count)
	for i := 1; i <= count; i++ {
		first := pick(g, firstNames)
		last := pick(g, lastNames)
		email := strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, g.randInt(1, 999)))
		customers = append(customers, model.Customer{
			CustomerID:  padID("C", i, 4),
			FirstName:   first,
			LastName:    last,
			Email:       email,
			Phone:       g.phone(),
			LoyaltyTier: g.pickWeighted(loyaltyTiers, loyaltyThresholds),
			TotalSpend:  g.randFloat(10, 15000),
			JoinDate:    g.randomDate(joinFrom, joinTo),
		})
	}
	return customers
}

// Refs are the records orders point at. Empty lists panic.
type Refs struct {
	Stores    []model.Store
	Products  []model.Product
	Customers []model.Customer
}

// Order builds the n-th (1-based) order, applying schema drift last.
func (g *Generator) Order(n int, refs Refs) model.Order {
	store := pick(g, refs.Stores)
	customer := pick(g, refs.Customers)
	numItems := g.randInt(1, 8)

	items := make([]model.LineItem, 0, numItems)
	total := 0.0
	for j := 0; j < numItems; j++ {
		product := pick(g, refs.Products)
		qty := g.randInt(1, 5)
		subtotal := Round2(product.Price * float64(qty))
		total += subtotal
		items = append(items, model.LineItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
	}
	total = Round2(total)

	order := model.Order{
		OrderID:       padID("ORD", n, 6),
		StoreID:       store.StoreID,
		Items:         items,
		PaymentMethod: pick(g, paymentMethods),
		Status:        g.pickWeighted(orderStatuses, orderStatusThresholds),
		CreatedAt:     g.randomDate(g.opts.OrdersFrom, g.opts.OrdersTo),
	}

	if g.rng.Float64() < AltTotalRate {
		order.TotalAmount = &total
	} else {
		order.Total = &total
	}

	if g.rng.Float64() >= MissingCustomerRate {
		id := customer.CustomerID
		order.CustomerID = &id
	}

	return order
}

// Orders generates count orders and hands them to flush in chunks of at most
// batchSize. A batchSize <= 0 flushes everything at once.
func (g *Generator) Orders(count int, refs Refs, batchSize int, flush func(batch []model.Order, done int) error) error {
	if batchSize <= 0 {
		batchSize = count
	}
	batch := make([]model.Order, 0, min(batchSize, count))
	for i := 1; i <= count; i++ {
		batch = append(batch, g.Order(i, refs))
		if len(batch) >= batchSize {
			if err := flush(batch, i); err != nil {
				return err
			}
			batch = make([]model.Order, 0, min(batchSize, count-i))
		}
	}
	if len(batch) > 0 {
		return flush(batch, count)
	}
	return nil
}

func (g *Generator) phone() string {
	return fmt.Sprintf("(%d) %d-%d", g.randInt(200, 999), g.randInt(200, 999), g.randInt(1000, 9999))
}

func (g *Generator) sku() string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteByte(skuAlphabet[g.randInt(0, len(skuAlphabet)-1)])
	}
	return b.String()
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
