package workloads

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"pos-workshop/internal/generator"
	"pos-workshop/internal/model"
	"pos-workshop/internal/query"
)

var paymentMethods = []string{"cash", "credit_card", "debit_card", "mobile_pay"}

// OrderWrites posts new orders the way a register would, for the write-path
// labs. Each order gets 1-3 lines of known products.
type OrderWrites struct {
	stores    []model.Store
	products  []model.Product
	customers []model.Customer
}

func (w *OrderWrites) Name() string { return "order_writes" }

func (w *OrderWrites) Setup(ctx context.Context, repo query.Repository) error {
	var err error
	if w.stores, err = repo.ListStores(ctx, query.StoreFilter{}); err != nil {
		return err
	}
	if w.products, err = repo.ListProducts(ctx, query.ProductFilter{}); err != nil {
		return err
	}
	if w.customers, err = repo.ListCustomers(ctx, query.CustomerFilter{}); err != nil {
		return err
	}
	if len(w.stores) == 0 || len(w.products) == 0 {
		return errNoData
	}
	return nil
}

func (w *OrderWrites) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	order := w.newOrder(rng)
	_, err := repo.CreateOrder(ctx, order)
	return err
}

func (w *OrderWrites) newOrder(rng *rand.Rand) *model.Order {
	order := &model.Order{
		OrderID:       "BENCH-" + uuid.NewString(),
		StoreID:       w.stores[rng.Intn(len(w.stores))].StoreID,
		PaymentMethod: paymentMethods[rng.Intn(len(paymentMethods))],
	}
	if len(w.customers) > 0 {
		id := w.customers[rng.Intn(len(w.customers))].CustomerID
		order.CustomerID = &id
	}

	var total float64
	for i := 1 + rng.Intn(3); i > 0; i-- {
		p := w.products[rng.Intn(len(w.products))]
		qty := 1 + rng.Intn(5)
		subtotal := generator.Round2(p.Price * float64(qty))
		order.Items = append(order.Items, model.LineItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	total = generator.Round2(total)
	order.Total = &total
	return order
}
