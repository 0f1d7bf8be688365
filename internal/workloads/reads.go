package workloads

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"pos-workshop/internal/query"
)

var errNoData = errors.New("dataset is empty, run posctl seed first")

// OrdersByStore hits GET /orders with a storeId and a six month window, the
// query the {storeId, createdAt} index is meant for.
type OrdersByStore struct {
	From   time.Time
	Months int

	storeIDs []string
}

func (w *OrdersByStore) Name() string { return "orders_by_store" }

func (w *OrdersByStore) Setup(ctx context.Context, repo query.Repository) error {
	stores, err := repo.ListStores(ctx, query.StoreFilter{})
	if err != nil {
		return err
	}
	w.storeIDs = w.storeIDs[:0]
	for _, s := range stores {
		w.storeIDs = append(w.storeIDs, s.StoreID)
	}
	if len(w.storeIDs) == 0 {
		return errNoData
	}
	if w.From.IsZero() {
		w.From = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	if w.Months <= 0 {
		w.Months = 12
	}
	return nil
}

func (w *OrdersByStore) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	from := w.From.AddDate(0, rng.Intn(w.Months), 0)
	to := from.AddDate(0, 6, 0).Add(-time.Second)
	_, err := repo.ListOrders(ctx, query.OrderFilter{
		StoreID: w.storeIDs[rng.Intn(len(w.storeIDs))],
		From:    &from,
		To:      &to,
		Limit:   query.DefaultListLimit,
	})
	return err
}

// CustomerHistory mirrors GET /customers/:id/history.
type CustomerHistory struct {
	customerIDs []string
}

func (w *CustomerHistory) Name() string { return "customer_history" }

func (w *CustomerHistory) Setup(ctx context.Context, repo query.Repository) error {
	customers, err := repo.ListCustomers(ctx, query.CustomerFilter{})
	if err != nil {
		return err
	}
	w.customerIDs = w.customerIDs[:0]
	for _, c := range customers {
		w.customerIDs = append(w.customerIDs, c.CustomerID)
	}
	if len(w.customerIDs) == 0 {
		return errNoData
	}
	return nil
}

func (w *CustomerHistory) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	id := w.customerIDs[rng.Intn(len(w.customerIDs))]
	customer, err := repo.FindCustomer(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return errors.New("customer " + id + " disappeared")
	}
	_, err = repo.CustomerOrders(ctx, id, query.DefaultHistoryLimit)
	return err
}

type ProductsByCategory struct {
	categories []string
}

func (w *ProductsByCategory) Name() string { return "products_by_category" }

func (w *ProductsByCategory) Setup(ctx context.Context, repo query.Repository) error {
	products, err := repo.ListProducts(ctx, query.ProductFilter{})
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	w.categories = w.categories[:0]
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			w.categories = append(w.categories, p.Category)
		}
	}
	if len(w.categories) == 0 {
		return errNoData
	}
	return nil
}

func (w *ProductsByCategory) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	_, err := repo.ListProducts(ctx, query.ProductFilter{
		Category: w.categories[rng.Intn(len(w.categories))],
		Limit:    query.DefaultListLimit,
	})
	return err
}

// RevenueSummary runs the unwind/lookup/group pipeline behind
// GET /orders/summary.
type RevenueSummary struct{}

func (RevenueSummary) Name() string { return "revenue_summary" }

func (RevenueSummary) Setup(ctx context.Context, repo query.Repository) error { return nil }

func (RevenueSummary) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	_, err := repo.RevenueSummary(ctx)
	return err
}

type TopSellers struct {
	Limit int
}

func (w *TopSellers) Name() string { return "top_sellers" }

func (w *TopSellers) Setup(ctx context.Context, repo query.Repository) error {
	if w.Limit <= 0 {
		w.Limit = query.DefaultTopSellersLimit
	}
	return nil
}

func (w *TopSellers) Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error {
	_, err := repo.TopSellers(ctx, w.Limit)
	return err
}
