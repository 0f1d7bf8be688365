package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pos-workshop/internal/model"
)

const DefaultBatchSize = 5000

type Counts struct {
	Stores    int
	Products  int
	Customers int
	Orders    int
}

func DefaultCounts() Counts {
	return Counts{Stores: 5, Products: 500, Customers: 2000, Orders: 50000}
}

// Summary reports what a run wrote, including how much drift it injected.
type Summary struct {
	Counts
	AltTotalOrders        int
	MissingCustomerOrders int
}

// Run generates the whole dataset into sink. Stores, products and customers
// are written in one batch each; orders are flushed every batchSize records.
func Run(ctx context.Context, g *Generator, sink Sink, counts Counts, batchSize int, logger *zap.Logger) (summary *Summary, err error) {
	if err := sink.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare sink: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sink: %w", cerr)
		}
	}()

	summary = &Summary{Counts: counts}

	logger.Info("Generating stores...", zap.Int("count", counts.Stores))
	stores := g.Stores(counts.Stores)
	if err := sink.Write(ctx, model.StoresCollection, toDocs(stores)); err != nil {
		return nil, err
	}

	logger.Info("Generating products...", zap.Int("count", counts.Products))
	products := g.Products(counts.Products)
	if err := sink.Write(ctx, model.ProductsCollection, toDocs(products)); err != nil {
		return nil, err
	}

	logger.Info("Generating customers...", zap.Int("count", counts.Customers))
	customers := g.Customers(counts.Customers)
	if err := sink.Write(ctx, model.CustomersCollection, toDocs(customers)); err != nil {
		return nil, err
	}

	logger.Info("Generating orders...", zap.Int("count", counts.Orders), zap.Int("batch_size", batchSize))
	refs := Refs{Stores: stores, Products: products, Customers: customers}
	err = g.Orders(counts.Orders, refs, batchSize, func(batch []model.Order, done int) error {
		for i := range batch {
			if batch[i].TotalAmount != nil {
				summary.AltTotalOrders++
			}
			if batch[i].CustomerID == nil {
				summary.MissingCustomerOrders++
			}
		}
		if err := sink.Write(ctx, model.OrdersCollection, toDocs(batch)); err != nil {
			return err
		}
		logger.Info("inserted orders", zap.Int("done", done), zap.Int("total", counts.Orders))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func toDocs[T any](records []T) []interface{} {
	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	return docs
}
