package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pos-workshop/internal/database"
	"pos-workshop/internal/generator"
)

var seedOut string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the workshop dataset",
	Long: `Generates stores, products, customers and orders from a fixed seed.

--out file writes mongoimport-ready NDJSON files to --output-dir.
--out mongo|postgres|mysql drops the collections (or tables) and bulk inserts.`,
	RunE: runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedOut, "out", "file", "destination: file, mongo, postgres or mysql")
	f.Int64("seed", 42, "random seed")
	f.Int("stores", 5, "number of stores")
	f.Int("products", 500, "number of products")
	f.Int("customers", 2000, "number of customers")
	f.Int("orders", 50000, "number of orders")
	f.Int("batch-size", generator.DefaultBatchSize, "orders per insert batch")
	f.String("output-dir", "seed/imports", "directory for --out file")
	f.String("postgres-dsn", "", "PostgreSQL connection string for --out postgres")
	f.String("mysql-dsn", "", "MySQL DSN for --out mysql")
}

func runSeed(cmd *cobra.Command, args []string) error {
	defer log.Sync()
	ctx := cmd.Context()

	from, to, err := cfg.Generator.OrderWindow()
	if err != nil {
		return err
	}

	sink, closeSink, err := openSink(ctx, seedOut)
	if err != nil {
		return err
	}
	defer closeSink()

	gs := cfg.Generator
	counts := generator.Counts{Stores: gs.Stores, Products: gs.Products, Customers: gs.Customers, Orders: gs.Orders}
	color.Cyan("Generating POS dataset (seed=%d) into %s...", gs.Seed, seedOut)

	start := time.Now()
	g := generator.New(gs.Seed, generator.Options{OrdersFrom: from, OrdersTo: to})
	summary, err := generator.Run(ctx, g, sink, counts, gs.BatchSize, log)
	if err != nil {
		color.Red("Seeding failed: %v", err)
		return err
	}

	color.Green("Seed complete in %s", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Stores:    %d\n", summary.Stores)
	fmt.Printf("  Products:  %d\n", summary.Products)
	fmt.Printf("  Customers: %d\n", summary.Customers)
	fmt.Printf("  Orders:    %d\n", summary.Orders)
	color.Yellow("  Schema drift: %d orders use total_amount, %d orders have no customerId",
		summary.AltTotalOrders, summary.MissingCustomerOrders)
	if seedOut == "file" {
		fmt.Printf("\nImport with: mongoimport --db pos --collection <name> --file %s/<name>.json\n", gs.OutputDir)
	}
	return nil
}

func openSink(ctx context.Context, out string) (generator.Sink, func() error, error) {
	if out == "file" {
		return generator.NewFileSink(cfg.Generator.OutputDir), func() error { return nil }, nil
	}

	driver, err := database.NewDriver(out, cfg.Databases.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}

	var dsn string
	switch out {
	case "postgres", "postgresql":
		dsn = cfg.Databases.Postgres
	case "mysql":
		dsn = cfg.Databases.MySQL
	default:
		dsn = cfg.Databases.Mongo
	}
	if dsn == "" {
		return nil, nil, fmt.Errorf("no connection string configured for %s", out)
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.Connect(cctx, dsn); err != nil {
		return nil, nil, err
	}
	return &generator.DatabaseSink{Driver: driver}, driver.Close, nil
}
