package query

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pos-workshop/internal/model"
)

// MongoRepository runs every query straight against the collections. Most
// of them are collection scans unless EnsureIndexes has been called.
type MongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) ListStores(ctx context.Context, f StoreFilter) ([]model.Store, error) {
	var stores []model.Store
	err := r.find(ctx, model.StoresCollection, bson.M{}, findOptions(f.Limit), &stores)
	return stores, err
}

func (r *MongoRepository) ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	var products []model.Product
	err := r.find(ctx, model.ProductsCollection, filter, findOptions(f.Limit), &products)
	return products, err
}

func (r *MongoRepository) ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	filter := bson.M{}
	if f.LoyaltyTier != "" {
		filter["loyaltyTier"] = f.LoyaltyTier
	}
	var customers []model.Customer
	err := r.find(ctx, model.CustomersCollection, filter, findOptions(f.Limit), &customers)
	return customers, err
}

// ListOrders has no supporting {storeId, createdAt} index by default.
func (r *MongoRepository) ListOrders(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	opts := findOptions(f.Limit).SetSort(newestFirst)
	err := r.find(ctx, model.OrdersCollection, OrdersFilter(f), opts, &orders)
	return orders, err
}

// OrdersFilter translates f into a find filter.
func OrdersFilter(f OrderFilter) bson.M {
	filter := bson.M{}
	if f.StoreID != "" {
		filter["storeId"] = f.StoreID
	}
	if f.From != nil || f.To != nil {
		createdAt := bson.M{}
		if f.From != nil {
			createdAt["$gte"] = *f.From
		}
		if f.To != nil {
			createdAt["$lte"] = *f.To
		}
		filter["createdAt"] = createdAt
	}
	return filter
}

func (r *MongoRepository) FindCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Collection(model.CustomersCollection).FindOne(ctx, bson.M{"customerId": customerID}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CustomerOrders scans orders by customerId, which is unindexed by default.
func (r *MongoRepository) CustomerOrders(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	var orders []model.Order
	opts := findOptions(limit).SetSort(newestFirst)
	err := r.find(ctx, model.OrdersCollection, bson.M{"customerId": customerID}, opts, &orders)
	return orders, err
}

func (r *MongoRepository) CreateOrder(ctx context.Context, order *model.Order) (string, error) {
	prepareOrder(order, time.Now().UTC().Truncate(time.Millisecond))

	result, err := r.db.Collection(model.OrdersCollection).InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(result.InsertedID), nil
	}
	order.ID = id
	return id.Hex(), nil
}

// RevenueSummaryPipeline unwinds every order line and joins it to its
// product before grouping. Nothing filters the input first.
func RevenueSummaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: model.ProductsCollection},
			{Key: "localField", Value: "items.productId"},
			{Key: "foreignField", Value: "productId"},
			{Key: "as", Value: "productInfo"},
		}}},
		{{Key: "$unwind", Value: "$productInfo"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "storeId", Value: "$storeId"},
				{Key: "category", Value: "$productInfo.category"},
			}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$items.subtotal"}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "orderCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalRevenue", Value: -1}}}},
		{{Key: "$limit", Value: SummaryLimit}},
	}
}

func (r *MongoRepository) RevenueSummary(ctx context.Context) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.aggregate(ctx, RevenueSummaryPipeline(), &rows)
	return rows, err
}

func TopSellersPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.productId"},
			{Key: "productName", Value: bson.D{{Key: "$first", Value: "$items.name"}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$items.subtotal"}}},
			{Key: "orderCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func (r *MongoRepository) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	if limit <= 0 {
		return nil, ErrNonPositiveLimit
	}
	var sellers []TopSeller
	err := r.aggregate(ctx, TopSellersPipeline(limit), &sellers)
	return sellers, err
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// WorkshopIndexes are the indexes the labs end up adding.
func WorkshopIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		model.OrdersCollection: {
			{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		model.ProductsCollection: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		model.CustomersCollection: {
			{Keys: bson.D{{Key: "customerId", Value: 1}}},
		},
	}
}

// EnsureIndexes creates WorkshopIndexes. Only called when the deliberate
// slowness is switched off in config.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) ([]string, error) {
	var names []string
	for _, collection := range model.Collections {
		models, ok := WorkshopIndexes()[collection]
		if !ok {
			continue
		}
		created, err := r.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return names, fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		for _, name := range created {
			names = append(names, collection+"."+name)
		}
	}
	return names, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func findOptions(limit int) *options.FindOptions {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func (r *MongoRepository) find(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (r *MongoRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.db.Collection(model.OrdersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
