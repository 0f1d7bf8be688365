package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"pos-workshop/internal/model"
)

func stageNames(t *testing.T, pipeline []bson.D) []string {
	t.Helper()
	var names []string
	for _, stage := range pipeline {
		require.Len(t, stage, 1)
		names = append(names, stage[0].Key)
	}
	return names
}

func TestRevenueSummaryPipelineShape(t *testing.T) {
	p := RevenueSummaryPipeline()
	assert.Equal(t, []string{"$unwind", "$lookup", "$unwind", "$group", "$sort", "$limit"}, stageNames(t, p))

	lookup := p[1][0].Value.(bson.D).Map()
	assert.Equal(t, model.ProductsCollection, lookup["from"])
	assert.Equal(t, "items.productId", lookup["localField"])
	assert.Equal(t, "productId", lookup["foreignField"])

	group := p[3][0].Value.(bson.D).Map()
	assert.Equal(t, bson.D{{Key: "storeId", Value: "$storeId"}, {Key: "category", Value: "$productInfo.category"}}, group["_id"])
	assert.Equal(t, SummaryLimit, p[5][0].Value)
}

func TestTopSellersPipelineShape(t *testing.T) {
	p := TopSellersPipeline(5)
	assert.Equal(t, []string{"$unwind", "$group", "$sort", "$limit"}, stageNames(t, p))

	group := p[1][0].Value.(bson.D).Map()
	assert.Equal(t, "$items.productId", group["_id"])
	assert.Equal(t, bson.D{{Key: "$first", Value: "$items.name"}}, group["productName"])
	assert.Equal(t, bson.D{{Key: "totalQuantity", Value: -1}}, p[2][0].Value)
	assert.Equal(t, 5, p[3][0].Value)
}

func TestOrdersFilter(t *testing.T) {
	assert.Empty(t, OrdersFilter(OrderFilter{}))

	from, to := at("2025-01-01"), at("2025-06-30")
	f := OrdersFilter(OrderFilter{StoreID: "S0001", From: &from, To: &to, Limit: 10})
	assert.Equal(t, bson.M{
		"storeId":   "S0001",
		"createdAt": bson.M{"$gte": from, "$lte": to},
	}, f)

	f = OrdersFilter(OrderFilter{To: &to})
	assert.Equal(t, bson.M{"createdAt": bson.M{"$lte": to}}, f)
}

func TestWorkshopIndexesCoverSlowQueries(t *testing.T) {
	indexes := WorkshopIndexes()
	require.Len(t, indexes[model.OrdersCollection], 2)
	assert.Equal(t, bson.D{{Key: "storeId", Value: 1}, {Key: "createdAt", Value: -1}}, indexes[model.OrdersCollection][0].Keys)
	assert.Equal(t, bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}, indexes[model.OrdersCollection][1].Keys)
	assert.Len(t, indexes[model.ProductsCollection], 2)
	assert.NotContains(t, indexes, model.StoresCollection)
}
