package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-workshop/internal/model"
	"pos-workshop/internal/query"
)

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newTestServer(t *testing.T) (*Server, *query.MemoryRepository) {
	t.Helper()
	repo := query.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Write(ctx, model.StoresCollection, []interface{}{
		model.Store{StoreID: "S0001", Name: "Main Street", Region: "Northeast"},
		model.Store{StoreID: "S0002", Name: "Harbor", Region: "Southeast"},
	}))
	require.NoError(t, repo.Write(ctx, model.ProductsCollection, []interface{}{
		model.Product{ProductID: "P00001", Name: "Cold Brew", Category: "Beverages", Price: 3.00},
		model.Product{ProductID: "P00002", Name: "Green Tea", Category: "Beverages", Price: 4.50},
		model.Product{ProductID: "P00003", Name: "Bagel", Category: "Bakery", Price: 2.50},
	}))
	require.NoError(t, repo.Write(ctx, model.CustomersCollection, []interface{}{
		model.Customer{CustomerID: "C000001", FirstName: "Ada", LoyaltyTier: "Gold"},
		model.Customer{CustomerID: "C000002", FirstName: "Lin", LoyaltyTier: "Bronze"},
	}))
	require.NoError(t, repo.Write(ctx, model.OrdersCollection, []interface{}{
		model.Order{OrderID: "ORD-1", StoreID: "S0001", CustomerID: ptr("C000001"), CreatedAt: day("2025-01-10"), Status: "completed", Total: ptr(3.00),
			Items: []model.LineItem{{ProductID: "P00001", Name: "Cold Brew", Quantity: 1, UnitPrice: 3.00, Subtotal: 3.00}}},
		model.Order{OrderID: "ORD-2", StoreID: "S0001", CustomerID: ptr("C000002"), CreatedAt: day("2025-04-20"), Status: "completed", TotalAmount: ptr(4.50),
			Items: []model.LineItem{{ProductID: "P00002", Name: "Green Tea", Quantity: 1, UnitPrice: 4.50, Subtotal: 4.50}}},
		model.Order{OrderID: "ORD-3", StoreID: "S0001", CreatedAt: day("2025-08-01"), Status: "voided", Total: ptr(5.00),
			Items: []model.LineItem{{ProductID: "P00003", Name: "Bagel", Quantity: 2, UnitPrice: 2.50, Subtotal: 5.00}}},
		model.Order{OrderID: "ORD-4", StoreID: "S0002", CustomerID: ptr("C000001"), CreatedAt: day("2025-02-02"), Status: "refunded", Total: ptr(2.50),
			Items: []model.LineItem{{ProductID: "P00003", Name: "Bagel", Quantity: 1, UnitPrice: 2.50, Subtotal: 2.50}}},
	}))
	return NewServer(repo, zap.NewNop(), DefaultBasePath), repo
}

func do(t *testing.T, s *Server, req *http.Request, out interface{}) *http.Response {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp
}

func get(t *testing.T, s *Server, target string, out interface{}) *http.Response {
	return do(t, s, httptest.NewRequest(http.MethodGet, target, nil), out)
}

type errorBody struct {
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	var body map[string]string
	resp := get(t, s, "/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok", "db": "connected"}, body)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

type downRepository struct {
	query.Repository
}

func (downRepository) Ping(ctx context.Context) error { return errors.New("no reachable servers") }

func (downRepository) ListStores(ctx context.Context, f query.StoreFilter) ([]model.Store, error) {
	return nil, errors.New("connection refused")
}

func TestHealthReportsDisconnected(t *testing.T) {
	s := NewServer(downRepository{}, zap.NewNop(), DefaultBasePath)
	var body map[string]string
	resp := get(t, s, "/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "disconnected", body["db"])
}

func TestStoreErrorsAre500(t *testing.T) {
	s := NewServer(downRepository{}, zap.NewNop(), DefaultBasePath)
	var body errorBody
	resp := get(t, s, "/api/stores", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "connection refused", body.Error)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "lab-02")
	resp := do(t, s, req, nil)
	assert.Equal(t, "lab-02", resp.Header.Get(HeaderRequestID))
}

func TestListStores(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Count  int           `json:"count"`
		Stores []model.Store `json:"stores"`
	}
	resp := get(t, s, "/api/stores?limit=1", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "S0001", body.Stores[0].StoreID)
}

func TestListProductsByCategory(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Count    int             `json:"count"`
		Products []model.Product `json:"products"`
	}
	get(t, s, "/api/products?category=Beverages", &body)
	assert.Equal(t, 2, body.Count)
	for _, p := range body.Products {
		assert.Equal(t, "Beverages", p.Category)
	}

	get(t, s, "/api/products?category=Toys", &body)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Products)
}

func TestListCustomersByTier(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Count     int              `json:"count"`
		Customers []model.Customer `json:"customers"`
	}
	get(t, s, "/api/customers?loyaltyTier=Bronze", &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Lin", body.Customers[0].FirstName)
}

func TestInvalidLimitIs500(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{"/api/customers?limit=ten", "/api/products?limit=-1", "/api/products/top-sellers?limit=0"} {
		var body errorBody
		resp := get(t, s, target, &body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, target)
		assert.NotEmpty(t, body.Error, target)
	}
}

func TestCustomerHistory(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Customer   model.Customer `json:"customer"`
		OrderCount int            `json:"orderCount"`
		Orders     []model.Order  `json:"orders"`
	}
	resp := get(t, s, "/api/customers/C000001/history", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "C000001", body.Customer.CustomerID)
	require.Equal(t, 2, body.OrderCount)
	assert.Equal(t, "ORD-4", body.Orders[0].OrderID)
	assert.Equal(t, "ORD-1", body.Orders[1].OrderID)
	for _, o := range body.Orders {
		assert.True(t, o.HasCustomer("C000001"))
	}
}

func TestCustomerHistoryUnknownCustomer(t *testing.T) {
	s, _ := newTestServer(t)
	var body errorBody
	resp := get(t, s, "/api/customers/C999999/history", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Customer C999999 not found", body.Error)
}

type ordersBody struct {
	Count  int           `json:"count"`
	Orders []model.Order `json:"orders"`
}

func TestListOrdersByStoreAndRange(t *testing.T) {
	s, _ := newTestServer(t)
	var body ordersBody
	resp := get(t, s, "/api/orders?storeId=S0001&from=2025-01-01&to=2025-06-30", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "ORD-2", body.Orders[0].OrderID)
	assert.Equal(t, "ORD-1", body.Orders[1].OrderID)

	amount, ok := body.Orders[0].Amount()
	assert.True(t, ok)
	assert.Equal(t, 4.50, amount)
	assert.Nil(t, body.Orders[0].Total)
}

func TestListOrdersAcceptsRFC3339(t *testing.T) {
	s, _ := newTestServer(t)
	var body ordersBody
	get(t, s, "/api/orders?from=2025-02-01T00:00:00Z&to=2025-02-28T23:59:59Z", &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "ORD-4", body.Orders[0].OrderID)
}

func TestListOrdersInvalidDate(t *testing.T) {
	s, _ := newTestServer(t)
	var body errorBody
	resp := get(t, s, "/api/orders?from=last-tuesday", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body.Error, "last-tuesday")
}

func TestOrderSummary(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Summary []query.RevenueRow `json:"summary"`
	}
	resp := get(t, s, "/api/orders/summary", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Summary, 3)

	top := body.Summary[0]
	assert.Equal(t, query.RevenueKey{StoreID: "S0001", Category: "Beverages"}, top.ID)
	assert.InDelta(t, 7.50, top.TotalRevenue, 1e-9)
	assert.Equal(t, 2, top.TotalQuantity)
	assert.Equal(t, 2, top.OrderCount)
}

func TestTopSellers(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		TopSellers []query.TopSeller `json:"topSellers"`
	}
	get(t, s, "/api/products/top-sellers?limit=1", &body)
	require.Len(t, body.TopSellers, 1)
	assert.Equal(t, "P00003", body.TopSellers[0].ProductID)
	assert.Equal(t, "Bagel", body.TopSellers[0].ProductName)
	assert.Equal(t, 3, body.TopSellers[0].TotalQuantity)
	assert.Equal(t, 2, body.TopSellers[0].OrderCount)
}

func TestCreateOrderDefaultsStatus(t *testing.T) {
	s, repo := newTestServer(t)
	payload := `{"storeId":"S0002","customerId":"C000002","paymentMethod":"cash",
		"items":[{"productId":"P00001","name":"Cold Brew","quantity":2,"unitPrice":3,"subtotal":6}],
		"total":6,"createdAt":"2001-01-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	before := time.Now().Add(-time.Second)
	var body struct {
		InsertedID string      `json:"insertedId"`
		Order      model.Order `json:"order"`
	}
	resp := do(t, s, req, &body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, body.InsertedID, 24)
	assert.Equal(t, body.InsertedID, body.Order.ID.Hex())
	assert.Equal(t, model.DefaultOrderStatus, body.Order.Status)
	assert.True(t, body.Order.CreatedAt.After(before))

	orders, err := repo.CustomerOrders(context.Background(), "C000002", 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, body.InsertedID, orders[0].ID.Hex())
}

func TestCreateOrderKeepsStatus(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"storeId":"S0001","status":"voided","items":[]}`))
	req.Header.Set("Content-Type", "application/json")

	var body struct {
		Order model.Order `json:"order"`
	}
	resp := do(t, s, req, &body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "voided", body.Order.Status)
}

func TestCreateOrderMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"storeId":`))
	req.Header.Set("Content-Type", "application/json")

	var body errorBody
	resp := do(t, s, req, &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, body.Error)
}

func TestCustomBasePathAndUnknownRoute(t *testing.T) {
	repo := query.NewMemoryRepository()
	s := NewServer(repo, zap.NewNop(), "/v1")

	var body struct {
		Count int `json:"count"`
	}
	resp := get(t, s, "/v1/stores", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, body.Count)

	var notFound errorBody
	resp = get(t, s, "/api/stores", &notFound)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, notFound.Error)
}
