package workloads

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-workshop/internal/generator"
	"pos-workshop/internal/query"
	"pos-workshop/internal/runner"
)

func seededRepository(t *testing.T) *query.MemoryRepository {
	t.Helper()
	repo := query.NewMemoryRepository()
	counts := generator.Counts{Stores: 3, Products: 25, Customers: 40, Orders: 300}
	_, err := generator.Run(context.Background(), generator.New(42, generator.DefaultOptions()), repo, counts, 100, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func TestEveryWorkloadExecutes(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	for _, name := range Names() {
		w, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, w.Name())
		require.NoError(t, w.Setup(ctx, repo), name)
		for i := 0; i < 5; i++ {
			require.NoError(t, w.Execute(ctx, repo, rng), name)
		}
	}
}

func TestNamesRunWritesLast(t *testing.T) {
	names := Names()
	require.Len(t, names, len(registry))
	assert.Equal(t, "order_writes", names[len(names)-1])
	assert.Equal(t, []string{
		"customer_history",
		"orders_by_store",
		"products_by_category",
		"revenue_summary",
		"top_sellers",
	}, names[:len(names)-1])
}

func TestSetupNeedsData(t *testing.T) {
	repo := query.NewMemoryRepository()
	for _, w := range []runner.Workload{&OrdersByStore{}, &CustomerHistory{}, &ProductsByCategory{}, &OrderWrites{}} {
		assert.ErrorIs(t, w.Setup(context.Background(), repo), errNoData, w.Name())
	}
}

func TestOrderWritesBuildsConsistentOrders(t *testing.T) {
	repo := seededRepository(t)
	w := &OrderWrites{}
	require.NoError(t, w.Setup(context.Background(), repo))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		o := w.newOrder(rng)
		require.NotEmpty(t, o.Items)
		assert.LessOrEqual(t, len(o.Items), 3)

		var sum float64
		for _, item := range o.Items {
			assert.Equal(t, generator.Round2(item.UnitPrice*float64(item.Quantity)), item.Subtotal)
			sum += item.Subtotal
		}
		require.NotNil(t, o.Total)
		assert.Equal(t, generator.Round2(sum), *o.Total)
	}
}

func TestOrderWritesLandInRepository(t *testing.T) {
	repo := seededRepository(t)
	before, err := repo.ListOrders(context.Background(), query.OrderFilter{})
	require.NoError(t, err)

	w := &OrderWrites{}
	require.NoError(t, w.Setup(context.Background(), repo))
	require.NoError(t, w.Execute(context.Background(), repo, rand.New(rand.NewSource(3))))

	after, err := repo.ListOrders(context.Background(), query.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Contains(t, after[0].OrderID, "BENCH-")
}

func TestUnknownWorkload(t *testing.T) {
	_, err := New("full_table_scan")
	assert.EqualError(t, err, "unsupported workload: full_table_scan")
}

func TestRunnerReportsPercentilesForWorkload(t *testing.T) {
	repo := seededRepository(t)
	result, err := runner.Run(context.Background(), repo, &TopSellers{}, 2, 50*time.Millisecond, 1, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "top_sellers", result.Workload)
	assert.Positive(t, result.Operations)
	assert.Zero(t, result.Errors)
	assert.LessOrEqual(t, result.P50Latency, result.P99Latency)
}
