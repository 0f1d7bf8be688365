package workloads

import (
	"fmt"
	"sort"

	"pos-workshop/internal/runner"
)

var registry = map[string]func() runner.Workload{
	"orders_by_store":      func() runner.Workload { return &OrdersByStore{} },
	"customer_history":     func() runner.Workload { return &CustomerHistory{} },
	"products_by_category": func() runner.Workload { return &ProductsByCategory{} },
	"revenue_summary":      func() runner.Workload { return RevenueSummary{} },
	"top_sellers":          func() runner.Workload { return &TopSellers{} },
	"order_writes":         func() runner.Workload { return &OrderWrites{} },
}

// New returns a fresh workload by name.
func New(name string) (runner.Workload, error) {
	newWorkload, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported workload: %s", name)
	}
	return newWorkload(), nil
}

// mutating workloads insert orders that would skew every read workload
// measured after them.
var mutating = map[string]bool{
	"order_writes": true,
}

// Names lists the read workloads in order, then the mutating ones, which is
// the order `bench --workload all` runs them in.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if mutating[names[i]] != mutating[names[j]] {
			return !mutating[names[i]]
		}
		return names[i] < names[j]
	})
	return names
}
