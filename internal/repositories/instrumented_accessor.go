package repositories

import (
	"context"
	"time"

	"menusvc/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menusvc_store_operations_total",
			Help: "Menu item store operations by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menusvc_store_operation_duration_seconds",
			Help:    "Menu item store operation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// InstrumentedAccessor records a counter and a latency histogram per operation.
type InstrumentedAccessor struct {
	next MenuItemAccessor
}

// Instrument wraps accessor with Prometheus metrics.
func Instrument(accessor MenuItemAccessor) *InstrumentedAccessor {
	return &InstrumentedAccessor{next: accessor}
}

func observe(op string, start time.Time, err error) {
	storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeOperations.WithLabelValues(op, outcome).Inc()
}

func (a *InstrumentedAccessor) GetAllItems(ctx context.Context) ([]models.MenuItem, error) {
	start := time.Now()
	items, err := a.next.GetAllItems(ctx)
	observe("getAllItems", start, err)
	return items, err
}

func (a *InstrumentedAccessor) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	start := time.Now()
	item, err := a.next.GetItemByID(ctx, id)
	observe("getItemByID", start, err)
	return item, err
}

func (a *InstrumentedAccessor) ItemExists(ctx context.Context, item *models.MenuItem) (bool, error) {
	start := time.Now()
	ok, err := a.next.ItemExists(ctx, item)
	observe("itemExists", start, err)
	return ok, err
}

func (a *InstrumentedAccessor) AddItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	start := time.Now()
	ok, err := a.next.AddItem(ctx, item)
	observe("addItem", start, err)
	return ok, err
}

func (a *InstrumentedAccessor) UpdateItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	start := time.Now()
	ok, err := a.next.UpdateItem(ctx, item)
	observe("updateItem", start, err)
	return ok, err
}

func (a *InstrumentedAccessor) DeleteItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	start := time.Now()
	ok, err := a.next.DeleteItem(ctx, item)
	observe("deleteItem", start, err)
	return ok, err
}
