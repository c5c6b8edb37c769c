package services

import (
	"context"
	"testing"
	"time"

	"tableside-backend/models"
	"tableside-backend/testutil"
)

type testEnv struct {
	f          *testutil.Fixture
	audit      *AuditService
	menu       *MenuService
	orders     *OrderService
	seats      *SeatService
	selections *SelectionService
	catalog    *CatalogService
	tickets    *TicketService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	audit := NewAuditService(db)
	menu := NewMenuService(db)
	return &testEnv{
		f:          f,
		audit:      audit,
		menu:       menu,
		orders:     NewOrderService(db, audit, menu),
		seats:      NewSeatService(db, audit),
		selections: NewSelectionService(db, audit),
		catalog:    NewCatalogService(db),
		tickets:    NewTicketService(db, audit),
	}
}

func intPtr(i int) *int { return &i }

func mustSpec(t *testing.T, start, end, count *int) SeatSpec {
	t.Helper()
	spec, err := ParseSeatSpec(start, end, count)
	if err != nil {
		t.Fatalf("ParseSeatSpec: %v", err)
	}
	return spec
}

// startOrder opens an order on the fixture table with count seats.
func (e *testEnv) startOrder(t *testing.T, count int) *models.Order {
	t.Helper()
	order, err := e.orders.StartOrder(context.Background(), e.f.Table.ID, e.f.Staff.ID, mustSpec(t, nil, nil, intPtr(count)))
	if err != nil {
		t.Fatalf("StartOrder: %v", err)
	}
	return order
}

// rawOrder inserts an open order with exactly the given seat labels.
func (e *testEnv) rawOrder(t *testing.T, table models.Table, labels ...string) *models.Order {
	t.Helper()
	order := models.Order{TableID: table.ID, OpenedAt: time.Now().UTC(), OpenTableID: &table.ID}
	if err := e.f.DB.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	for _, l := range labels {
		seat := models.Seat{OrderID: order.ID, Label: l}
		if err := e.f.DB.Create(&seat).Error; err != nil {
			t.Fatalf("create seat %q: %v", l, err)
		}
		order.Seats = append(order.Seats, seat)
	}
	return &order
}

func (e *testEnv) seatLabels(t *testing.T, orderID uint) []string {
	t.Helper()
	var labels []string
	if err := e.f.DB.Model(&models.Seat{}).Where("order_id = ?", orderID).Pluck("label", &labels).Error; err != nil {
		t.Fatalf("pluck labels: %v", err)
	}
	SortLabels(labels)
	return labels
}

func (e *testEnv) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := e.f.DB.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func (e *testEnv) lastAction(t *testing.T) string {
	t.Helper()
	var entry models.StaffLog
	if err := e.f.DB.Order("id DESC").First(&entry).Error; err != nil {
		t.Fatalf("no audit entry: %v", err)
	}
	return entry.Action
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
