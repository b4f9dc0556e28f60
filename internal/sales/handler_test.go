package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodcost-backend/internal/audit"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	products map[uint]bool
	orders   map[uint]models.Order
	riders   map[uint]models.Rider
	next     uint

	lastFilter store.OrderFilter
}

func newMemStore(products ...uint) *memStore {
	m := &memStore{
		products: make(map[uint]bool),
		orders:   make(map[uint]models.Order),
		riders:   make(map[uint]models.Rider),
		next:     100,
	}
	for _, id := range products {
		m.products[id] = true
	}
	return m
}

func (m *memStore) CreateOrder(_ context.Context, o *models.Order) error {
	if !m.products[o.ProductID] {
		return fmt.Errorf("product %d: %w", o.ProductID, store.ErrMissingReference)
	}
	if o.RiderID != nil {
		if _, ok := m.riders[*o.RiderID]; !ok {
			return fmt.Errorf("rider %d: %w", *o.RiderID, store.ErrMissingReference)
		}
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}
	m.next++
	o.ID = m.next
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (m *memStore) DeleteOrder(_ context.Context, id uint) error {
	if _, ok := m.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memStore) ListOrders(_ context.Context, f store.OrderFilter) ([]models.Order, error) {
	m.lastFilter = f
	return nil, nil
}

func (m *memStore) CreateRider(_ context.Context, r *models.Rider) error {
	m.next++
	r.ID = m.next
	m.riders[r.ID] = *r
	return nil
}

func (m *memStore) GetRider(_ context.Context, id uint) (*models.Rider, error) {
	r, ok := m.riders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) UpdateRider(_ context.Context, id uint, name string, deliveryTime *float64) (*models.Rider, error) {
	r, ok := m.riders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Name, r.DeliveryTime = name, deliveryTime
	m.riders[id] = r
	return &r, nil
}

func (m *memStore) DeleteRider(_ context.Context, id uint) error {
	if _, ok := m.riders[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.riders, id)
	return nil
}

func (m *memStore) ListRiders(context.Context, store.Page) ([]models.Rider, error) {
	out := make([]models.Rider, 0, len(m.riders))
	for _, r := range m.riders {
		out = append(out, r)
	}
	return out, nil
}

type recordingAuditor struct {
	entries []audit.Entry
}

func (a *recordingAuditor) Record(_ *fiber.Ctx, e audit.Entry) {
	a.entries = append(a.entries, e)
}

func newTestApp(s Store, a Auditor) *fiber.App {
	h := NewHandler(s, a, zap.NewNop())

	app := fiber.New()
	app.Post("/orders", h.CreateOrder())
	app.Get("/orders", h.ListOrders())
	app.Get("/orders/:id", h.GetOrder())
	app.Delete("/orders/:id", h.DeleteOrder())

	app.Post("/riders", h.CreateRider())
	app.Get("/riders", h.ListRiders())
	app.Get("/riders/:id", h.GetRider())
	app.Put("/riders/:id", h.UpdateRider())
	app.Delete("/riders/:id", h.DeleteRider())
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateOrder(t *testing.T) {
	s := newMemStore(1)
	a := &recordingAuditor{}
	app := newTestApp(s, a)

	resp := do(t, app, http.MethodPost, "/orders", `{"product_id":1,"quantity":3,"price":24.5,"timestamp":"2024-03-01 19:30:00"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var o models.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	assert.Equal(t, time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC), o.Timestamp)
	assert.Nil(t, o.RiderID)
	require.Len(t, a.entries, 1)
	assert.Equal(t, audit.EntityOrder, a.entries[0].EntityType)

	resp = do(t, app, http.MethodPost, "/orders", `{"product_id":1,"quantity":1,"price":8}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	assert.False(t, o.Timestamp.IsZero())
}

func TestCreateOrder_Rejected(t *testing.T) {
	app := newTestApp(newMemStore(1), &recordingAuditor{})

	tests := []struct {
		name string
		body string
	}{
		{"zero quantity", `{"product_id":1,"quantity":0,"price":8}`},
		{"negative price", `{"product_id":1,"quantity":1,"price":-1}`},
		{"missing product", `{"quantity":1,"price":8}`},
		{"unknown product", `{"product_id":9,"quantity":1,"price":8}`},
		{"unknown rider", `{"product_id":1,"quantity":1,"price":8,"rider_id":4}`},
		{"bad timestamp", `{"product_id":1,"quantity":1,"price":8,"timestamp":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestListOrders_Filters(t *testing.T) {
	s := newMemStore()
	app := newTestApp(s, &recordingAuditor{})

	resp := do(t, app, http.MethodGet, "/orders?date_from=2024-01-01&date_to=2024-01-31T23:59:59Z&product_id=2&rider_id=5&limit=10", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	f := s.lastFilter
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, uint(2), *f.ProductID)
	assert.Equal(t, uint(5), *f.RiderID)
	assert.Equal(t, 10, f.Limit)

	resp = do(t, app, http.MethodGet, "/orders?date_from=2024-02-01&date_to=2024-01-01", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/orders?product_id=0", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteOrder_Missing(t *testing.T) {
	app := newTestApp(newMemStore(), &recordingAuditor{})

	resp := do(t, app, http.MethodDelete, "/orders/77", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRiderLifecycle(t *testing.T) {
	s := newMemStore(1)
	a := &recordingAuditor{}
	app := newTestApp(s, a)

	resp := do(t, app, http.MethodPost, "/riders", `{"name":"Luca","delivery_time":18.5}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var r models.Rider
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	require.NotNil(t, r.DeliveryTime)

	resp = do(t, app, http.MethodPost, "/orders", fmt.Sprintf(`{"product_id":1,"quantity":1,"price":8,"rider_id":%d}`, r.ID))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, app, http.MethodPut, fmt.Sprintf("/riders/%d", r.ID), `{"name":"Luca"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Nil(t, r.DeliveryTime)

	resp = do(t, app, http.MethodPost, "/riders", `{"name":"Marco","delivery_time":-2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, fmt.Sprintf("/riders/%d", r.ID), "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodGet, fmt.Sprintf("/riders/%d", r.ID), "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.Len(t, a.entries, 4)
	assert.Equal(t, models.AuditActionDelete, a.entries[3].Action)
}
