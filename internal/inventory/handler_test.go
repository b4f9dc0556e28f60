package inventory

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
	ingredients map[uint]bool
	movements   []models.InventoryMovement
}

func (m *memStore) CreateInventoryMovement(_ context.Context, mv *models.InventoryMovement) error {
	if !m.ingredients[mv.IngredientID] {
		return fmt.Errorf("ingredient %d: %w", mv.IngredientID, store.ErrMissingReference)
	}
	if mv.Timestamp.IsZero() {
		mv.Timestamp = time.Now().UTC()
	}
	mv.ID = uint(len(m.movements) + 1)
	m.movements = append(m.movements, *mv)
	return nil
}

func (m *memStore) GetInventoryMovement(_ context.Context, id uint) (*models.InventoryMovement, error) {
	for _, mv := range m.movements {
		if mv.ID == id {
			return &mv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) DeleteInventoryMovement(_ context.Context, id uint) error {
	for i, mv := range m.movements {
		if mv.ID == id {
			m.movements = append(m.movements[:i], m.movements[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) ListInventoryMovements(context.Context, store.Page) ([]models.InventoryMovement, error) {
	return m.movements, nil
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
	app.Post("/inventory", h.CreateMovement())
	app.Get("/inventory", h.ListMovements())
	app.Delete("/inventory/:id", h.DeleteMovement())
	return app
}

func post(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateMovement(t *testing.T) {
	s := &memStore{ingredients: map[uint]bool{3: true}}
	a := &recordingAuditor{}
	app := newTestApp(s, a)

	resp := post(t, app, `{"ingredient_id":3,"quantity":12.5,"movement_type":" CARICO ","timestamp":"2024-05-02"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var m models.InventoryMovement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, models.MovementCarico, m.MovementType)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), m.Timestamp)
	require.Len(t, a.entries, 1)
	assert.Equal(t, audit.EntityInventoryMovement, a.entries[0].EntityType)
}

func TestCreateMovement_Rejected(t *testing.T) {
	app := newTestApp(&memStore{ingredients: map[uint]bool{3: true}}, &recordingAuditor{})

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"ingredient_id":3,"quantity":1,"movement_type":"transfer"}`},
		{"zero quantity", `{"ingredient_id":3,"quantity":0,"movement_type":"scarico"}`},
		{"missing ingredient", `{"quantity":1,"movement_type":"scarico"}`},
		{"unknown ingredient", `{"ingredient_id":8,"quantity":1,"movement_type":"scarico"}`},
		{"bad timestamp", `{"ingredient_id":3,"quantity":1,"movement_type":"scarico","timestamp":"02/05/2024"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, post(t, app, tt.body).StatusCode)
		})
	}
}

func TestListAndDeleteMovement(t *testing.T) {
	s := &memStore{ingredients: map[uint]bool{3: true}}
	a := &recordingAuditor{}
	app := newTestApp(s, a)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/inventory", nil))
	require.NoError(t, err)
	var list []models.InventoryMovement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list)
	assert.NotNil(t, list)

	require.Equal(t, fiber.StatusCreated, post(t, app, `{"ingredient_id":3,"quantity":2,"movement_type":"scarico"}`).StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/inventory/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/inventory/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.Len(t, a.entries, 2)
	assert.Equal(t, models.AuditActionDelete, a.entries[1].Action)
}
