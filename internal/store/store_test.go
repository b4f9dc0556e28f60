package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodcost-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return New(db), mock
}

func TestCreateIngredient(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "ingredients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	ing := &models.Ingredient{Name: "mozzarella", UnitCost: 7.2}
	require.NoError(t, s.CreateIngredient(context.Background(), ing))
	assert.Equal(t, uint(7), ing.ID)
}

func TestCreateIngredient_Duplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "ingredients"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := s.CreateIngredient(context.Background(), &models.Ingredient{Name: "mozzarella"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetIngredient_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "ingredients" WHERE "ingredients"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "unit_cost"}))

	_, err := s.GetIngredient(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListIngredients_Filters(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "ingredients" WHERE name ILIKE .* AND unit_cost >= .* ORDER BY name asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "unit_cost"}).
			AddRow(3, "mozzarella", 7.2).
			AddRow(5, "mozzarella di bufala", 11.5))

	min := 5.0
	got, err := s.ListIngredients(context.Background(), IngredientFilter{NameContains: "mozz", CostMin: &min})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mozzarella di bufala", got[1].Name)
	assert.Equal(t, 11.5, got[1].UnitCost)
}

func TestCreateOrder_DefaultsTimestamp(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	o := &models.Order{ProductID: 2, Quantity: 3, Price: 24}
	before := time.Now().UTC()
	require.NoError(t, s.CreateOrder(context.Background(), o))

	assert.Equal(t, uint(1), o.ID)
	assert.False(t, o.Timestamp.Before(before))
}

func TestCreateOrder_MissingRider(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "riders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rider := uint(12)
	err := s.CreateOrder(context.Background(), &models.Order{ProductID: 2, Quantity: 1, Price: 8, RiderID: &rider})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestOrderTotalsByProduct(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT product_id, SUM\(price\) AS total_price, SUM\(quantity\) AS total_quantity FROM "orders" GROUP BY .*product_id.* ORDER BY product_id asc`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "total_price", "total_quantity"}).
			AddRow(1, 100.0, 20).
			AddRow(2, 13.5, 0))

	got, err := s.OrderTotalsByProduct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ProductOrderTotals{
		{ProductID: 1, TotalPrice: 100, TotalQuantity: 20},
		{ProductID: 2, TotalPrice: 13.5, TotalQuantity: 0},
	}, got)
}

func TestDeleteOrder_Missing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "orders"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteOrder(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRider(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "riders"`).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.DeleteRider(context.Background(), 4))
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	boom := errors.New("bad row")
	err := s.Transaction(context.Background(), func(tx *Store) error {
		if err := tx.CreateProduct(context.Background(), &models.Product{Name: "margherita"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSnapshot_ReadsInOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "recipes" ORDER BY id asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "ingredient_id", "quantity"}).
			AddRow(1, 10, 1, 2.0))
	mock.ExpectQuery(`SELECT \* FROM "riders" ORDER BY id asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "delivery_time"}).
			AddRow(7, "A", nil))
	mock.ExpectCommit()

	var (
		recipes []models.Recipe
		riders  []models.Rider
	)
	err := s.Snapshot(context.Background(), func(tx *Store) error {
		var err error
		if recipes, err = tx.AllRecipes(context.Background()); err != nil {
			return err
		}
		riders, err = tx.AllRiders(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
	require.Len(t, riders, 1)
	assert.Nil(t, riders[0].DeliveryTime)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Skip: 0, Limit: DefaultLimit}, Page{Skip: -3}.Normalize())
	assert.Equal(t, Page{Skip: 10, Limit: MaxLimit}, Page{Skip: 10, Limit: 5000}.Normalize())
	assert.Equal(t, Page{Skip: 1, Limit: 20}, Page{Skip: 1, Limit: 20}.Normalize())
}
