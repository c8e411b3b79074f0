package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/models"
)

func newMockOrderStore(t *testing.T) (*OrderStore, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewOrderStore(db), mock
}

func checkoutOrder() *models.Order {
	return &models.Order{
		ID:            "order-1",
		UserID:        "user-1",
		OrderNumber:   "ORD-TEST-1",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Items: []models.OrderItem{
			{ProductID: "prod-1", Name: "Brake Pads", Quantity: 2},
		},
	}
}

func TestCreateAbortsOnInsufficientStock(t *testing.T) {
	store, mock := newMockOrderStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`,`quantity` FROM `products`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity"}).AddRow("prod-1", 1))
	// One unit left, two requested: the guarded decrement touches no row.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET `quantity`=quantity - ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Create(context.Background(), checkoutOrder())
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "insufficient stock")

	// No order or item insert was attempted before the rollback.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAbortsOnUnknownProduct(t *testing.T) {
	store, mock := newMockOrderStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`,`quantity` FROM `products`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity"}))
	mock.ExpectRollback()

	err := store.Create(context.Background(), checkoutOrder())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDecrementsStockThenInsertsOrder(t *testing.T) {
	store, mock := newMockOrderStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`,`quantity` FROM `products`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity"}).AddRow("prod-1", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET `quantity`=quantity - ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `products` SET `status`=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `orders`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `order_items`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Create(context.Background(), checkoutOrder()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardsCurrentStatus(t *testing.T) {
	store, mock := newMockOrderStore(t)

	// The row moved on since our read: the conditional update misses,
	// and the follow-up existence check classifies it as a conflict.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `orders`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	err := store.UpdateStatus(context.Background(), "order-1",
		models.OrderStatusPending, models.OrderStatusProcessing)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
