package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-menu-service/internal/domain"
)

const (
	productSelect  = `SELECT t.id, t.categoria_id, t.nombre, t.descripcion, t.precio, t.disponible, t.created_at, t.updated_at, j0.nombre AS categoria FROM productos t LEFT JOIN categorias j0 ON j0.id = t.categoria_id`
	categorySelect = `SELECT t.id, t.nombre, t.created_at, t.updated_at FROM categorias t`
)

var productColumns = []string{"id", "categoria_id", "nombre", "descripcion", "precio", "disponible", "created_at", "updated_at", "categoria"}

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

func TestPostgresStore_List_NewestFirst(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	rows := sqlmock.NewRows([]string{"id", "nombre", "created_at", "updated_at"}).
		AddRow(int64(2), []byte("Bebidas"), now, now).
		AddRow(int64(1), []byte("Hamburguesas"), now, now)

	mock.ExpectQuery(regexp.QuoteMeta(categorySelect + ` ORDER BY t.id DESC`)).WillReturnRows(rows)

	got, err := store.List(context.Background(), domain.Categories)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0]["id"])
	assert.Equal(t, "Bebidas", got[0]["nombre"], "text columns should be strings")
	assert.Equal(t, int64(1), got[1]["id"])

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_List_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(categorySelect + ` ORDER BY t.id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "created_at", "updated_at"}))

	got, err := store.List(context.Background(), domain.Categories)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_QueryError(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(categorySelect + ` ORDER BY t.id DESC`)).WillReturnError(dbErr)

	got, err := store.List(context.Background(), domain.Categories)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetByID_Found(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	rows := sqlmock.NewRows(productColumns).
		AddRow(int64(1), int64(1), []byte("Cheeseburger"), nil, []byte("45.50"), int64(1), now, now, []byte("Hamburguesas"))

	mock.ExpectQuery(regexp.QuoteMeta(productSelect + ` WHERE t.id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := store.GetByID(context.Background(), domain.Products, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cheeseburger", got["nombre"])
	assert.Equal(t, "Hamburguesas", got["categoria"])
	assert.Equal(t, "45.50", got["precio"])
	assert.Nil(t, got["descripcion"])
	assert.Equal(t, int64(1), got["disponible"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productSelect + ` WHERE t.id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(productColumns))

	got, err := store.GetByID(context.Background(), domain.Products, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "Error should be ErrNotFound")
	assert.Nil(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	values := []domain.Value{
		{Column: "categoria_id", Value: int64(1)},
		{Column: "nombre", Value: "Cheeseburger"},
		{Column: "precio", Value: decimal.RequireFromString("45.5")},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO productos (categoria_id, nombre, precio) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs(int64(1), "Cheeseburger", "45.5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.Create(context.Background(), domain.Products, values)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_ForeignKeyViolation(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	values := []domain.Value{
		{Column: "categoria_id", Value: int64(42)},
		{Column: "nombre", Value: "Orphan"},
		{Column: "precio", Value: decimal.NewFromInt(10)},
	}

	pqErr := &pq.Error{Code: "23503", Constraint: "productos_categoria_id_fkey"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO productos (categoria_id, nombre, precio) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs(int64(42), "Orphan", "10").
		WillReturnError(pqErr)

	id, err := store.Create(context.Background(), domain.Products, values)
	require.Error(t, err)
	assert.Zero(t, id)
	assert.False(t, errors.Is(err, ErrReferenced), "FK violations on write are plain storage failures")
	assert.False(t, errors.Is(err, ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_RejectsUnknownColumn(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	_, err := store.Create(context.Background(), domain.Categories, []domain.Value{{Column: "id", Value: int64(5)}})
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet(), "no statement should reach the database")
}

func TestPostgresStore_Update_OnlyGivenColumns(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE productos SET disponible = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`)).
		WithArgs(int64(0), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), domain.Products, 1, []domain.Value{{Column: "disponible", Value: int64(0)}})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE categorias SET nombre = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`)).
		WithArgs("Postres", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), domain.Categories, 99, []domain.Value{{Column: "nombre", Value: "Postres"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "Error should be ErrNotFound")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM productos WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), domain.Products, 1)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ingredientes WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), domain.Ingredients, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "Error should be ErrNotFound")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete_Referenced(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	pqErr := &pq.Error{Code: "23503", Constraint: "productos_categoria_id_fkey"}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categorias WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnError(pqErr)

	err := store.Delete(context.Background(), domain.Categories, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenced), "Error should be ErrReferenced")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(int64(1)))
	require.NoError(t, store.Ping(context.Background()))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).WillReturnError(sql.ErrConnDone)
	err := store.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)

	require.NoError(t, mock.ExpectationsWereMet())
}
