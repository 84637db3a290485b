package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "category_id", "name", "slug", "description", "price", "available", "image", "created_at",
	})
}

func TestGetProduct(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRows().
			AddRow(1, 2, "Keyboard", "keyboard", "A keyboard", 10.00, true, nil, time.Now()))

	p, err := store.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Name)
	assert.Equal(t, 10.00, p.Price)
	assert.Nil(t, p.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(productRows())

	_, err := store.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListProductsWithCategoryAndQuery(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE (.+) LIKE").
		WithArgs("peripherals", "%key%", "%key%").
		WillReturnRows(productRows().
			AddRow(1, 2, "Keyboard", "keyboard", "A keyboard", 10.00, true, nil, time.Now()))

	products, err := store.ListProducts(context.Background(), Filter{
		CategorySlug: "peripherals",
		Query:        "key",
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "keyboard", products[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProductsEmptyResultIsNotNil(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(productRows())

	products, err := store.ListProducts(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCreateCategoryGeneratesSlug(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Summer Sale!", "summer-sale").
		WillReturnResult(sqlmock.NewResult(3, 1))

	c, err := store.CreateCategory(context.Background(), "Summer Sale!")
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "summer-sale", c.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertReviewInsertsWhenNoneExists(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id FROM reviews").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.UpsertReview(context.Background(), 1, 7, 5, "great")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertReviewUpdatesExisting(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id FROM reviews").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec("UPDATE reviews SET").
		WithArgs(3, "okay", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpsertReview(context.Background(), 1, 7, 3, "okay")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
