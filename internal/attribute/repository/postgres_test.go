package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestUpsertProductAttribute_ReturnsStoredRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`ON CONFLICT \(product_id, attribute_type_id\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "attribute_type_id", "value", "numeric_value", "date_value", "boolean_value", "created_at", "updated_at",
		}).AddRow("pa-existing", "p-1", "t-1", "295.5", "295.5", nil, nil, now.Add(-time.Hour), now))

	pa := &model.ProductAttribute{
		BaseModel:       model.BaseModel{ID: "pa-new", CreatedAt: now, UpdatedAt: now},
		ProductID:       "p-1",
		AttributeTypeID: "t-1",
		Value:           "295.5",
		NumericValue:    decimal.NewNullDecimal(decimal.RequireFromString("295.5")),
	}
	require.NoError(t, repo.UpsertProductAttribute(context.Background(), pa))
	assert.Equal(t, "pa-existing", pa.ID)
	assert.True(t, pa.NumericValue.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTypesByCategory_AllowedValues(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM attribute_types WHERE attribute_category_id = \$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "data_type", "allowed_values"}).
			AddRow("t-1", "OS", "select", "{Android,iOS}"))

	types, err := repo.ListTypesByCategory(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, model.KindSelect, types[0].DataType)
	assert.Equal(t, []string{"Android", "iOS"}, []string(types[0].AllowedValues))
}

func TestFindTypeLocks(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM attribute_types WHERE id = \$1 FOR SHARE`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "data_type"}).AddRow("t-1", "Weight", "numeric"))
	mock.ExpectQuery(`SELECT \* FROM attribute_types WHERE id = \$1 FOR UPDATE`).
		WithArgs("t-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "data_type"}))

	shared, err := repo.FindTypeForShare(context.Background(), "t-1")
	require.NoError(t, err)
	require.NotNil(t, shared)
	assert.Equal(t, "Weight", shared.Name)

	missing, err := repo.FindTypeForUpdate(context.Background(), "t-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}
