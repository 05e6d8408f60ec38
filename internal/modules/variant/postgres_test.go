package variant

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

var (
	clearDefaultSQL = regexp.QuoteMeta(`UPDATE product_variants SET is_default=false WHERE product_id=$1 AND id<>$2 AND is_default`)
	setDefaultSQL   = regexp.QuoteMeta(`UPDATE product_variants SET is_default=true, updated_at=$3 WHERE id=$1 AND product_id=$2`)
	updateSQL       = regexp.QuoteMeta(`UPDATE product_variants SET sku=`)
	insertSQL       = regexp.QuoteMeta(`INSERT INTO product_variants`)
	deleteSQL       = regexp.QuoteMeta(`DELETE FROM product_variants WHERE id=$1 RETURNING product_id, is_default`)
	promoteSQL      = regexp.QuoteMeta(`UPDATE product_variants SET is_default=true WHERE id = ( SELECT id FROM product_variants WHERE product_id=$1 ORDER BY created_at, sku LIMIT 1 )`)
)

func TestPostgresSetDefault(t *testing.T) {
	productID, id := uuid.New(), uuid.New()

	t.Run("ClearsSiblingsBeforeSetting", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(clearDefaultSQL).
			WithArgs(productID.String(), id.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(setDefaultSQL).
			WithArgs(id.String(), productID.String(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SetDefault(context.Background(), productID, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownVariantRollsBack", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(clearDefaultSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(setDefaultSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SetDefault(context.Background(), productID, id)
		require.ErrorIs(t, err, ErrVariantNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUpdate(t *testing.T) {
	v := &Variant{ID: uuid.New(), ProductID: uuid.New(), SKU: "CLA-RED-S", Images: pq.StringArray{}, UpdatedAt: time.Now()}

	t.Run("DefaultClearsSiblings", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		v.IsDefault = true
		mock.ExpectBegin()
		mock.ExpectExec(clearDefaultSQL).
			WithArgs(v.ProductID.String(), v.ID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(context.Background(), v))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonDefaultLeavesSiblings", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		v.IsDefault = false
		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(context.Background(), v))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDelete(t *testing.T) {
	productID, id := uuid.New(), uuid.New()

	t.Run("DefaultPromotesOldestSibling", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(deleteSQL).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "is_default"}).AddRow(productID.String(), true))
		mock.ExpectExec(promoteSQL).
			WithArgs(productID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonDefaultSkipsPromotion", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(deleteSQL).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "is_default"}).AddRow(productID.String(), false))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(deleteSQL).WillReturnRows(sqlmock.NewRows([]string{"product_id", "is_default"}))
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Delete(context.Background(), id), ErrVariantNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCreateBatch(t *testing.T) {
	productID := uuid.New()
	batch := []*Variant{
		{ID: uuid.New(), ProductID: productID, SKU: "CLA-RED-S", IsDefault: true, Attributes: Attributes{"Size": "S"}, Images: pq.StringArray{}},
		{ID: uuid.New(), ProductID: productID, SKU: "CLA-RED-M", Attributes: Attributes{"Size": "M"}, Images: pq.StringArray{}},
	}

	t.Run("OneTransaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(insertSQL)
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateBatch(context.Background(), batch))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateRollsBackEverything", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(insertSQL)
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
		mock.ExpectRollback()

		err := repo.CreateBatch(context.Background(), batch)
		require.ErrorIs(t, err, ErrVariantExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyIsNoop", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		require.NoError(t, repo.CreateBatch(context.Background(), nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
