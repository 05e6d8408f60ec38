package variant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/vendorhub-backend/internal/database"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const variantColumns = `id, product_id, attributes, sku, purchase_price, selling_price, mrp, gst,
	inventory_quantity, is_default, images, image_url, created_at, updated_at`

const insertVariant = `
	INSERT INTO product_variants (` + variantColumns + `)
	VALUES (:id, :product_id, :attributes, :sku, :purchase_price, :selling_price, :mrp, :gst,
	        :inventory_quantity, :is_default, :images, :image_url, :created_at, :updated_at)`

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Variant, error) {
	variants := []*Variant{}
	err := r.db.SelectContext(ctx, &variants, `
		SELECT `+variantColumns+` FROM product_variants
		WHERE product_id=$1
		ORDER BY is_default DESC, created_at, sku`, productID)
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Variant, error) {
	v := &Variant{}
	err := r.db.GetContext(ctx, v, `SELECT `+variantColumns+` FROM product_variants WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresRepo) Create(ctx context.Context, v *Variant) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if v.IsDefault {
			if err := clearDefault(ctx, tx, v.ProductID, v.ID); err != nil {
				return err
			}
		}
		_, err := tx.NamedExecContext(ctx, insertVariant, v)
		return mapWriteErr(err)
	})
}

func (r *postgresRepo) CreateBatch(ctx context.Context, variants []*Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, insertVariant)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, v := range variants {
			if _, err := stmt.ExecContext(ctx, v); err != nil {
				return fmt.Errorf("insert %s: %w", v.SKU, mapWriteErr(err))
			}
		}
		return nil
	})
}

func (r *postgresRepo) Update(ctx context.Context, v *Variant) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if v.IsDefault {
			if err := clearDefault(ctx, tx, v.ProductID, v.ID); err != nil {
				return err
			}
		}
		res, err := tx.NamedExecContext(ctx, `
			UPDATE product_variants
			SET sku=:sku, purchase_price=:purchase_price, selling_price=:selling_price, mrp=:mrp, gst=:gst,
			    inventory_quantity=:inventory_quantity, is_default=:is_default, images=:images,
			    image_url=:image_url, updated_at=:updated_at
			WHERE id=:id`, v)
		if err != nil {
			return mapWriteErr(err)
		}
		return expectRow(res)
	})
}

func (r *postgresRepo) SetDefault(ctx context.Context, productID, id uuid.UUID) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := clearDefault(ctx, tx, productID, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE product_variants SET is_default=true, updated_at=$3
			WHERE id=$1 AND product_id=$2`, id, productID, time.Now().UTC())
		if err != nil {
			return err
		}
		return expectRow(res)
	})
}

func (r *postgresRepo) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE product_variants SET inventory_quantity=$2, updated_at=$3 WHERE id=$1`,
		id, quantity, time.Now().UTC())
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var deleted struct {
			ProductID uuid.UUID `db:"product_id"`
			IsDefault bool      `db:"is_default"`
		}
		err := tx.GetContext(ctx, &deleted, `
			DELETE FROM product_variants WHERE id=$1 RETURNING product_id, is_default`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVariantNotFound
			}
			return err
		}
		if !deleted.IsDefault {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE product_variants SET is_default=true
			WHERE id = (
				SELECT id FROM product_variants WHERE product_id=$1
				ORDER BY created_at, sku LIMIT 1
			)`, deleted.ProductID)
		return err
	})
}

func (r *postgresRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func clearDefault(ctx context.Context, tx *sqlx.Tx, productID, keep uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE product_variants SET is_default=false
		WHERE product_id=$1 AND id<>$2 AND is_default`, productID, keep)
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if database.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrVariantExists, err)
	}
	return err
}
