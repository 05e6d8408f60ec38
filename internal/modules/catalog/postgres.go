package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, vendor_id, name, description, category, sku, currency,
	purchase_price, selling_price, mrp, gst, image_url, is_active, created_at, updated_at`

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :vendor_id, :name, :description, :category, :sku, :currency,
		        :purchase_price, :selling_price, :mrp, :gst, :image_url, :is_active, :created_at, :updated_at)`, p)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p := &Product{}
	err := r.db.GetContext(ctx, p, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, vendorID uuid.UUID, category string, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_id=$1`
	args := []interface{}{vendorID}
	n := 2
	if category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, category)
		n++
	}
	if activeOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	products := []*Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE products
		SET name=:name, description=:description, category=:category, sku=:sku, currency=:currency,
		    purchase_price=:purchase_price, selling_price=:selling_price, mrp=:mrp, gst=:gst,
		    image_url=:image_url, is_active=:is_active, updated_at=:updated_at
		WHERE id=:id AND vendor_id=:vendor_id`, p)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
