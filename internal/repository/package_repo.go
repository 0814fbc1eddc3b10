package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cnqrstore/backend/internal/models"
)

type PackageRepo struct {
	pool *pgxpool.Pool
}

func NewPackageRepo(pool *pgxpool.Pool) *PackageRepo {
	return &PackageRepo{pool: pool}
}

const packageColumns = `id, name, description, credits, base_price, image_url,
	is_active, is_popular, is_best_value, sort_order, created_at, updated_at`

func scanPackage(row pgx.Row) (*models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Credits, &p.BasePrice,
		&p.ImageURL, &p.IsActive, &p.IsPopular, &p.IsBestValue, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// ListActive returns active packages in storefront display order.
func (r *PackageRepo) ListActive(ctx context.Context) ([]*models.Package, error) {
	return r.list(ctx, `
		SELECT `+packageColumns+`
		FROM credit_packages WHERE is_active ORDER BY sort_order, name
	`)
}

// ListAll returns every package, active or not (admin view).
func (r *PackageRepo) ListAll(ctx context.Context) ([]*models.Package, error) {
	return r.list(ctx, `
		SELECT `+packageColumns+`
		FROM credit_packages ORDER BY sort_order, name
	`)
}

func (r *PackageRepo) list(ctx context.Context, query string) ([]*models.Package, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PackageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	return scanPackage(r.pool.QueryRow(ctx, `
		SELECT `+packageColumns+`
		FROM credit_packages WHERE id = $1
	`, id))
}

func (r *PackageRepo) Create(ctx context.Context, p *models.Package) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO credit_packages
			(id, name, description, credits, base_price, image_url,
			 is_active, is_popular, is_best_value, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Credits, p.BasePrice, p.ImageURL,
		p.IsActive, p.IsPopular, p.IsBestValue, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PackageRepo) Update(ctx context.Context, p *models.Package) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_packages
		SET name = $2, description = $3, credits = $4, base_price = $5,
			image_url = $6, is_active = $7, is_popular = $8,
			is_best_value = $9, sort_order = $10, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Credits, p.BasePrice, p.ImageURL,
		p.IsActive, p.IsPopular, p.IsBestValue, p.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a package; transactions keep referencing it.
func (r *PackageRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_packages SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
