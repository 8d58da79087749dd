package repository

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
)

func (r *PGRepository) CreateImage(ctx context.Context, img *model.ProductImage) error {
	query := `
        INSERT INTO product_images (id, product_id, url, alt_text, position, is_primary, created_at)
        VALUES (:id, :product_id, :url, :alt_text, :position, :is_primary, :created_at)
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, img)
	return postgres.MapError(err)
}

func (r *PGRepository) FindImageByID(ctx context.Context, id string) (*model.ProductImage, error) {
	var img model.ProductImage
	err := postgres.Executor(ctx, r.DB).GetContext(ctx, &img, `SELECT * FROM product_images WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *PGRepository) UpdateImage(ctx context.Context, img *model.ProductImage) error {
	query := `
        UPDATE product_images
        SET url = :url,
            alt_text = :alt_text,
            position = :position,
            is_primary = :is_primary
        WHERE id = :id
    `
	_, err := postgres.Executor(ctx, r.DB).NamedExecContext(ctx, query, img)
	return postgres.MapError(err)
}

func (r *PGRepository) DeleteImage(ctx context.Context, id string) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, "DELETE FROM product_images WHERE id = $1", id)
	return postgres.MapError(err)
}

func (r *PGRepository) ListImages(ctx context.Context, productID string) ([]model.ProductImage, error) {
	var images []model.ProductImage
	query := `SELECT * FROM product_images WHERE product_id = $1 ORDER BY position ASC, created_at ASC`
	if err := postgres.Executor(ctx, r.DB).SelectContext(ctx, &images, query, productID); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *PGRepository) ClearPrimary(ctx context.Context, productID, exceptID string) error {
	query := `UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary`
	args := []interface{}{productID}
	if exceptID != "" {
		query += ` AND id != $2`
		args = append(args, exceptID)
	}
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, args...)
	return postgres.MapError(err)
}
