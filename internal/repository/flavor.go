package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

const flavorColumns = "id, shape_id, name, price, created_at, updated_at"

// FlavorRepository реализует доступ к таблицам flavors и flavor_images
type FlavorRepository struct {
	db *sql.DB
}

// NewFlavorRepository создает новый репозиторий начинок
func NewFlavorRepository(db *sql.DB) *FlavorRepository {
	return &FlavorRepository{db: db}
}

// Create вставляет начинку вместе с её начальными изображениями в одной транзакции.
// Существование формы проверяет внешний ключ (нарушение — ErrConstraint)
func (r *FlavorRepository) Create(ctx context.Context, f *model.Flavor) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	query := `INSERT INTO flavors(id, shape_id, name, price)
		VALUES($1, $2, $3, $4) RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, f.ID, f.ShapeID, f.Name, f.Price).
		Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return wrapErr("insert flavor", err)
	}
	if err := insertImages(ctx, tx, "flavor_images", "flavor_id", f.Images); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID возвращает начинку по id вместе с изображениями
func (r *FlavorRepository) GetByID(ctx context.Context, id string) (*model.Flavor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flavorColumns+` FROM flavors WHERE id=$1`, id)
	var f model.Flavor
	err := row.Scan(&f.ID, &f.ShapeID, &f.Name, &f.Price, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flavor: %w", err)
	}
	if f.Images, err = listImages(ctx, r.db, "flavor_images", "flavor_id", id); err != nil {
		return nil, err
	}
	return &f, nil
}

// List возвращает страницу начинок по фильтрам и общее число совпадений
func (r *FlavorRepository) List(ctx context.Context, f *dto.FlavorFilter) ([]model.Flavor, int, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	if f.Name != nil {
		args = append(args, "%"+*f.Name+"%")
		where = append(where, fmt.Sprintf("name LIKE $%d", len(args)))
	}
	if f.ShapeID != nil {
		args = append(args, *f.ShapeID)
		where = append(where, fmt.Sprintf("shape_id = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flavors`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count flavors: %w", err)
	}
	pageQuery := `SELECT ` + flavorColumns + ` FROM flavors` + cond +
		fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select flavors list: %w", err)
	}
	defer rows.Close()
	flavors := make([]model.Flavor, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var fl model.Flavor
		if err := rows.Scan(&fl.ID, &fl.ShapeID, &fl.Name, &fl.Price, &fl.CreatedAt, &fl.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan flavor: %w", err)
		}
		fl.Images = make([]model.Image, 0)
		flavors = append(flavors, fl)
		ids = append(ids, fl.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read flavors list: %w", err)
	}
	byParent, err := imagesByParents(ctx, r.db, "flavor_images", "flavor_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range flavors {
		if imgs, ok := byParent[flavors[i].ID]; ok {
			flavors[i].Images = imgs
		}
	}
	return flavors, total, nil
}

// Update применяет частичное обновление начинки в одной транзакции
func (r *FlavorRepository) Update(ctx context.Context, id string, d *dto.UpdateFlavor, newImages []model.Image) (*model.Flavor, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	row := tx.QueryRowContext(ctx, `SELECT `+flavorColumns+` FROM flavors WHERE id=$1 FOR UPDATE`, id)
	var f model.Flavor
	err = row.Scan(&f.ID, &f.ShapeID, &f.Name, &f.Price, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select flavor for update: %w", err)
	}
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	if d.Name != nil {
		f.Name = *d.Name
		args = append(args, f.Name)
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if d.ShapeID != nil {
		f.ShapeID = *d.ShapeID
		args = append(args, f.ShapeID)
		set = append(set, fmt.Sprintf("shape_id=$%d", len(args)))
	}
	if d.Price != nil {
		f.Price = float64(*d.Price)
		args = append(args, f.Price)
		set = append(set, fmt.Sprintf("price=$%d", len(args)))
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	updateQuery := fmt.Sprintf(`UPDATE flavors SET %s WHERE id=$%d RETURNING updated_at`, strings.Join(set, ", "), len(args))
	if err := tx.QueryRowContext(ctx, updateQuery, args...).Scan(&f.UpdatedAt); err != nil {
		return nil, wrapErr("update flavor", err)
	}
	if err := insertImages(ctx, tx, "flavor_images", "flavor_id", newImages); err != nil {
		return nil, err
	}
	if err := deleteImages(ctx, tx, "flavor_images", "flavor_id", id, d.RemoveImageIDs); err != nil {
		return nil, err
	}
	if f.Images, err = listImages(ctx, tx, "flavor_images", "flavor_id", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &f, nil
}

// Delete удаляет начинку; изображения удаляет каскад внешнего ключа
func (r *FlavorRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	var existingID string
	row := tx.QueryRowContext(ctx, `SELECT id FROM flavors WHERE id=$1 FOR UPDATE`, id)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select flavor for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flavors WHERE id=$1`, id); err != nil {
		return wrapErr("delete flavor", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddImage добавляет изображение существующей начинке
func (r *FlavorRepository) AddImage(ctx context.Context, flavorID string, img *model.Image) error {
	var existingID string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM flavors WHERE id=$1`, flavorID).Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check flavor: %w", err)
	}
	imgs := []model.Image{*img}
	if err := insertImages(ctx, r.db, "flavor_images", "flavor_id", imgs); err != nil {
		return err
	}
	*img = imgs[0]
	return nil
}

// RemoveImage удаляет изображение начинки и возвращает актуальный список
func (r *FlavorRepository) RemoveImage(ctx context.Context, flavorID, imageID string) ([]model.Image, error) {
	if err := deleteImages(ctx, r.db, "flavor_images", "flavor_id", flavorID, []string{imageID}); err != nil {
		return nil, err
	}
	return listImages(ctx, r.db, "flavor_images", "flavor_id", flavorID)
}
