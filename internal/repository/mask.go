package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

const maskColumns = "id, shape_id, flavor_id, name, price, created_at, updated_at"

// MaskRepository реализует доступ к таблицам masks и mask_images
type MaskRepository struct {
	db *sql.DB
}

// NewMaskRepository создает новый репозиторий оформлений
func NewMaskRepository(db *sql.DB) *MaskRepository {
	return &MaskRepository{db: db}
}

// Create вставляет оформление вместе с его начальными изображениями в одной транзакции
func (r *MaskRepository) Create(ctx context.Context, m *model.Mask) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	query := `INSERT INTO masks(id, shape_id, flavor_id, name, price)
		VALUES($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, m.ID, m.ShapeID, m.FlavorID, m.Name, m.Price).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return wrapErr("insert mask", err)
	}
	if err := insertImages(ctx, tx, "mask_images", "mask_id", m.Images); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID возвращает оформление по id вместе с изображениями
func (r *MaskRepository) GetByID(ctx context.Context, id string) (*model.Mask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+maskColumns+` FROM masks WHERE id=$1`, id)
	var m model.Mask
	err := row.Scan(&m.ID, &m.ShapeID, &m.FlavorID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mask: %w", err)
	}
	if m.Images, err = listImages(ctx, r.db, "mask_images", "mask_id", id); err != nil {
		return nil, err
	}
	return &m, nil
}

// List возвращает страницу оформлений по фильтрам и общее число совпадений
func (r *MaskRepository) List(ctx context.Context, f *dto.MaskFilter) ([]model.Mask, int, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 7)
	if f.Name != nil {
		args = append(args, "%"+*f.Name+"%")
		where = append(where, fmt.Sprintf("name LIKE $%d", len(args)))
	}
	if f.ShapeID != nil {
		args = append(args, *f.ShapeID)
		where = append(where, fmt.Sprintf("shape_id = $%d", len(args)))
	}
	if f.FlavorID != nil {
		args = append(args, *f.FlavorID)
		where = append(where, fmt.Sprintf("flavor_id = $%d", len(args)))
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM masks`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count masks: %w", err)
	}
	pageQuery := `SELECT ` + maskColumns + ` FROM masks` + cond +
		fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select masks list: %w", err)
	}
	defer rows.Close()
	masks := make([]model.Mask, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var m model.Mask
		if err := rows.Scan(&m.ID, &m.ShapeID, &m.FlavorID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan mask: %w", err)
		}
		m.Images = make([]model.Image, 0)
		masks = append(masks, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read masks list: %w", err)
	}
	byParent, err := imagesByParents(ctx, r.db, "mask_images", "mask_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range masks {
		if imgs, ok := byParent[masks[i].ID]; ok {
			masks[i].Images = imgs
		}
	}
	return masks, total, nil
}

// Update применяет частичное обновление оформления в одной транзакции
func (r *MaskRepository) Update(ctx context.Context, id string, d *dto.UpdateMask, newImages []model.Image) (*model.Mask, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	row := tx.QueryRowContext(ctx, `SELECT `+maskColumns+` FROM masks WHERE id=$1 FOR UPDATE`, id)
	var m model.Mask
	err = row.Scan(&m.ID, &m.ShapeID, &m.FlavorID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select mask for update: %w", err)
	}
	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	if d.Name != nil {
		m.Name = *d.Name
		args = append(args, m.Name)
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if d.ShapeID != nil {
		m.ShapeID = *d.ShapeID
		args = append(args, m.ShapeID)
		set = append(set, fmt.Sprintf("shape_id=$%d", len(args)))
	}
	if d.FlavorID != nil {
		m.FlavorID = *d.FlavorID
		args = append(args, m.FlavorID)
		set = append(set, fmt.Sprintf("flavor_id=$%d", len(args)))
	}
	if d.Price != nil {
		m.Price = float64(*d.Price)
		args = append(args, m.Price)
		set = append(set, fmt.Sprintf("price=$%d", len(args)))
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	updateQuery := fmt.Sprintf(`UPDATE masks SET %s WHERE id=$%d RETURNING updated_at`, strings.Join(set, ", "), len(args))
	if err := tx.QueryRowContext(ctx, updateQuery, args...).Scan(&m.UpdatedAt); err != nil {
		return nil, wrapErr("update mask", err)
	}
	if err := insertImages(ctx, tx, "mask_images", "mask_id", newImages); err != nil {
		return nil, err
	}
	if err := deleteImages(ctx, tx, "mask_images", "mask_id", id, d.RemoveImageIDs); err != nil {
		return nil, err
	}
	if m.Images, err = listImages(ctx, tx, "mask_images", "mask_id", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &m, nil
}

// Delete удаляет оформление; изображения удаляет каскад внешнего ключа
func (r *MaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	var existingID string
	row := tx.QueryRowContext(ctx, `SELECT id FROM masks WHERE id=$1 FOR UPDATE`, id)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select mask for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM masks WHERE id=$1`, id); err != nil {
		return wrapErr("delete mask", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddImage добавляет изображение существующему оформлению
func (r *MaskRepository) AddImage(ctx context.Context, maskID string, img *model.Image) error {
	var existingID string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM masks WHERE id=$1`, maskID).Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check mask: %w", err)
	}
	imgs := []model.Image{*img}
	if err := insertImages(ctx, r.db, "mask_images", "mask_id", imgs); err != nil {
		return err
	}
	*img = imgs[0]
	return nil
}

// RemoveImage удаляет изображение оформления и возвращает актуальный список
func (r *MaskRepository) RemoveImage(ctx context.Context, maskID, imageID string) ([]model.Image, error) {
	if err := deleteImages(ctx, r.db, "mask_images", "mask_id", maskID, []string{imageID}); err != nil {
		return nil, err
	}
	return listImages(ctx, r.db, "mask_images", "mask_id", maskID)
}
