package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

const shapeColumns = "id, name, number_of_people, weight, width, height, price, created_at, updated_at"

// ShapeRepository реализует доступ к таблицам shapes и shape_images
type ShapeRepository struct {
	db *sql.DB
}

// NewShapeRepository создает новый репозиторий форм
func NewShapeRepository(db *sql.DB) *ShapeRepository {
	return &ShapeRepository{db: db}
}

// Create вставляет форму вместе с её начальными изображениями в одной транзакции
func (r *ShapeRepository) Create(ctx context.Context, s *model.Shape) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// created_at и updated_at назначает БД
	query := `INSERT INTO shapes(id, name, number_of_people, weight, width, height, price)
		VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, s.ID, s.Name, s.NumberOfPeople, s.Weight, s.Width, s.Height, s.Price).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return wrapErr("insert shape", err)
	}
	if err := insertImages(ctx, tx, "shape_images", "shape_id", s.Images); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID возвращает форму по id вместе с изображениями
func (r *ShapeRepository) GetByID(ctx context.Context, id string) (*model.Shape, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shapeColumns+` FROM shapes WHERE id=$1`, id)
	var s model.Shape
	err := row.Scan(&s.ID, &s.Name, &s.NumberOfPeople, &s.Weight, &s.Width, &s.Height, &s.Price, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shape: %w", err)
	}
	if s.Images, err = listImages(ctx, r.db, "shape_images", "shape_id", id); err != nil {
		return nil, err
	}
	return &s, nil
}

// List возвращает страницу форм по фильтрам и общее число совпадений без пагинации.
// Условия собираются только из заданных предикатов, значения передаются параметрами
func (r *ShapeRepository) List(ctx context.Context, f *dto.ShapeFilter) ([]model.Shape, int, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	if f.Name != nil {
		args = append(args, "%"+*f.Name+"%")
		where = append(where, fmt.Sprintf("name LIKE $%d", len(args)))
	}
	if f.NumberOfPeople != nil {
		args = append(args, *f.NumberOfPeople)
		where = append(where, fmt.Sprintf("number_of_people = $%d", len(args)))
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shapes`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shapes: %w", err)
	}
	pageQuery := `SELECT ` + shapeColumns + ` FROM shapes` + cond +
		fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select shapes list: %w", err)
	}
	defer rows.Close()
	shapes := make([]model.Shape, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var s model.Shape
		if err := rows.Scan(&s.ID, &s.Name, &s.NumberOfPeople, &s.Weight, &s.Width, &s.Height, &s.Price, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan shape: %w", err)
		}
		s.Images = make([]model.Image, 0)
		shapes = append(shapes, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read shapes list: %w", err)
	}
	byParent, err := imagesByParents(ctx, r.db, "shape_images", "shape_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range shapes {
		if imgs, ok := byParent[shapes[i].ID]; ok {
			shapes[i].Images = imgs
		}
	}
	return shapes, total, nil
}

// Update применяет частичное обновление в одной транзакции:
// выборка с блокировкой, UPDATE только заданных колонок (updated_at ставит БД),
// вставка новых изображений и идемпотентное удаление перечисленных
func (r *ShapeRepository) Update(ctx context.Context, id string, d *dto.UpdateShape, newImages []model.Image) (*model.Shape, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	row := tx.QueryRowContext(ctx, `SELECT `+shapeColumns+` FROM shapes WHERE id=$1 FOR UPDATE`, id)
	var s model.Shape
	err = row.Scan(&s.ID, &s.Name, &s.NumberOfPeople, &s.Weight, &s.Width, &s.Height, &s.Price, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select shape for update: %w", err)
	}
	set := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)
	if d.Name != nil {
		s.Name = *d.Name
		args = append(args, s.Name)
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if d.NumberOfPeople != nil {
		s.NumberOfPeople = int(*d.NumberOfPeople)
		args = append(args, s.NumberOfPeople)
		set = append(set, fmt.Sprintf("number_of_people=$%d", len(args)))
	}
	if d.Weight != nil {
		s.Weight = float64(*d.Weight)
		args = append(args, s.Weight)
		set = append(set, fmt.Sprintf("weight=$%d", len(args)))
	}
	if d.Width != nil {
		s.Width = float64(*d.Width)
		args = append(args, s.Width)
		set = append(set, fmt.Sprintf("width=$%d", len(args)))
	}
	if d.Height != nil {
		s.Height = float64(*d.Height)
		args = append(args, s.Height)
		set = append(set, fmt.Sprintf("height=$%d", len(args)))
	}
	if d.Price != nil {
		s.Price = float64(*d.Price)
		args = append(args, s.Price)
		set = append(set, fmt.Sprintf("price=$%d", len(args)))
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	updateQuery := fmt.Sprintf(`UPDATE shapes SET %s WHERE id=$%d RETURNING updated_at`, strings.Join(set, ", "), len(args))
	if err := tx.QueryRowContext(ctx, updateQuery, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, wrapErr("update shape", err)
	}
	if err := insertImages(ctx, tx, "shape_images", "shape_id", newImages); err != nil {
		return nil, err
	}
	if err := deleteImages(ctx, tx, "shape_images", "shape_id", id, d.RemoveImageIDs); err != nil {
		return nil, err
	}
	if s.Images, err = listImages(ctx, tx, "shape_images", "shape_id", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &s, nil
}

// Delete удаляет форму; изображения удаляет каскад внешнего ключа в БД
func (r *ShapeRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	var existingID string
	row := tx.QueryRowContext(ctx, `SELECT id FROM shapes WHERE id=$1 FOR UPDATE`, id)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select shape for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shapes WHERE id=$1`, id); err != nil {
		return wrapErr("delete shape", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddImage добавляет изображение существующей форме
func (r *ShapeRepository) AddImage(ctx context.Context, shapeID string, img *model.Image) error {
	var existingID string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM shapes WHERE id=$1`, shapeID).Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check shape: %w", err)
	}
	imgs := []model.Image{*img}
	if err := insertImages(ctx, r.db, "shape_images", "shape_id", imgs); err != nil {
		return err
	}
	*img = imgs[0]
	return nil
}

// RemoveImage удаляет изображение формы (отсутствующий id — no-op)
// и возвращает актуальный список изображений после удаления
func (r *ShapeRepository) RemoveImage(ctx context.Context, shapeID, imageID string) ([]model.Image, error) {
	if err := deleteImages(ctx, r.db, "shape_images", "shape_id", shapeID, []string{imageID}); err != nil {
		return nil, err
	}
	return listImages(ctx, r.db, "shape_images", "shape_id", shapeID)
}
