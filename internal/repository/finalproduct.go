package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

const finalProductColumns = "id, mask_id, name, price, category, created_at, updated_at"

// FinalProductRepository реализует доступ к таблице final_products.
// У готовых продуктов нет дочерних изображений
type FinalProductRepository struct {
	db *sql.DB
}

// NewFinalProductRepository создает новый репозиторий готовых продуктов
func NewFinalProductRepository(db *sql.DB) *FinalProductRepository {
	return &FinalProductRepository{db: db}
}

// Create вставляет готовый продукт; существование оформления проверяет внешний ключ
func (r *FinalProductRepository) Create(ctx context.Context, p *model.FinalProduct) error {
	query := `INSERT INTO final_products(id, mask_id, name, price, category)
		VALUES($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.MaskID, p.Name, p.Price, p.Category).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return wrapErr("insert final product", err)
	}
	return nil
}

// GetByID возвращает готовый продукт по id
func (r *FinalProductRepository) GetByID(ctx context.Context, id string) (*model.FinalProduct, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+finalProductColumns+` FROM final_products WHERE id=$1`, id)
	var p model.FinalProduct
	err := row.Scan(&p.ID, &p.MaskID, &p.Name, &p.Price, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get final product: %w", err)
	}
	return &p, nil
}

// List возвращает страницу готовых продуктов по фильтрам и общее число совпадений
func (r *FinalProductRepository) List(ctx context.Context, f *dto.FinalProductFilter) ([]model.FinalProduct, int, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 7)
	if f.Name != nil {
		args = append(args, "%"+*f.Name+"%")
		where = append(where, fmt.Sprintf("name LIKE $%d", len(args)))
	}
	if f.MaskID != nil {
		args = append(args, *f.MaskID)
		where = append(where, fmt.Sprintf("mask_id = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, "%"+*f.Category+"%")
		where = append(where, fmt.Sprintf("category LIKE $%d", len(args)))
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM final_products`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count final products: %w", err)
	}
	pageQuery := `SELECT ` + finalProductColumns + ` FROM final_products` + cond +
		fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select final products list: %w", err)
	}
	defer rows.Close()
	products := make([]model.FinalProduct, 0)
	for rows.Next() {
		var p model.FinalProduct
		if err := rows.Scan(&p.ID, &p.MaskID, &p.Name, &p.Price, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan final product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// Update применяет частичное обновление готового продукта в одной транзакции
func (r *FinalProductRepository) Update(ctx context.Context, id string, d *dto.UpdateFinalProduct) (*model.FinalProduct, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	row := tx.QueryRowContext(ctx, `SELECT `+finalProductColumns+` FROM final_products WHERE id=$1 FOR UPDATE`, id)
	var p model.FinalProduct
	err = row.Scan(&p.ID, &p.MaskID, &p.Name, &p.Price, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select final product for update: %w", err)
	}
	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	if d.MaskID != nil {
		p.MaskID = *d.MaskID
		args = append(args, p.MaskID)
		set = append(set, fmt.Sprintf("mask_id=$%d", len(args)))
	}
	if d.Name != nil {
		p.Name = *d.Name
		args = append(args, p.Name)
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if d.Price != nil {
		p.Price = float64(*d.Price)
		args = append(args, p.Price)
		set = append(set, fmt.Sprintf("price=$%d", len(args)))
	}
	if d.Category != nil {
		p.Category = *d.Category
		args = append(args, p.Category)
		set = append(set, fmt.Sprintf("category=$%d", len(args)))
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	updateQuery := fmt.Sprintf(`UPDATE final_products SET %s WHERE id=$%d RETURNING updated_at`, strings.Join(set, ", "), len(args))
	if err := tx.QueryRowContext(ctx, updateQuery, args...).Scan(&p.UpdatedAt); err != nil {
		return nil, wrapErr("update final product", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &p, nil
}

// Delete удаляет готовый продукт
func (r *FinalProductRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	var existingID string
	row := tx.QueryRowContext(ctx, `SELECT id FROM final_products WHERE id=$1 FOR UPDATE`, id)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select final product for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM final_products WHERE id=$1`, id); err != nil {
		return wrapErr("delete final product", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
