// Пакет repository реализует слой доступа к данным каталога поверх Postgres
// (по репозиторию на сущность) и журнал событий в ClickHouse
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ehab-emad/backendCake/internal/model"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// ErrConstraint возвращается при нарушении ограничения целостности в БД
// (отсутствующий внешний ключ, дубликат первичного ключа)
var ErrConstraint = errors.New("constraint violation")

// queryer объединяет *sql.DB и *sql.Tx, чтобы хелперы работали и внутри транзакций
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// wrapErr оборачивает ошибку БД; нарушения ограничений (класс 23 по SQLSTATE)
// помечаются ErrConstraint, чтобы транспорт мог отличить их от прочих сбоев
func wrapErr(action string, err error) error {
	var pqe *pq.Error
	if errors.As(err, &pqe) && pqe.Code.Class() == "23" {
		return fmt.Errorf("failed to %s: %w", action, ErrConstraint)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// Таблицы изображений структурно одинаковы и отличаются только именем таблицы
// и колонкой внешнего ключа, поэтому операции над ними разделяются между
// репозиториями форм, начинок и оформлений.

// insertImages вставляет изображения родителя, заполняя created_at из БД
func insertImages(ctx context.Context, q queryer, table, fkCol string, imgs []model.Image) error {
	query := fmt.Sprintf(`INSERT INTO %s(id, %s, image_url) VALUES($1, $2, $3) RETURNING created_at`, table, fkCol)
	for i := range imgs {
		if err := q.QueryRowContext(ctx, query, imgs[i].ID, imgs[i].ParentID, imgs[i].ImageURL).
			Scan(&imgs[i].CreatedAt); err != nil {
			return wrapErr("insert image", err)
		}
	}
	return nil
}

// deleteImages удаляет изображения родителя по идентификаторам;
// отсутствующие идентификаторы молча пропускаются (идемпотентность)
func deleteImages(ctx context.Context, q queryer, table, fkCol, parentID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s=$1 AND id = ANY($2)`, table, fkCol)
	if _, err := q.ExecContext(ctx, query, parentID, pq.Array(ids)); err != nil {
		return wrapErr("delete images", err)
	}
	return nil
}

// listImages возвращает изображения родителя в детерминированном порядке
func listImages(ctx context.Context, q queryer, table, fkCol, parentID string) ([]model.Image, error) {
	query := fmt.Sprintf(`SELECT id, %s, image_url, created_at FROM %s WHERE %s=$1 ORDER BY created_at, id`, fkCol, table, fkCol)
	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, wrapErr("select images", err)
	}
	defer rows.Close()
	imgs := make([]model.Image, 0)
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ParentID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// imagesByParents загружает изображения сразу для страницы родителей одним запросом
func imagesByParents(ctx context.Context, q queryer, table, fkCol string, parentIDs []string) (map[string][]model.Image, error) {
	byParent := make(map[string][]model.Image, len(parentIDs))
	if len(parentIDs) == 0 {
		return byParent, nil
	}
	query := fmt.Sprintf(`SELECT id, %s, image_url, created_at FROM %s WHERE %s = ANY($1) ORDER BY created_at, id`, fkCol, table, fkCol)
	rows, err := q.QueryContext(ctx, query, pq.Array(parentIDs))
	if err != nil {
		return nil, wrapErr("select images", err)
	}
	defer rows.Close()
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ParentID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		byParent[img.ParentID] = append(byParent[img.ParentID], img)
	}
	return byParent, rows.Err()
}
