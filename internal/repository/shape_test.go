package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

// вспомогательные указатели для частичных обновлений и фильтров
func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func dtoFloat(f float64) *dto.Float64 {
	v := dto.Float64(f)
	return &v
}

// TestShapeCreate: вставка формы и её изображений выполняется в одной транзакции,
// created_at/updated_at приходят из RETURNING
func TestShapeCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewShapeRepository(db)
	ctx := context.Background()

	now := time.Now()
	shape := &model.Shape{
		ID: "shape-1", Name: "Круглая", NumberOfPeople: 8,
		Weight: 2.5, Width: 30, Height: 10, Price: 1500,
		Images: []model.Image{
			{ID: "img-1", ParentID: "shape-1", ImageURL: "http://img/front.png"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shapes(id, name, number_of_people, weight, width, height, price)`)).
		WithArgs("shape-1", "Круглая", 8, 2.5, 30.0, 10.0, 1500.0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shape_images(id, shape_id, image_url) VALUES($1, $2, $3) RETURNING created_at`)).
		WithArgs("img-1", "shape-1", "http://img/front.png").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	if err := repo.Create(ctx, shape); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shape.CreatedAt.IsZero() || shape.Images[0].CreatedAt.IsZero() {
		t.Error("ожидалось заполнение created_at из RETURNING")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestShapeGetByID_NotFound: отсутствие строки транслируется в ErrNotFound
func TestShapeGetByID_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, number_of_people, weight, width, height, price, created_at, updated_at FROM shapes WHERE id=$1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получили %v", err)
	}
}

// TestShapeGetByID: форма возвращается вместе со своими изображениями
func TestShapeGetByID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, number_of_people, weight, width, height, price, created_at, updated_at FROM shapes WHERE id=$1`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number_of_people", "weight", "width", "height", "price", "created_at", "updated_at"}).
			AddRow("shape-1", "Круглая", 8, 2.5, 30.0, 10.0, 1500.0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, shape_id, image_url, created_at FROM shape_images WHERE shape_id=$1 ORDER BY created_at, id`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "shape_id", "image_url", "created_at"}).
			AddRow("img-1", "shape-1", "http://img/front.png", now))

	shape, err := repo.GetByID(context.Background(), "shape-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shape.Name != "Круглая" || len(shape.Images) != 1 {
		t.Errorf("unexpected shape: %+v", shape)
	}
}

// TestShapeList: условия собираются из заданных предикатов; возвращаются
// страница форм с изображениями и общее число совпадений
func TestShapeList(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)
	now := time.Now()

	f := &dto.ShapeFilter{
		Name:     strPtr("Круг"),
		MinPrice: floatPtr(100),
		Limit:    10,
		Offset:   0,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM shapes WHERE name LIKE $1 AND price >= $2`)).
		WithArgs("%Круг%", 100.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shapes WHERE name LIKE $1 AND price >= $2 ORDER BY created_at, id LIMIT $3 OFFSET $4`)).
		WithArgs("%Круг%", 100.0, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number_of_people", "weight", "width", "height", "price", "created_at", "updated_at"}).
			AddRow("shape-1", "Круглая", 8, 2.5, 30.0, 10.0, 1500.0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, shape_id, image_url, created_at FROM shape_images WHERE shape_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"shape-1"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shape_id", "image_url", "created_at"}).
			AddRow("img-1", "shape-1", "http://img/front.png", now))

	shapes, total, err := repo.List(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("ожидался total=3, получили %d", total)
	}
	if len(shapes) != 1 || len(shapes[0].Images) != 1 {
		t.Errorf("unexpected page: %+v", shapes)
	}
}

// TestShapeList_Empty: без совпадений возвращаются пустая страница и total=0
func TestShapeList_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	f := &dto.ShapeFilter{NumberOfPeople: intPtr(100), Limit: 10, Offset: 0}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM shapes WHERE number_of_people = $1`)).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shapes WHERE number_of_people = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`)).
		WithArgs(100, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number_of_people", "weight", "width", "height", "price", "created_at", "updated_at"}))

	shapes, total, err := repo.List(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || shapes == nil || len(shapes) != 0 {
		t.Errorf("ожидались пустая страница и total=0, получили %d, %+v", total, shapes)
	}
}

// TestShapeUpdate_Partial: UPDATE затрагивает только присланные колонки,
// снимок блокируется FOR UPDATE, изображения перечитываются в той же транзакции
func TestShapeUpdate_Partial(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)
	now := time.Now()
	later := now.Add(time.Minute)

	d := &dto.UpdateShape{
		Name:  strPtr("Квадратная"),
		Price: dtoFloat(1700),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shapes WHERE id=$1 FOR UPDATE`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number_of_people", "weight", "width", "height", "price", "created_at", "updated_at"}).
			AddRow("shape-1", "Круглая", 8, 2.5, 30.0, 10.0, 1500.0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE shapes SET name=$1, price=$2, updated_at=NOW() WHERE id=$3 RETURNING updated_at`)).
		WithArgs("Квадратная", 1700.0, "shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, shape_id, image_url, created_at FROM shape_images WHERE shape_id=$1`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "shape_id", "image_url", "created_at"}))
	mock.ExpectCommit()

	shape, err := repo.Update(context.Background(), "shape-1", d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// не присланные поля сохраняют свои значения
	if shape.Name != "Квадратная" || shape.Price != 1700 || shape.NumberOfPeople != 8 {
		t.Errorf("unexpected shape after update: %+v", shape)
	}
	if !shape.UpdatedAt.Equal(later) {
		t.Errorf("ожидалось обновление updated_at, получили %v", shape.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestShapeUpdate_NotFound: обновление несуществующей формы откатывает транзакцию
func TestShapeUpdate_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shapes WHERE id=$1 FOR UPDATE`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "missing", &dto.UpdateShape{Name: strPtr("x")}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получили %v", err)
	}
}

// TestShapeDelete: удаление существующей формы; каскад по изображениям на стороне БД
func TestShapeDelete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM shapes WHERE id=$1 FOR UPDATE`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("shape-1"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shapes WHERE id=$1`)).
		WithArgs("shape-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), "shape-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestShapeDelete_NotFound
func TestShapeDelete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM shapes WHERE id=$1 FOR UPDATE`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получили %v", err)
	}
}

// TestShapeAddImage_ParentMissing: добавление изображения несуществующей форме
func TestShapeAddImage_ParentMissing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM shapes WHERE id=$1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	img := &model.Image{ID: "img-1", ParentID: "missing", ImageURL: "http://img/x.png"}
	err := repo.AddImage(context.Background(), "missing", img)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получили %v", err)
	}
}

// TestShapeRemoveImage: удаление изображения идемпотентно и возвращает
// актуальный список оставшихся изображений
func TestShapeRemoveImage(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewShapeRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shape_images WHERE shape_id=$1 AND id = ANY($2)`)).
		WithArgs("shape-1", pq.Array([]string{"img-1"})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, shape_id, image_url, created_at FROM shape_images WHERE shape_id=$1`)).
		WithArgs("shape-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "shape_id", "image_url", "created_at"}).
			AddRow("img-2", "shape-1", "http://img/side.png", now))

	imgs, err := repo.RemoveImage(context.Background(), "shape-1", "img-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(imgs) != 1 || imgs[0].ID != "img-2" {
		t.Errorf("unexpected images after remove: %+v", imgs)
	}
}
