package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
	"github.com/ehab-emad/backendCake/internal/repository"
)

const testShapeID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
const testImageID = "11111111-1111-1111-1111-111111111111"

// mockShapeSrv реализует ShapeService для тестирования HTTP-хендлера.
// Поля-функции позволяют контролировать данные и ошибки в каждом сценарии
type mockShapeSrv struct {
	CreateFn      func(d *dto.CreateShape) (*model.Shape, error)
	GetFn         func(id string) (*model.Shape, error)
	ListFn        func(f *dto.ShapeFilter) ([]model.Shape, int, error)
	UpdateFn      func(id string, d *dto.UpdateShape) (*model.Shape, error)
	DeleteFn      func(id string) error
	AddImageFn    func(shapeID, imageURL string) (*model.Shape, error)
	RemoveImageFn func(shapeID, imageID string) ([]model.Image, error)
}

func (m *mockShapeSrv) Create(_ context.Context, d *dto.CreateShape) (*model.Shape, error) {
	return m.CreateFn(d)
}
func (m *mockShapeSrv) Get(_ context.Context, id string) (*model.Shape, error) {
	return m.GetFn(id)
}
func (m *mockShapeSrv) List(_ context.Context, f *dto.ShapeFilter) ([]model.Shape, int, error) {
	return m.ListFn(f)
}
func (m *mockShapeSrv) Update(_ context.Context, id string, d *dto.UpdateShape) (*model.Shape, error) {
	return m.UpdateFn(id, d)
}
func (m *mockShapeSrv) Delete(_ context.Context, id string) error {
	return m.DeleteFn(id)
}
func (m *mockShapeSrv) AddImage(_ context.Context, shapeID, imageURL string) (*model.Shape, error) {
	return m.AddImageFn(shapeID, imageURL)
}
func (m *mockShapeSrv) RemoveImage(_ context.Context, shapeID, imageID string) ([]model.Image, error) {
	return m.RemoveImageFn(shapeID, imageID)
}

// mockFlavorSrv реализует FlavorService
type mockFlavorSrv struct {
	CreateFn func(d *dto.CreateFlavor) (*model.Flavor, error)
	GetFn    func(id string) (*model.Flavor, error)
}

func (m *mockFlavorSrv) Create(_ context.Context, d *dto.CreateFlavor) (*model.Flavor, error) {
	return m.CreateFn(d)
}
func (m *mockFlavorSrv) Get(_ context.Context, id string) (*model.Flavor, error) {
	return m.GetFn(id)
}
func (m *mockFlavorSrv) List(_ context.Context, f *dto.FlavorFilter) ([]model.Flavor, int, error) {
	return nil, 0, nil
}
func (m *mockFlavorSrv) Update(_ context.Context, id string, d *dto.UpdateFlavor) (*model.Flavor, error) {
	return nil, nil
}
func (m *mockFlavorSrv) Delete(_ context.Context, id string) error { return nil }
func (m *mockFlavorSrv) AddImage(_ context.Context, flavorID, imageURL string) (*model.Flavor, error) {
	return nil, nil
}
func (m *mockFlavorSrv) RemoveImage(_ context.Context, flavorID, imageID string) ([]model.Image, error) {
	return nil, nil
}

// mockMaskSrv реализует MaskService; в сценариях ниже не вызывается
type mockMaskSrv struct{}

func (m *mockMaskSrv) Create(_ context.Context, d *dto.CreateMask) (*model.Mask, error) {
	return nil, nil
}
func (m *mockMaskSrv) Get(_ context.Context, id string) (*model.Mask, error) { return nil, nil }
func (m *mockMaskSrv) List(_ context.Context, f *dto.MaskFilter) ([]model.Mask, int, error) {
	return nil, 0, nil
}
func (m *mockMaskSrv) Update(_ context.Context, id string, d *dto.UpdateMask) (*model.Mask, error) {
	return nil, nil
}
func (m *mockMaskSrv) Delete(_ context.Context, id string) error { return nil }
func (m *mockMaskSrv) AddImage(_ context.Context, maskID, imageURL string) (*model.Mask, error) {
	return nil, nil
}
func (m *mockMaskSrv) RemoveImage(_ context.Context, maskID, imageID string) ([]model.Image, error) {
	return nil, nil
}

// mockProductSrv реализует FinalProductService
type mockProductSrv struct {
	DeleteFn func(id string) error
}

func (m *mockProductSrv) Create(_ context.Context, d *dto.CreateFinalProduct) (*model.FinalProduct, error) {
	return nil, nil
}
func (m *mockProductSrv) Get(_ context.Context, id string) (*model.FinalProduct, error) {
	return nil, nil
}
func (m *mockProductSrv) List(_ context.Context, f *dto.FinalProductFilter) ([]model.FinalProduct, int, error) {
	return nil, 0, nil
}
func (m *mockProductSrv) Update(_ context.Context, id string, d *dto.UpdateFinalProduct) (*model.FinalProduct, error) {
	return nil, nil
}
func (m *mockProductSrv) Delete(_ context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	return nil
}

func newRouter(shapes *mockShapeSrv, flavors *mockFlavorSrv, products *mockProductSrv) *mux.Router {
	if shapes == nil {
		shapes = &mockShapeSrv{}
	}
	if flavors == nil {
		flavors = &mockFlavorSrv{}
	}
	if products == nil {
		products = &mockProductSrv{}
	}
	h := NewHandler(shapes, flavors, &mockMaskSrv{}, products)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// TestCreateShape_Success проверяет успешное создание формы: 201 и JSON формы
func TestCreateShape_Success(t *testing.T) {
	ms := &mockShapeSrv{CreateFn: func(d *dto.CreateShape) (*model.Shape, error) {
		if d.Name != "Круглая" || d.NumberOfPeople != 8 || d.Price != 1500 {
			t.Fatalf("unexpected dto: %+v", d)
		}
		return &model.Shape{ID: testShapeID, Name: d.Name, NumberOfPeople: 8, Price: 1500, Images: []model.Image{}}, nil
	}}
	r := newRouter(ms, nil, nil)

	// числовые поля строками: хендлер обязан их принять
	body := `{"name":"Круглая","numberOfPeople":"8","weight":"2.5","width":30,"height":10,"price":"1500"}`
	req := httptest.NewRequest(http.MethodPost, "/shapes", bytes.NewBufferString(body))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)

	if rq.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rq.Code, rq.Body.String())
	}
	var got model.Shape
	_ = json.Unmarshal(rq.Body.Bytes(), &got)
	if got.ID != testShapeID || got.Name != "Круглая" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

// TestCreateShape_ValidationError проверяет 400 с картой нарушений по полям
func TestCreateShape_ValidationError(t *testing.T) {
	r := newRouter(nil, nil, nil)

	body := `{"name":"","price":-5}`
	req := httptest.NewRequest(http.MethodPost, "/shapes", bytes.NewBufferString(body))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)

	if rq.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rq.Code)
	}
	var resp struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(rq.Body.Bytes(), &resp)
	if resp.Details["name"] != "Name is required" {
		t.Errorf("ожидалось нарушение по name, получили %+v", resp.Details)
	}
	if resp.Details["price"] != "Price must be a positive number" {
		t.Errorf("ожидалось нарушение по price, получили %+v", resp.Details)
	}
}

// TestCreateShape_InvalidJSON проверяет 400 при некорректном теле
func TestCreateShape_InvalidJSON(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/shapes", bytes.NewBufferString(`invalid`))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rq.Code)
	}
}

// TestGetShape_NotFound проверяет возврат 404 для несуществующей формы
func TestGetShape_NotFound(t *testing.T) {
	ms := &mockShapeSrv{GetFn: func(id string) (*model.Shape, error) {
		return nil, repository.ErrNotFound
	}}
	r := newRouter(ms, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/shapes/"+testShapeID, nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rq.Code)
	}
}

// TestGetShape_InvalidID проверяет 400 для идентификатора не в формате UUID
func TestGetShape_InvalidID(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/shapes/42", nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rq.Code)
	}
}

// TestListShapes проверяет конверт списка: meta с total/limit/offset и массив data
func TestListShapes(t *testing.T) {
	ms := &mockShapeSrv{ListFn: func(f *dto.ShapeFilter) ([]model.Shape, int, error) {
		if f.Limit != 5 || f.Offset != 10 {
			t.Fatalf("unexpected pagination: %+v", f)
		}
		return []model.Shape{{ID: testShapeID, Name: "Круглая", Images: []model.Image{}}}, 42, nil
	}}
	r := newRouter(ms, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/shapes?limit=5&offset=10", nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)

	if rq.Code != http.StatusOK {
		t.Fatalf("status = %d", rq.Code)
	}
	var resp struct {
		Meta ListMeta      `json:"meta"`
		Data []model.Shape `json:"data"`
	}
	_ = json.Unmarshal(rq.Body.Bytes(), &resp)
	if resp.Meta.Total != 42 || resp.Meta.Limit != 5 || resp.Meta.Offset != 10 {
		t.Errorf("unexpected meta: %+v", resp.Meta)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Круглая" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

// TestListShapes_BadFilter проверяет 400 при некорректных query-параметрах
func TestListShapes_BadFilter(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/shapes?minPrice=free", nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rq.Code)
	}
}

// TestUpdateShape проверяет частичное обновление через PUT
func TestUpdateShape(t *testing.T) {
	ms := &mockShapeSrv{UpdateFn: func(id string, d *dto.UpdateShape) (*model.Shape, error) {
		if id != testShapeID || d.Name == nil || *d.Name != "Квадратная" || d.Price != nil {
			t.Fatalf("unexpected args: id=%s dto=%+v", id, d)
		}
		return &model.Shape{ID: id, Name: *d.Name, Images: []model.Image{}}, nil
	}}
	r := newRouter(ms, nil, nil)

	body := `{"name":"Квадратная"}`
	req := httptest.NewRequest(http.MethodPut, "/shapes/"+testShapeID, bytes.NewBufferString(body))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rq.Code, rq.Body.String())
	}
}

// TestDeleteShape проверяет 204 без тела при успешном удалении
func TestDeleteShape(t *testing.T) {
	ms := &mockShapeSrv{DeleteFn: func(id string) error { return nil }}
	r := newRouter(ms, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/shapes/"+testShapeID, nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rq.Code)
	}
	if rq.Body.Len() != 0 {
		t.Errorf("тело ответа должно быть пустым, получили %s", rq.Body.String())
	}
}

// TestAddShapeImage проверяет добавление изображения: 201 и форма целиком
func TestAddShapeImage(t *testing.T) {
	ms := &mockShapeSrv{AddImageFn: func(shapeID, imageURL string) (*model.Shape, error) {
		if shapeID != testShapeID || imageURL != "http://img/extra.png" {
			t.Fatalf("unexpected args: %s %s", shapeID, imageURL)
		}
		return &model.Shape{ID: shapeID, Images: []model.Image{{ID: testImageID}}}, nil
	}}
	r := newRouter(ms, nil, nil)

	body := `{"imageUrl":"http://img/extra.png"}`
	req := httptest.NewRequest(http.MethodPost, "/shapes/"+testShapeID+"/images", bytes.NewBufferString(body))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rq.Code, rq.Body.String())
	}
}

// TestAddShapeImage_MissingURL проверяет 400 при пустом imageUrl
func TestAddShapeImage_MissingURL(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/shapes/"+testShapeID+"/images", bytes.NewBufferString(`{}`))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rq.Code)
	}
}

// TestRemoveShapeImage проверяет возврат актуального списка изображений
func TestRemoveShapeImage(t *testing.T) {
	ms := &mockShapeSrv{RemoveImageFn: func(shapeID, imageID string) ([]model.Image, error) {
		if shapeID != testShapeID || imageID != testImageID {
			t.Fatalf("unexpected args: %s %s", shapeID, imageID)
		}
		return []model.Image{}, nil
	}}
	r := newRouter(ms, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/shapes/"+testShapeID+"/images/"+testImageID, nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusOK {
		t.Fatalf("status = %d", rq.Code)
	}
	var resp struct {
		Images []model.Image `json:"images"`
	}
	_ = json.Unmarshal(rq.Body.Bytes(), &resp)
	if resp.Images == nil || len(resp.Images) != 0 {
		t.Errorf("ожидался пустой список изображений, получили %+v", resp.Images)
	}
}

// TestCreateFlavor_ConstraintConflict проверяет маппинг нарушения внешнего ключа в 409
func TestCreateFlavor_ConstraintConflict(t *testing.T) {
	mf := &mockFlavorSrv{CreateFn: func(d *dto.CreateFlavor) (*model.Flavor, error) {
		return nil, repository.ErrConstraint
	}}
	r := newRouter(nil, mf, nil)

	body := `{"name":"Шоколад","shapeId":"` + testShapeID + `","price":500}`
	req := httptest.NewRequest(http.MethodPost, "/flavors", bytes.NewBufferString(body))
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rq.Code)
	}
}

// TestDeleteFinalProduct_ServiceError проверяет маппинг прочих ошибок в 500
func TestDeleteFinalProduct_ServiceError(t *testing.T) {
	mp := &mockProductSrv{DeleteFn: func(id string) error {
		return errors.New("db down")
	}}
	r := newRouter(nil, nil, mp)

	req := httptest.NewRequest(http.MethodDelete, "/final-products/"+testShapeID, nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rq.Code)
	}
}

// TestHealthz и TestReadyz проверяют сервисные эндпоинты
func TestHealthz(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusOK {
		t.Fatalf("status = %d", rq.Code)
	}
}

func TestReadyz(t *testing.T) {
	r := newRouter(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rq := httptest.NewRecorder()
	r.ServeHTTP(rq, req)
	if rq.Code != http.StatusOK {
		t.Fatalf("status = %d", rq.Code)
	}
}
