package dto

import "net/url"

// CreateMask описывает тело запроса создания оформления
type CreateMask struct {
	Name       string  `json:"name"`
	ShapeID    string  `json:"shapeId"`
	FlavorID   string  `json:"flavorId"`
	Price      Float64 `json:"price"`
	FrontImage string  `json:"frontImage"`
	SideImage  string  `json:"sideImage"`
	LeftImage  string  `json:"leftImage"`
}

// Validate проверяет имя, формат ссылок на форму и начинку и цену
func (d *CreateMask) Validate() *ValidationError {
	v := &ValidationError{}
	checkName(v, "name", d.Name)
	if !IsUUID(d.ShapeID) {
		v.add("shapeId", "Shape ID must be a valid UUID")
	}
	if !IsUUID(d.FlavorID) {
		v.add("flavorId", "Flavor ID must be a valid UUID")
	}
	if d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	return v.result()
}

// UpdateMask описывает частичное обновление оформления
type UpdateMask struct {
	Name           *string  `json:"name"`
	ShapeID        *string  `json:"shapeId"`
	FlavorID       *string  `json:"flavorId"`
	Price          *Float64 `json:"price"`
	FrontImage     string   `json:"frontImage"`
	SideImage      string   `json:"sideImage"`
	LeftImage      string   `json:"leftImage"`
	RemoveImageIDs []string `json:"removeImageIds"`
}

// Validate проверяет только присутствующие поля
func (d *UpdateMask) Validate() *ValidationError {
	v := &ValidationError{}
	if d.Name != nil {
		checkName(v, "name", *d.Name)
	}
	if d.ShapeID != nil && !IsUUID(*d.ShapeID) {
		v.add("shapeId", "Shape ID must be a valid UUID")
	}
	if d.FlavorID != nil && !IsUUID(*d.FlavorID) {
		v.add("flavorId", "Flavor ID must be a valid UUID")
	}
	if d.Price != nil && *d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	checkRemoveImageIDs(v, d.RemoveImageIDs)
	return v.result()
}

// MaskFilter описывает фильтры списка оформлений
type MaskFilter struct {
	Name     *string
	ShapeID  *string
	FlavorID *string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// ParseMaskFilter разбирает query-параметры списка оформлений
func ParseMaskFilter(q url.Values) (*MaskFilter, *ValidationError) {
	v := &ValidationError{}
	f := &MaskFilter{
		Name:     parseStringParam(q, "name"),
		ShapeID:  parseUUIDParam(q, "shapeId", "Shape ID must be a valid UUID", v),
		FlavorID: parseUUIDParam(q, "flavorId", "Flavor ID must be a valid UUID", v),
		MinPrice: parseFloatParam(q, "minPrice", "Min price must be a positive number", v),
		MaxPrice: parseFloatParam(q, "maxPrice", "Max price must be a positive number", v),
	}
	f.Limit, f.Offset = parsePagination(q, v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return f, nil
}
