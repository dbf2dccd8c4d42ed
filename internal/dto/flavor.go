package dto

import "net/url"

// CreateFlavor описывает тело запроса создания начинки
type CreateFlavor struct {
	Name       string  `json:"name"`
	ShapeID    string  `json:"shapeId"`
	Price      Float64 `json:"price"`
	FrontImage string  `json:"frontImage"`
	SideImage  string  `json:"sideImage"`
	LeftImage  string  `json:"leftImage"`
}

// Validate проверяет имя, формат ссылки на форму и цену
func (d *CreateFlavor) Validate() *ValidationError {
	v := &ValidationError{}
	checkName(v, "name", d.Name)
	if !IsUUID(d.ShapeID) {
		v.add("shapeId", "Shape ID must be a valid UUID")
	}
	if d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	return v.result()
}

// UpdateFlavor описывает частичное обновление начинки
type UpdateFlavor struct {
	Name           *string  `json:"name"`
	ShapeID        *string  `json:"shapeId"`
	Price          *Float64 `json:"price"`
	FrontImage     string   `json:"frontImage"`
	SideImage      string   `json:"sideImage"`
	LeftImage      string   `json:"leftImage"`
	RemoveImageIDs []string `json:"removeImageIds"`
}

// Validate проверяет только присутствующие поля
func (d *UpdateFlavor) Validate() *ValidationError {
	v := &ValidationError{}
	if d.Name != nil {
		checkName(v, "name", *d.Name)
	}
	if d.ShapeID != nil && !IsUUID(*d.ShapeID) {
		v.add("shapeId", "Shape ID must be a valid UUID")
	}
	if d.Price != nil && *d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	checkRemoveImageIDs(v, d.RemoveImageIDs)
	return v.result()
}

// FlavorFilter описывает фильтры списка начинок
type FlavorFilter struct {
	Name     *string
	ShapeID  *string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// ParseFlavorFilter разбирает query-параметры списка начинок
func ParseFlavorFilter(q url.Values) (*FlavorFilter, *ValidationError) {
	v := &ValidationError{}
	f := &FlavorFilter{
		Name:     parseStringParam(q, "name"),
		ShapeID:  parseUUIDParam(q, "shapeId", "Shape ID must be a valid UUID", v),
		MinPrice: parseFloatParam(q, "minPrice", "Min price must be a positive number", v),
		MaxPrice: parseFloatParam(q, "maxPrice", "Max price must be a positive number", v),
	}
	f.Limit, f.Offset = parsePagination(q, v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return f, nil
}
