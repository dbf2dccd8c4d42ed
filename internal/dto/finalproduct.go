package dto

import "net/url"

// CreateFinalProduct описывает тело запроса создания готового продукта
type CreateFinalProduct struct {
	MaskID   string  `json:"maskId"`
	Name     string  `json:"name"`
	Price    Float64 `json:"price"`
	Category string  `json:"category"`
}

// Validate проверяет ссылку на оформление, имя, цену и категорию
func (d *CreateFinalProduct) Validate() *ValidationError {
	v := &ValidationError{}
	if !IsUUID(d.MaskID) {
		v.add("maskId", "Mask ID must be a valid UUID")
	}
	checkName(v, "name", d.Name)
	if d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	if d.Category == "" {
		v.add("category", "Category is required")
	} else if len(d.Category) > 255 {
		v.add("category", "Category cannot exceed 255 characters")
	}
	return v.result()
}

// UpdateFinalProduct описывает частичное обновление готового продукта
type UpdateFinalProduct struct {
	MaskID   *string  `json:"maskId"`
	Name     *string  `json:"name"`
	Price    *Float64 `json:"price"`
	Category *string  `json:"category"`
}

// Validate проверяет только присутствующие поля
func (d *UpdateFinalProduct) Validate() *ValidationError {
	v := &ValidationError{}
	if d.MaskID != nil && !IsUUID(*d.MaskID) {
		v.add("maskId", "Mask ID must be a valid UUID")
	}
	if d.Name != nil {
		checkName(v, "name", *d.Name)
	}
	if d.Price != nil && *d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	if d.Category != nil {
		if *d.Category == "" {
			v.add("category", "Category is required")
		} else if len(*d.Category) > 255 {
			v.add("category", "Category cannot exceed 255 characters")
		}
	}
	return v.result()
}

// FinalProductFilter описывает фильтры списка готовых продуктов
type FinalProductFilter struct {
	Name     *string
	MaskID   *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// ParseFinalProductFilter разбирает query-параметры списка готовых продуктов
func ParseFinalProductFilter(q url.Values) (*FinalProductFilter, *ValidationError) {
	v := &ValidationError{}
	f := &FinalProductFilter{
		Name:     parseStringParam(q, "name"),
		MaskID:   parseUUIDParam(q, "maskId", "Mask ID must be a valid UUID", v),
		Category: parseStringParam(q, "category"),
		MinPrice: parseFloatParam(q, "minPrice", "Min price must be a positive number", v),
		MaxPrice: parseFloatParam(q, "maxPrice", "Max price must be a positive number", v),
	}
	f.Limit, f.Offset = parsePagination(q, v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return f, nil
}
