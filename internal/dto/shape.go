package dto

import "net/url"

// CreateShape описывает тело запроса создания формы.
// Слоты изображений front/side/left заполняются middleware загрузки
// уже сохранёнными URL (само сохранение файлов вне этого сервиса)
type CreateShape struct {
	Name           string  `json:"name"`
	NumberOfPeople Int     `json:"numberOfPeople"`
	Weight         Float64 `json:"weight"`
	Width          Float64 `json:"width"`
	Height         Float64 `json:"height"`
	Price          Float64 `json:"price"`
	FrontImage     string  `json:"frontImage"`
	SideImage      string  `json:"sideImage"`
	LeftImage      string  `json:"leftImage"`
}

// Validate проверяет все поля и возвращает нарушения по каждому из них
func (d *CreateShape) Validate() *ValidationError {
	v := &ValidationError{}
	checkName(v, "name", d.Name)
	if d.NumberOfPeople <= 0 {
		v.add("numberOfPeople", "Number of people must be a positive integer")
	}
	if d.Weight <= 0 {
		v.add("weight", "Weight must be a positive number")
	}
	if d.Width <= 0 {
		v.add("width", "Width must be a positive number")
	}
	if d.Height <= 0 {
		v.add("height", "Height must be a positive number")
	}
	if d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	return v.result()
}

// UpdateShape описывает частичное обновление формы: поле nil не трогает
// сохранённое значение. RemoveImageIDs удаляет изображения по идентификаторам,
// слоты изображений добавляют новые записи — обе операции независимы
type UpdateShape struct {
	Name           *string  `json:"name"`
	NumberOfPeople *Int     `json:"numberOfPeople"`
	Weight         *Float64 `json:"weight"`
	Width          *Float64 `json:"width"`
	Height         *Float64 `json:"height"`
	Price          *Float64 `json:"price"`
	FrontImage     string   `json:"frontImage"`
	SideImage      string   `json:"sideImage"`
	LeftImage      string   `json:"leftImage"`
	RemoveImageIDs []string `json:"removeImageIds"`
}

// Validate проверяет только присутствующие поля
func (d *UpdateShape) Validate() *ValidationError {
	v := &ValidationError{}
	if d.Name != nil {
		checkName(v, "name", *d.Name)
	}
	if d.NumberOfPeople != nil && *d.NumberOfPeople <= 0 {
		v.add("numberOfPeople", "Number of people must be a positive integer")
	}
	if d.Weight != nil && *d.Weight <= 0 {
		v.add("weight", "Weight must be a positive number")
	}
	if d.Width != nil && *d.Width <= 0 {
		v.add("width", "Width must be a positive number")
	}
	if d.Height != nil && *d.Height <= 0 {
		v.add("height", "Height must be a positive number")
	}
	if d.Price != nil && *d.Price <= 0 {
		v.add("price", "Price must be a positive number")
	}
	checkRemoveImageIDs(v, d.RemoveImageIDs)
	return v.result()
}

// ShapeFilter описывает фильтры списка форм; nil означает отсутствие предиката
type ShapeFilter struct {
	Name           *string
	NumberOfPeople *int
	MinPrice       *float64
	MaxPrice       *float64
	Limit          int
	Offset         int
}

// ParseShapeFilter разбирает query-параметры списка форм,
// приводя строковые значения к числам до проверок диапазонов
func ParseShapeFilter(q url.Values) (*ShapeFilter, *ValidationError) {
	v := &ValidationError{}
	f := &ShapeFilter{Name: parseStringParam(q, "name")}
	if n := parseIntParam(q, "numberOfPeople", "Number of people must be a positive integer", v); n != nil {
		if *n <= 0 {
			v.add("numberOfPeople", "Number of people must be a positive integer")
		} else {
			f.NumberOfPeople = n
		}
	}
	f.MinPrice = parseFloatParam(q, "minPrice", "Min price must be a positive number", v)
	f.MaxPrice = parseFloatParam(q, "maxPrice", "Max price must be a positive number", v)
	f.Limit, f.Offset = parsePagination(q, v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return f, nil
}
