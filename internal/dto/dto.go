// Пакет dto содержит входные структуры API: приведение типов (строка→число),
// проверку ограничений по каждому полю и разбор фильтров списков из query-параметров
package dto

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ValidationError описывает нарушения ограничений входных данных.
// Fields содержит сообщение по каждому нарушенному полю; ошибка
// формируется до обращения к хранилищу
type ValidationError struct {
	Fields map[string]string
}

// Error собирает сообщения по полям в одну строку (поля в алфавитном порядке)
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// add добавляет нарушение по полю, создавая карту при первом обращении
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// result возвращает ошибку, если накопилось хотя бы одно нарушение
func (e *ValidationError) result() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Float64 принимает в JSON как число, так и строку с числом
// (формы отдают числовые поля строками, как и query-параметры)
type Float64 float64

// UnmarshalJSON разбирает число или строку с числом
func (f *Float64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = Float64(v)
	return nil
}

// Int принимает в JSON как целое число, так и строку с целым числом
type Int int

// UnmarshalJSON разбирает целое или строку с целым
func (i *Int) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*i = Int(v)
	return nil
}

// IsUUID проверяет, что строка является корректным UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// checkName проверяет обязательное имя (1..255 символов)
func checkName(v *ValidationError, field, name string) {
	if name == "" {
		v.add(field, "Name is required")
	} else if len(name) > 255 {
		v.add(field, "Name cannot exceed 255 characters")
	}
}

// parseIntParam разбирает целочисленный query-параметр, записывая нарушение в v
func parseIntParam(q url.Values, field, msg string, v *ValidationError) *int {
	raw := q.Get(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.add(field, msg)
		return nil
	}
	return &n
}

// parseFloatParam разбирает числовой query-параметр, требуя положительного значения
func parseFloatParam(q url.Values, field, msg string, v *ValidationError) *float64 {
	raw := q.Get(field)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		v.add(field, msg)
		return nil
	}
	return &f
}

// parseUUIDParam разбирает query-параметр с идентификатором, проверяя формат UUID
func parseUUIDParam(q url.Values, field, msg string, v *ValidationError) *string {
	raw := q.Get(field)
	if raw == "" {
		return nil
	}
	if !IsUUID(raw) {
		v.add(field, msg)
		return nil
	}
	return &raw
}

// parseStringParam возвращает строковый query-параметр или nil при его отсутствии
func parseStringParam(q url.Values, field string) *string {
	raw := q.Get(field)
	if raw == "" {
		return nil
	}
	return &raw
}

// Значения пагинации по умолчанию: они всегда резолвятся в конкретные числа
// до выполнения запроса списка
const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// parsePagination разбирает limit/offset с значениями по умолчанию 10 и 0
func parsePagination(q url.Values, v *ValidationError) (int, int) {
	limit, offset := DefaultLimit, DefaultOffset
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.add("limit", "Limit must be a positive integer")
		} else {
			limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.add("offset", "Offset cannot be negative")
		} else {
			offset = n
		}
	}
	return limit, offset
}

// checkRemoveImageIDs проверяет, что каждый идентификатор удаляемого изображения — UUID
func checkRemoveImageIDs(v *ValidationError, ids []string) {
	for _, id := range ids {
		if !IsUUID(id) {
			v.add("removeImageIds", "Image ID must be a valid UUID")
			return
		}
	}
}
