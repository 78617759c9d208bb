package filter

import (
	"time"

	"github.com/google/uuid"
)

// Filter - сохранённый запрос. Разобранная форма запроса нигде не хранится,
// она строится заново при каждом выполнении.
type Filter struct {
	UUID      uuid.UUID  `json:"uuid" db:"uuid"`
	Name      string     `json:"name" db:"name"`
	Query     string     `json:"query" db:"query"`
	Color     string     `json:"color" db:"color"`
	Favorite  bool       `json:"favorite" db:"favorite"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type FilterOption func(*Filter)

func WithName(name string) FilterOption {
	return func(f *Filter) {
		f.Name = name
	}
}

func WithQuery(query string) FilterOption {
	return func(f *Filter) {
		f.Query = query
	}
}

func WithColor(color string) FilterOption {
	return func(f *Filter) {
		f.Color = color
	}
}

func WithFavorite(favorite bool) FilterOption {
	return func(f *Filter) {
		f.Favorite = favorite
	}
}
