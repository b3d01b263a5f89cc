package api

import (
	"strconv"
	"strings"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
)

var errUnknownCategory = &apperr.Error{
	Message: "category %q does not exist",
}

// ResolveCategory finds a category by id or by case-insensitive name.
func ResolveCategory(categories []models.Category, s string) (models.Category, error) {
	s = strings.TrimSpace(s)

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, nil
			}
		}
	}

	for _, c := range categories {
		if strings.EqualFold(c.Name, s) {
			return c, nil
		}
	}

	return models.Category{}, errUnknownCategory.Fmt(s)
}
