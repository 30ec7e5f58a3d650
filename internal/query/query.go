// Package query filters and paginates in-memory medicine lists.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/medicare/medicare-api/internal/model"
)

// Defaults for list pagination.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ErrInvalidParam marks an unparsable or out-of-range query parameter.
var ErrInvalidParam = errors.New("invalid query parameter")

// Params narrows and pages a medicine list.
type Params struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// Result is one page of a filtered list.
type Result struct {
	Items      []model.Medicine
	Total      int
	Page       int
	TotalPages int
}

// ParseParams reads page, limit, search and category from query values.
// Missing page/limit fall back to defaults; anything that is not a positive
// integer is rejected.
func ParseParams(values url.Values) (Params, error) {
	p := Params{
		Search:   values.Get("search"),
		Category: values.Get("category"),
		Page:     DefaultPage,
		Limit:    DefaultLimit,
	}

	var err error
	if p.Page, err = parsePositive(values, "page", DefaultPage); err != nil {
		return Params{}, err
	}
	if p.Limit, err = parsePositive(values, "limit", DefaultLimit); err != nil {
		return Params{}, err
	}

	return p, nil
}

func parsePositive(values url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidParam, key)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s must be at least 1", ErrInvalidParam, key)
	}
	return n, nil
}

// Apply filters records by search and category, then slices out the requested page.
// Page and Limit below 1 are replaced by their defaults.
func Apply(records []model.Medicine, p Params) Result {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	filtered := Filter(records, p.Search, p.Category)
	items, totalPages := Paginate(filtered, p.Page, p.Limit)

	return Result{
		Items:      items,
		Total:      len(filtered),
		Page:       p.Page,
		TotalPages: totalPages,
	}
}

// Filter keeps records whose name, generic name or uses contain search
// (case-insensitive) and whose category equals category exactly.
// Empty arguments disable the corresponding predicate.
func Filter(records []model.Medicine, search, category string) []model.Medicine {
	term := strings.ToLower(search)

	out := make([]model.Medicine, 0, len(records))
	for _, rec := range records {
		if term != "" && !matchesSearch(rec, term) {
			continue
		}
		if category != "" && rec.Category != category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec model.Medicine, term string) bool {
	return strings.Contains(strings.ToLower(rec.Name), term) ||
		strings.Contains(strings.ToLower(rec.Generic), term) ||
		strings.Contains(strings.ToLower(rec.Uses), term)
}

// Paginate returns items[(page-1)*limit : page*limit] clamped to the slice,
// and the number of pages. page and limit must be positive.
func Paginate[T any](items []T, page, limit int) ([]T, int) {
	total := len(items)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// Compared in pages so huge page/limit values cannot overflow.
	if page-1 >= totalPages {
		return []T{}, totalPages
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	return items[start:end], totalPages
}
