// Package pagination turns page/limit/sort query parameters into bounded,
// ordered database reads and reports the page metadata clients expect.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidtube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultSortField = "createdAt"
)

// SortFields maps the sort names accepted from clients to database columns.
type SortFields map[string]string

// Params is a validated page request.
type Params struct {
	Page       int
	Limit      int
	SortColumn string
	SortDesc   bool
}

// Offset is the number of rows skipped before this page. It saturates one
// page short of math.MaxInt instead of wrapping for absurd page numbers.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 >= math.MaxInt/p.Limit {
		return math.MaxInt - p.Limit
	}
	return (p.Page - 1) * p.Limit
}

// FromQuery parses raw query values. Missing, non-numeric or non-positive
// page and limit values fall back to the defaults and limit is capped at
// MaxLimit. The default order is createdAt descending.
func FromQuery(page, limit, sortBy, sortType string, fields SortFields) (Params, error) {
	p := Params{
		Page:     parsePositive(page, DefaultPage),
		Limit:    parsePositive(limit, DefaultLimit),
		SortDesc: true,
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	// keep (Page-1)*Limit and Page+1 representable
	if maxPage := math.MaxInt/p.Limit - 1; p.Page > maxPage {
		p.Page = maxPage
	}

	field := strings.TrimSpace(sortBy)
	if field == "" {
		field = DefaultSortField
	}
	column, ok := fields[field]
	if !ok {
		return Params{}, models.NewValidationError(fmt.Sprintf("Invalid sort field %q", field))
	}
	p.SortColumn = column

	switch strings.ToLower(strings.TrimSpace(sortType)) {
	case "asc", "1":
		p.SortDesc = false
	case "desc", "-1":
		p.SortDesc = true
	}

	return p, nil
}

// Default returns the first page with the default limit ordered by column desc.
func Default(column string) Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit, SortColumn: column, SortDesc: true}
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		// too large to parse still means "far past the end"
		return math.MaxInt
	}
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Paginate counts the rows matched by query and loads the requested page.
// query must already carry its Model and filters. A page past the end yields
// empty items rather than an error.
func Paginate[T any](ctx context.Context, query *gorm.DB, p Params) (*Page[T], error) {
	base := query.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count page rows: %w", err)
	}

	items := make([]T, 0)
	if total > 0 && int64(p.Offset()) < total {
		err := base.
			Order(clause.OrderByColumn{Column: clause.Column{Name: p.SortColumn}, Desc: p.SortDesc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("load page rows: %w", err)
		}
	}

	return NewPage(items, total, p), nil
}
