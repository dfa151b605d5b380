package pagination

import "encoding/json"

// Page is one slice of an ordered result set plus its metadata.
type Page[T any] struct {
	Items         []T
	Page          int
	Limit         int
	TotalItems    int64
	TotalPages    int
	HasNext       bool
	HasPrev       bool
	NextPage      *int
	PrevPage      *int
	PagingCounter int

	labels Labels
}

// Labels renames page fields in the JSON output. Empty names keep the default.
// When Meta is set every field except Items is nested under that key.
type Labels struct {
	Items         string
	TotalItems    string
	Limit         string
	Page          string
	TotalPages    string
	HasNext       string
	HasPrev       string
	NextPage      string
	PrevPage      string
	PagingCounter string
	Meta          string
}

// DefaultLabels are the field names used when no override is given.
var DefaultLabels = Labels{
	Items:         "items",
	TotalItems:    "totalItems",
	Limit:         "limit",
	Page:          "page",
	TotalPages:    "totalPages",
	HasNext:       "hasNext",
	HasPrev:       "hasPrev",
	NextPage:      "nextPage",
	PrevPage:      "prevPage",
	PagingCounter: "pagingCounter",
}

// NewPage computes the metadata for items at position p within total rows.
func NewPage[T any](items []T, total int64, p Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	pg := &Page[T]{
		Items:         items,
		Page:          p.Page,
		Limit:         p.Limit,
		TotalItems:    total,
		TotalPages:    totalPages,
		HasPrev:       p.Page > 1,
		HasNext:       p.Page < totalPages,
		PagingCounter: p.Offset() + 1,
		labels:        DefaultLabels,
	}
	if pg.HasPrev {
		prev := p.Page - 1
		pg.PrevPage = &prev
	}
	if pg.HasNext {
		next := p.Page + 1
		pg.NextPage = &next
	}
	return pg
}

// WithLabels returns the page with overridden JSON field names.
func (pg *Page[T]) WithLabels(l Labels) *Page[T] {
	pg.labels = l.merge(DefaultLabels)
	return pg
}

func (l Labels) merge(def Labels) Labels {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Labels{
		Items:         pick(l.Items, def.Items),
		TotalItems:    pick(l.TotalItems, def.TotalItems),
		Limit:         pick(l.Limit, def.Limit),
		Page:          pick(l.Page, def.Page),
		TotalPages:    pick(l.TotalPages, def.TotalPages),
		HasNext:       pick(l.HasNext, def.HasNext),
		HasPrev:       pick(l.HasPrev, def.HasPrev),
		NextPage:      pick(l.NextPage, def.NextPage),
		PrevPage:      pick(l.PrevPage, def.PrevPage),
		PagingCounter: pick(l.PagingCounter, def.PagingCounter),
		Meta:          l.Meta,
	}
}

func (pg *Page[T]) MarshalJSON() ([]byte, error) {
	l := pg.labels
	if l.Items == "" {
		l = DefaultLabels
	}

	meta := map[string]any{
		l.TotalItems:    pg.TotalItems,
		l.Limit:         pg.Limit,
		l.Page:          pg.Page,
		l.TotalPages:    pg.TotalPages,
		l.HasNext:       pg.HasNext,
		l.HasPrev:       pg.HasPrev,
		l.NextPage:      pg.NextPage,
		l.PrevPage:      pg.PrevPage,
		l.PagingCounter: pg.PagingCounter,
	}

	out := map[string]any{l.Items: pg.Items}
	if l.Meta != "" {
		out[l.Meta] = meta
	} else {
		for k, v := range meta {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
