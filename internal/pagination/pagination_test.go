package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"vidtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testFields = SortFields{"createdAt": "created_at", "views": "views"}

func TestFromQuery_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"missing values", "", "", 1, 10},
		{"non numeric", "abc", "xyz", 1, 10},
		{"zero and negative", "0", "-5", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"limit capped", "1", "1000", 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromQuery(tt.page, tt.limit, "", "", testFields)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, "created_at", p.SortColumn)
			assert.True(t, p.SortDesc)
		})
	}
}

func TestFromQuery_Sort(t *testing.T) {
	t.Parallel()

	p, err := FromQuery("", "", "views", "asc", testFields)
	require.NoError(t, err)
	assert.Equal(t, "views", p.SortColumn)
	assert.False(t, p.SortDesc)

	p, err = FromQuery("", "", "views", "sideways", testFields)
	require.NoError(t, err)
	assert.True(t, p.SortDesc)

	_, err = FromQuery("", "", "password", "asc", testFields)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestNewPage_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		total      int64
		page       int
		limit      int
		totalPages int
		hasNext    bool
		hasPrev    bool
		counter    int
	}{
		{"empty", 0, 1, 10, 0, false, false, 1},
		{"single page", 7, 1, 10, 1, false, false, 1},
		{"first of three", 25, 1, 10, 3, true, false, 1},
		{"middle", 25, 2, 10, 3, true, true, 11},
		{"last exact", 30, 3, 10, 3, false, true, 21},
		{"past the end", 25, 9, 10, 3, false, true, 81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := NewPage[int](nil, tt.total, Params{Page: tt.page, Limit: tt.limit})
			assert.NotNil(t, pg.Items)
			assert.Equal(t, tt.totalPages, pg.TotalPages)
			assert.Equal(t, tt.hasNext, pg.HasNext)
			assert.Equal(t, tt.hasPrev, pg.HasPrev)
			assert.Equal(t, tt.counter, pg.PagingCounter)
			assert.Equal(t, tt.hasNext, pg.NextPage != nil)
			assert.Equal(t, tt.hasPrev, pg.PrevPage != nil)
		})
	}
}

func TestPage_MarshalJSON_Labels(t *testing.T) {
	t.Parallel()

	pg := NewPage([]string{"a", "b"}, 12, Params{Page: 2, Limit: 2})

	raw, err := json.Marshal(pg)
	require.NoError(t, err)
	var plain map[string]any
	require.NoError(t, json.Unmarshal(raw, &plain))
	assert.Len(t, plain["items"], 2)
	assert.Equal(t, float64(12), plain["totalItems"])
	assert.Equal(t, float64(3), plain["nextPage"])

	pg.WithLabels(Labels{
		Items:      "videos",
		TotalItems: "totalVideos",
		Limit:      "perPage",
		Page:       "currentPage",
		Meta:       "paginator",
	})
	raw, err = json.Marshal(pg)
	require.NoError(t, err)
	var labelled map[string]any
	require.NoError(t, json.Unmarshal(raw, &labelled))
	assert.Len(t, labelled["videos"], 2)
	meta, ok := labelled["paginator"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(12), meta["totalVideos"])
	assert.Equal(t, float64(2), meta["perPage"])
	assert.Equal(t, float64(2), meta["currentPage"])
	assert.Equal(t, float64(6), meta["totalPages"])
	assert.NotContains(t, labelled, "items")
}

type row struct {
	ID        int `gorm:"primaryKey"`
	Name      string
	Views     int
	CreatedAt time.Time
}

func setupRows(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&row{
			ID:        i,
			Name:      fmt.Sprintf("row-%d", i),
			Views:     i * 10,
			CreatedAt: start.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
	return db
}

func TestPaginate_OrdersAndSlices(t *testing.T) {
	db := setupRows(t, 25)
	ctx := context.Background()

	p, err := FromQuery("2", "10", "", "", testFields)
	require.NoError(t, err)

	pg, err := Paginate[row](ctx, db.Model(&row{}), p)
	require.NoError(t, err)

	require.Len(t, pg.Items, 10)
	assert.Equal(t, int64(25), pg.TotalItems)
	assert.Equal(t, 3, pg.TotalPages)
	// newest first: page 2 starts at the 11th newest row
	assert.Equal(t, 15, pg.Items[0].ID)
	assert.Equal(t, 6, pg.Items[9].ID)
}

func TestPaginate_FilterAndPastEnd(t *testing.T) {
	db := setupRows(t, 25)
	ctx := context.Background()

	filtered := db.Model(&row{}).Where("views > ?", 200)
	pg, err := Paginate[row](ctx, filtered, Params{Page: 1, Limit: 10, SortColumn: "views"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), pg.TotalItems)
	assert.Equal(t, 21, pg.Items[0].ID)

	pg, err = Paginate[row](ctx, db.Model(&row{}), Params{Page: 4, Limit: 10, SortColumn: "created_at", SortDesc: true})
	require.NoError(t, err)
	assert.Empty(t, pg.Items)
	assert.NotNil(t, pg.Items)
	assert.Equal(t, 3, pg.TotalPages)
	assert.False(t, pg.HasNext)
}

func TestPaginate_HugePageIsPastEnd(t *testing.T) {
	db := setupRows(t, 25)
	ctx := context.Background()

	for _, page := range []string{"9223372036854775807", "99999999999999999999999"} {
		t.Run(page, func(t *testing.T) {
			p, err := FromQuery(page, "10", "", "", testFields)
			require.NoError(t, err)
			assert.Greater(t, p.Page, 3)
			assert.Positive(t, p.Offset())

			pg, err := Paginate[row](ctx, db.Model(&row{}), p)
			require.NoError(t, err)
			assert.Empty(t, pg.Items)
			assert.Equal(t, 3, pg.TotalPages)
			assert.False(t, pg.HasNext)
			assert.Nil(t, pg.NextPage)
			assert.Positive(t, pg.PagingCounter)
		})
	}
}

func TestParams_OffsetSaturates(t *testing.T) {
	t.Parallel()

	p := Params{Page: math.MaxInt, Limit: 10}
	assert.Equal(t, math.MaxInt-10, p.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}
