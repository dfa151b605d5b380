package repository

import (
	"context"
	"errors"
	"strings"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// findByID loads one row by primary key. A miss becomes a NotFound AppError
// named after resource; any other failure is internal.
func findByID[T any](ctx context.Context, db *gorm.DB, resource string, id uuid.UUID) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(resource, id)
		}
		return nil, models.NewInternalError(err)
	}
	return &row, nil
}

// existsByID reports whether a row with id exists in model's table.
func existsByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// isUniqueViolation recognises duplicate-key failures from postgres and sqlite,
// whether or not gorm translated them.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern matching q literally.
// Queries using it must declare ESCAPE '\'.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
