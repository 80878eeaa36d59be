package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// paginate applies whitelisted ordering and paging to a query
func paginate(query *gorm.DB, filter shared.Filter, sort Sortable) *gorm.DB {
	f := filter.Normalize()
	return query.Order(sort.Clause(f.OrderBy, f.OrderDir)).Offset(f.Offset()).Limit(f.PageSize)
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// updateOwned writes every column of model for the row (tenantID, id)
func updateOwned(ctx context.Context, db *gorm.DB, model interface{}, tenantID, id uuid.UUID) error {
	result := db.WithContext(ctx).
		Model(model).
		Scopes(tenant.Owned(tenantID, id)).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// deleteOwned hard-deletes the row (tenantID, id) of model's table
func deleteOwned(ctx context.Context, db *gorm.DB, model interface{}, tenantID, id uuid.UUID) error {
	result := db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
