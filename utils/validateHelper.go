package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/retail_backend/config"
)

// ResourceCountWhere counts rows of model T matching the condition.
func ResourceCountWhere[T any](ctx context.Context, cond string, values ...interface{}) (int64, error) {
	db := config.GetDB()
	var count int64
	var model T
	err := db.WithContext(ctx).Model(&model).Where(cond, values...).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ValidateResourcesId checks that ALL ids exist for model M.
func ValidateResourcesId[M any, ID comparable](ctx context.Context, ids []ID) error {
	unqIds := UniqueSlice(ids)
	count, err := ResourceCountWhere[M](ctx, "id IN ?", unqIds)
	if err != nil {
		return err
	}
	if count != int64(len(unqIds)) {
		return ErrorRecordNotFound
	}
	return nil
}

// ValidateUnique checks a column value is not used by another row (id excluded,
// pass 0 on create).
func ValidateUnique[T any](ctx context.Context, field string, value interface{}, id int) error {
	count, err := ResourceCountWhere[T](ctx, field+" = ? AND id != ?", value, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("%s already in use", field)
	}
	return nil
}
