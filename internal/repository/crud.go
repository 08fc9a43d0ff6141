package repository

import (
	"context"

	"gorm.io/gorm"
)

func findByID[T any](ctx context.Context, db *gorm.DB, id uint, op string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(op, err)
	}
	return &row, nil
}

// findOwned loads a row only when it belongs to userID.
func findOwned[T any](ctx context.Context, db *gorm.DB, userID, id uint, op string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&row).Error; err != nil {
		return nil, translate(op, err)
	}
	return &row, nil
}

func deleteOwned[T any](ctx context.Context, db *gorm.DB, userID, id uint, op string) error {
	res := db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(new(T))
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(op, gorm.ErrRecordNotFound)
	}
	return nil
}

func exists[T any](ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// distinctValues lists the distinct non-empty values of column in T's table.
func distinctValues[T any](ctx context.Context, db *gorm.DB, column, op string) ([]string, error) {
	out := []string{}
	err := db.WithContext(ctx).Model(new(T)).
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Distinct().Order(column+" ASC").Pluck(column, &out).Error
	if err != nil {
		return nil, translate(op, err)
	}
	return out, nil
}
