package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// findOptional 查询单条记录，不存在时返回 nil, nil
func findOptional[T any](ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// findTranslation 默认语言（locale 为空）没有翻译行
func findTranslation[T any](ctx context.Context, db *gorm.DB, ownerColumn, ownerID, locale string) (*T, error) {
	if locale == "" {
		return nil, nil
	}
	return findOptional[T](ctx, db, ownerColumn+" = ? AND locale = ?", ownerID, locale)
}

// findTranslations 批量读取翻译行，调用方按 owner 建索引
func findTranslations[T any](ctx context.Context, db *gorm.DB, ownerColumn string, ownerIDs []string, locale string) ([]T, error) {
	if locale == "" || len(ownerIDs) == 0 {
		return nil, nil
	}
	var rows []T
	err := db.WithContext(ctx).
		Where(ownerColumn+" IN ? AND locale = ?", ownerIDs, locale).
		Find(&rows).Error
	return rows, err
}
