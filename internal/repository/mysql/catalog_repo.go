package mysql

import (
	"context"
	"errors"

	"Fundingift/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository 商品、选项、纪念日分类都是外部维护的只读数据
type CatalogRepository struct {
	DB *gorm.DB
}

// FindProduct 连同全部选项一起加载，用于校验选项归属
func (r *CatalogRepository) FindProduct(ctx context.Context, id uint64) (*model.Product, bool, error) {
	var p model.Product
	err := r.DB.WithContext(ctx).Preload("Options").First(&p, id).Error
	return found(&p, err)
}

// FindActiveOption 只返回上架中的选项
func (r *CatalogRepository) FindActiveOption(ctx context.Context, id uint64) (*model.ProductOption, bool, error) {
	var o model.ProductOption
	err := r.DB.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.ProductOptionActive).
		First(&o).Error
	return found(&o, err)
}

func (r *CatalogRepository) FindAnniversaryCategory(ctx context.Context, id uint64) (*model.AnniversaryCategory, bool, error) {
	var c model.AnniversaryCategory
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return found(&c, err)
}

func found[T any](v *T, err error) (*T, bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
