package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateFundingParams 创建参数，日期按日历日处理
type CreateFundingParams struct {
	ProductID             uint64
	ProductOptionID       uint64
	AnniversaryCategoryID uint64
	Title                 string
	Content               string
	StartDate             time.Time
	AnniversaryDate       time.Time
	EndDate               time.Time
	IsPrivate             bool
}

type FundingService struct {
	fundings   *mysql.FundingRepository
	consumers  *mysql.ConsumerRepository
	catalog    *mysql.CatalogRepository
	friends    *FriendService
	visibility *Visibility
	fanout     *NotificationFanout
	lifecycle  Lifecycle
	log        *zap.Logger
}

func NewFundingService(db *gorm.DB, friends *FriendService, fanout *NotificationFanout, lifecycle Lifecycle, log *zap.Logger) *FundingService {
	return &FundingService{
		fundings:   &mysql.FundingRepository{DB: db},
		consumers:  &mysql.ConsumerRepository{DB: db},
		catalog:    &mysql.CatalogRepository{DB: db},
		friends:    friends,
		visibility: NewVisibility(friends),
		fanout:     fanout,
		lifecycle:  lifecycle,
		log:        log,
	}
}

// CreateFunding 校验顺序：发起人、商品、选项、选项归属、纪念日分类、日期规则
func (s *FundingService) CreateFunding(ctx context.Context, ownerID uint64, p CreateFundingParams) (*model.Funding, error) {
	owner, err := s.requireConsumer(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	product, ok, err := s.catalog.FindProduct(ctx, p.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", p.ProductID, err)
	}
	if !ok {
		return nil, pkg.ErrProductNotFound
	}

	option, ok, err := s.catalog.FindActiveOption(ctx, p.ProductOptionID)
	if err != nil {
		return nil, fmt.Errorf("find product option %d: %w", p.ProductOptionID, err)
	}
	if !ok {
		return nil, pkg.ErrProductOptionNotFound
	}

	if !product.HasOption(option.ID) {
		return nil, pkg.ErrProductOptionMismatch
	}

	category, ok, err := s.catalog.FindAnniversaryCategory(ctx, p.AnniversaryCategoryID)
	if err != nil {
		return nil, fmt.Errorf("find anniversary category %d: %w", p.AnniversaryCategoryID, err)
	}
	if !ok {
		return nil, pkg.ErrAnniversaryCategoryNotFound
	}

	if err := s.lifecycle.ValidateDates(p.StartDate, p.AnniversaryDate, p.EndDate); err != nil {
		return nil, err
	}

	f := &model.Funding{
		ConsumerID:            owner.ID,
		ProductID:             product.ID,
		ProductOptionID:       option.ID,
		AnniversaryCategoryID: category.ID,
		Title:                 strings.TrimSpace(p.Title),
		Content:               p.Content,
		StartDate:             pkg.DateOf(p.StartDate, nil),
		AnniversaryDate:       pkg.DateOf(p.AnniversaryDate, nil),
		EndDate:               pkg.DateOf(p.EndDate, nil),
		IsPrivate:             p.IsPrivate,
		Status:                s.lifecycle.InitialStatus(p.StartDate),
	}

	outbox := s.fanout.FundingCreated(ctx, owner)
	if err := s.fundings.Create(ctx, f, outbox); err != nil {
		return nil, fmt.Errorf("create funding: %w", err)
	}
	f.Consumer = owner
	f.Product = product

	s.log.Info("funding created",
		zap.Uint64("funding_id", f.ID),
		zap.Uint64("owner_id", owner.ID),
		zap.String("status", string(f.Status)),
		zap.Bool("private", f.IsPrivate),
		zap.Int("notifications", len(outbox)))
	return f, nil
}

// DeleteFunding 只有发起人能删，且只能删未开始的；软删除
func (s *FundingService) DeleteFunding(ctx context.Context, requesterID, fundingID uint64) error {
	err := s.fundings.Transaction(ctx, func(tx *mysql.FundingRepository) error {
		f, ok, err := tx.FindLive(ctx, fundingID)
		if err != nil {
			return fmt.Errorf("find funding %d: %w", fundingID, err)
		}
		if !ok {
			return pkg.ErrFundingNotFound
		}
		if f.ConsumerID != requesterID {
			return pkg.ErrUnauthorized
		}
		if !f.Deletable() {
			return pkg.ErrFundingNotDeletable
		}
		return tx.SoftDelete(ctx, f.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("funding deleted", zap.Uint64("funding_id", fundingID), zap.Uint64("owner_id", requesterID))
	return nil
}

// GetFundingDetail 单条查看，不可见时返回具体原因
func (s *FundingService) GetFundingDetail(ctx context.Context, viewerID, fundingID uint64) (*model.Funding, error) {
	f, ok, err := s.fundings.FindLive(ctx, fundingID)
	if err != nil {
		return nil, fmt.Errorf("find funding %d: %w", fundingID, err)
	}
	if !ok {
		return nil, pkg.ErrFundingNotFound
	}
	if err := s.visibility.CanView(ctx, viewerID, f); err != nil {
		return nil, err
	}
	return f, nil
}

// MyFundings 自己的 funding 不做可见性过滤
func (s *FundingService) MyFundings(ctx context.Context, ownerID uint64, keyword string, page model.PageRequest) (model.Slice[model.Funding], error) {
	return s.fundings.SliceByOwners(ctx, []uint64{ownerID}, mysql.FundingFilter{
		Keyword: strings.TrimSpace(keyword),
	}, page)
}

// FriendFundings 是否带私密 funding 在查询层面分支，而不是查完再过滤
func (s *FundingService) FriendFundings(ctx context.Context, viewerID, friendID uint64, keyword string, page model.PageRequest) (model.Slice[model.Funding], error) {
	if _, err := s.requireConsumer(ctx, friendID); err != nil {
		return model.Slice[model.Funding]{}, err
	}
	if err := s.friends.RequireFriend(ctx, viewerID, friendID); err != nil {
		return model.Slice[model.Funding]{}, err
	}
	includePrivate, err := s.visibility.IncludePrivate(ctx, viewerID, friendID)
	if err != nil {
		return model.Slice[model.Funding]{}, err
	}
	return s.fundings.SliceByOwners(ctx, []uint64{friendID}, mysql.FundingFilter{
		Keyword:    strings.TrimSpace(keyword),
		PublicOnly: !includePrivate,
	}, page)
}

func (s *FundingService) requireConsumer(ctx context.Context, id uint64) (*model.Consumer, error) {
	c, ok, err := s.consumers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find consumer %d: %w", id, err)
	}
	if !ok {
		return nil, pkg.ErrConsumerNotFound
	}
	return c, nil
}
