package service

import (
	"context"
	"fmt"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/mysql"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// calendarConcurrency 日历按好友并发查询的上限
const calendarConcurrency = 8

// FeedService 跨好友聚合：信息流、故事、日历
type FeedService struct {
	fundings   *mysql.FundingRepository
	consumers  *mysql.ConsumerRepository
	friends    *FriendService
	visibility *Visibility
	log        *zap.Logger
}

func NewFeedService(db *gorm.DB, friends *FriendService, log *zap.Logger) *FeedService {
	return &FeedService{
		fundings:   &mysql.FundingRepository{DB: db},
		consumers:  &mysql.ConsumerRepository{DB: db},
		friends:    friends,
		visibility: NewVisibility(friends),
		log:        log,
	}
}

// Feed 先分页再过滤：被过滤掉的私密 funding 会让本页少于 size 条，HasNext 仍以分页结果为准
func (s *FeedService) Feed(ctx context.Context, viewerID uint64, page model.PageRequest) (model.Slice[model.Funding], error) {
	friendIDs, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return model.Slice[model.Funding]{}, err
	}
	slice, err := s.fundings.SliceByOwners(ctx, friendIDs, mysql.FundingFilter{}, page)
	if err != nil {
		return model.Slice[model.Funding]{}, fmt.Errorf("feed of %d: %w", viewerID, err)
	}
	visible, err := s.visibility.FilterVisible(ctx, viewerID, slice.Items)
	if err != nil {
		return model.Slice[model.Funding]{}, err
	}
	if dropped := len(slice.Items) - len(visible); dropped > 0 {
		s.log.Debug("feed private fundings filtered", zap.Uint64("viewer_id", viewerID), zap.Int("dropped", dropped))
	}
	slice.Items = visible
	return slice, nil
}

// Story 某个用户进行中的 funding，按开始日期升序
func (s *FeedService) Story(ctx context.Context, viewerID, consumerID uint64) ([]model.Funding, error) {
	if viewerID != consumerID {
		if _, ok, err := s.consumers.FindByID(ctx, consumerID); err != nil {
			return nil, fmt.Errorf("find consumer %d: %w", consumerID, err)
		} else if !ok {
			return nil, pkg.ErrConsumerNotFound
		}
		if err := s.friends.RequireFriend(ctx, viewerID, consumerID); err != nil {
			return nil, err
		}
	}
	return s.inProgressOf(ctx, viewerID, consumerID)
}

// FriendsStory 所有好友的故事按好友列表顺序拼接，不做全局排序
func (s *FeedService) FriendsStory(ctx context.Context, viewerID uint64) ([]model.Funding, error) {
	friendIDs, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Funding, 0)
	for _, id := range friendIDs {
		list, err := s.inProgressOf(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

func (s *FeedService) inProgressOf(ctx context.Context, viewerID, ownerID uint64) ([]model.Funding, error) {
	includePrivate, err := s.visibility.IncludePrivate(ctx, viewerID, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := s.fundings.ListInProgress(ctx, ownerID, !includePrivate)
	if err != nil {
		return nil, fmt.Errorf("story of %d: %w", ownerID, err)
	}
	return list, nil
}

// Calendar 好友在 year-month 内的纪念日 funding。每个好友单独查询，
// 是否带私密由该好友有没有把 viewer 设为亲密好友决定
func (s *FeedService) Calendar(ctx context.Context, viewerID uint64, year, month int) ([]model.Funding, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, pkg.ErrInvalidParam
	}
	friendIDs, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	from, to := pkg.MonthRange(year, month)

	// 结果写进各自的槽位，拼接顺序与好友列表一致
	slots := make([][]model.Funding, len(friendIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(calendarConcurrency)
	for i, id := range friendIDs {
		g.Go(func() error {
			includePrivate, err := s.visibility.IncludePrivate(gctx, viewerID, id)
			if err != nil {
				return err
			}
			list, err := s.fundings.ListInMonth(gctx, id, from, to, !includePrivate)
			if err != nil {
				return fmt.Errorf("calendar of %d: %w", id, err)
			}
			slots[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Funding, 0)
	for _, list := range slots {
		out = append(out, list...)
	}
	return out, nil
}
