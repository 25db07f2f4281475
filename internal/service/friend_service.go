package service

import (
	"context"
	"fmt"
	"sort"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/mysql"
	"Fundingift/internal/repository/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FriendService 有向好友图：A->B 与 B->A 是两条独立的边
type FriendService struct {
	repo      *mysql.FriendRepository
	consumers *mysql.ConsumerRepository
	cache     *redis.FriendCacheRepository
	log       *zap.Logger
}

// FriendView 好友列表项
type FriendView struct {
	ConsumerID uint64 `json:"consumer_id"`
	Name       string `json:"name"`
	IsFavorite bool   `json:"is_favorite"`
}

func NewFriendService(db *gorm.DB, cache *redis.FriendCacheRepository, log *zap.Logger) *FriendService {
	return &FriendService{
		repo:      &mysql.FriendRepository{DB: db},
		consumers: &mysql.ConsumerRepository{DB: db},
		cache:     cache,
		log:       log,
	}
}

// edgeState 先查缓存，未命中或缓存异常时回源数据库并回填。
// 版本号在读库前取，读库期间边被改过则不回填。
func (s *FriendService) edgeState(ctx context.Context, key model.FriendKey) (redis.EdgeState, error) {
	if st, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return st, nil
	} else if err != nil {
		s.log.Debug("friend cache get failed", zap.Stringer("edge", key), zap.Error(err))
	}

	ver, verErr := s.cache.Version(ctx, key)
	if verErr != nil {
		s.log.Debug("friend cache version failed", zap.Stringer("edge", key), zap.Error(verErr))
	}

	f, ok, err := s.repo.Find(ctx, key)
	if err != nil {
		return redis.EdgeAbsent, fmt.Errorf("find friend %s: %w", key, err)
	}
	st := redis.EdgeAbsent
	if ok {
		st = redis.EdgeStateOf(f)
	}
	if verErr == nil {
		if filled, err := s.cache.Fill(ctx, key, st, ver); err != nil {
			s.log.Debug("friend cache fill failed", zap.Stringer("edge", key), zap.Error(err))
		} else if !filled {
			s.log.Debug("friend cache fill skipped, edge changed", zap.Stringer("edge", key))
		}
	}
	return st, nil
}

// IsFriend 边 a->b 是否存在
func (s *FriendService) IsFriend(ctx context.Context, a, b uint64) (bool, error) {
	st, err := s.edgeState(ctx, model.FriendKey{From: a, To: b})
	if err != nil {
		return false, err
	}
	return st != redis.EdgeAbsent, nil
}

// IsFavorite owner 是否把 viewer 设为亲密好友，决定 viewer 能否看到 owner 的私密内容
func (s *FriendService) IsFavorite(ctx context.Context, owner, viewer uint64) (bool, error) {
	st, err := s.edgeState(ctx, model.FriendKey{From: owner, To: viewer})
	if err != nil {
		return false, err
	}
	return st == redis.EdgeFavorite, nil
}

// RequireFriend 不是好友时返回 ErrFriendNotFound
func (s *FriendService) RequireFriend(ctx context.Context, a, b uint64) error {
	ok, err := s.IsFriend(ctx, a, b)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.ErrFriendNotFound
	}
	return nil
}

// ToggleFavorite 翻转 from->to 的亲密标记，返回新值；反向边不受影响
func (s *FriendService) ToggleFavorite(ctx context.Context, from, to uint64) (bool, error) {
	if from == 0 || to == 0 || from == to {
		return false, pkg.ErrInvalidParam
	}
	key := model.FriendKey{From: from, To: to}
	favorite, ok, err := s.repo.ToggleFavorite(ctx, key)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", key, err)
	}
	if !ok {
		return false, pkg.ErrFriendNotFound
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("friend cache invalidate failed", zap.Stringer("edge", key), zap.Error(err))
	}
	s.log.Info("favorite toggled", zap.Stringer("edge", key), zap.Bool("favorite", favorite))
	return favorite, nil
}

// DeleteAllFriends 删除 consumerID 两个方向上的全部边，只能由本人操作
func (s *FriendService) DeleteAllFriends(ctx context.Context, requesterID, consumerID uint64) (int, error) {
	if requesterID != consumerID {
		return 0, pkg.ErrUnauthorized
	}
	keys, err := s.repo.DeleteAll(ctx, consumerID)
	if err != nil {
		return 0, fmt.Errorf("delete friends of %d: %w", consumerID, err)
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("friend cache invalidate failed", zap.Uint64("consumer_id", consumerID), zap.Error(err))
	}
	s.log.Info("friends deleted", zap.Uint64("consumer_id", consumerID), zap.Int("edges", len(keys)))
	return len(keys), nil
}

// Connect 建立双向好友关系，供入驻流程调用
func (s *FriendService) Connect(ctx context.Context, a, b uint64) error {
	if a == 0 || b == 0 || a == b {
		return pkg.ErrInvalidParam
	}
	for _, id := range []uint64{a, b} {
		if _, ok, err := s.consumers.FindByID(ctx, id); err != nil {
			return fmt.Errorf("find consumer %d: %w", id, err)
		} else if !ok {
			return pkg.ErrConsumerNotFound
		}
	}
	if err := s.repo.Connect(ctx, a, b); err != nil {
		return fmt.Errorf("connect %d and %d: %w", a, b, err)
	}
	key := model.FriendKey{From: a, To: b}
	if err := s.cache.Invalidate(ctx, key, key.Reverse()); err != nil {
		s.log.Warn("friend cache invalidate failed", zap.Stringer("edge", key), zap.Error(err))
	}
	return nil
}

// EdgesFrom consumerID 发出的边
func (s *FriendService) EdgesFrom(ctx context.Context, consumerID uint64) ([]model.Friend, error) {
	return s.repo.EdgesFrom(ctx, consumerID)
}

// EdgesTo 指向 consumerID 的边
func (s *FriendService) EdgesTo(ctx context.Context, consumerID uint64) ([]model.Friend, error) {
	return s.repo.EdgesTo(ctx, consumerID)
}

// FriendIDs viewer 的好友 id，顺序同 EdgesFrom
func (s *FriendService) FriendIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	edges, err := s.repo.EdgesFrom(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list friends of %d: %w", viewerID, err)
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ToConsumerID)
	}
	return ids, nil
}

// FavoritesOf 把 target 设为亲密好友的人，即 target 的通知受众
func (s *FriendService) FavoritesOf(ctx context.Context, target uint64) ([]uint64, error) {
	ids, err := s.repo.FavoritesOf(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("favorites of %d: %w", target, err)
	}
	return ids, nil
}

// ListFriends 亲密好友在前，其余按名字排序；已注销的用户不返回
func (s *FriendService) ListFriends(ctx context.Context, viewerID uint64) ([]FriendView, error) {
	edges, err := s.repo.EdgesFrom(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list friends of %d: %w", viewerID, err)
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ToConsumerID)
	}
	consumers, err := s.consumers.FindLiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load friends of %d: %w", viewerID, err)
	}
	names := make(map[uint64]string, len(consumers))
	for _, c := range consumers {
		names[c.ID] = c.Name
	}

	list := make([]FriendView, 0, len(edges))
	for _, e := range edges {
		name, ok := names[e.ToConsumerID]
		if !ok {
			continue
		}
		list = append(list, FriendView{ConsumerID: e.ToConsumerID, Name: name, IsFavorite: e.IsFavorite})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsFavorite != list[j].IsFavorite {
			return list[i].IsFavorite
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}
