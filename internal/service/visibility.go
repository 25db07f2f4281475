package service

import (
	"context"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
)

// Visibility 私密 funding 的可见性判断，所有列表和详情都走这里
type Visibility struct {
	friends *FriendService
}

func NewVisibility(friends *FriendService) *Visibility {
	return &Visibility{friends: friends}
}

// CanView 单条查看：本人可见；否则必须是好友；私密的还要求发起人把 viewer 设为亲密好友
func (v *Visibility) CanView(ctx context.Context, viewerID uint64, f *model.Funding) error {
	if f.ConsumerID == viewerID {
		return nil
	}
	if err := v.friends.RequireFriend(ctx, viewerID, f.ConsumerID); err != nil {
		return err
	}
	if !f.IsPrivate {
		return nil
	}
	ok, err := v.friends.IsFavorite(ctx, f.ConsumerID, viewerID)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.ErrNotFavorite
	}
	return nil
}

// IncludePrivate 按发起人维度决定查询时要不要带上私密 funding
func (v *Visibility) IncludePrivate(ctx context.Context, viewerID, ownerID uint64) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	return v.friends.IsFavorite(ctx, ownerID, viewerID)
}

// FilterVisible 列表场景：不可见的私密 funding 直接剔除，不报错
func (v *Visibility) FilterVisible(ctx context.Context, viewerID uint64, list []model.Funding) ([]model.Funding, error) {
	favorite := make(map[uint64]bool)
	out := make([]model.Funding, 0, len(list))
	for _, f := range list {
		if !f.IsPrivate {
			out = append(out, f)
			continue
		}
		ok, seen := favorite[f.ConsumerID]
		if !seen {
			var err error
			if ok, err = v.IncludePrivate(ctx, viewerID, f.ConsumerID); err != nil {
				return nil, err
			}
			favorite[f.ConsumerID] = ok
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}
