package handler

import (
	"Fundingift/internal/middleware"
	"Fundingift/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FriendHandler struct {
	svc  *service.FriendService
	feed *service.FeedService
	log  *zap.Logger
}

func NewFriendHandler(svc *service.FriendService, feed *service.FeedService, log *zap.Logger) *FriendHandler {
	return &FriendHandler{svc: svc, feed: feed, log: log}
}

// List 好友列表，亲密好友在前
func (h *FriendHandler) List(c *gin.Context) {
	list, err := h.svc.ListFriends(c.Request.Context(), middleware.ConsumerID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, list)
}

// DeleteAll 删除与该用户相连的所有好友边（双向）
func (h *FriendHandler) DeleteAll(c *gin.Context) {
	consumerID, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid consumer id")
		return
	}
	n, err := h.svc.DeleteAllFriends(c.Request.Context(), middleware.ConsumerID(c), consumerID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"deleted": n})
}

// ToggleFavorite 切换亲密好友
func (h *FriendHandler) ToggleFavorite(c *gin.Context) {
	toID, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid consumer id")
		return
	}
	favorite, err := h.svc.ToggleFavorite(c.Request.Context(), middleware.ConsumerID(c), toID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"is_favorite": favorite})
}

// FundingsStory 所有好友进行中的 funding
func (h *FriendHandler) FundingsStory(c *gin.Context) {
	list, err := h.feed.FriendsStory(c.Request.Context(), middleware.ConsumerID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingListOf(list))
}
