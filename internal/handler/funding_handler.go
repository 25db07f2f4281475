package handler

import (
	"strconv"

	"Fundingift/internal/middleware"
	"Fundingift/internal/pkg"
	"Fundingift/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FundingHandler struct {
	svc  *service.FundingService
	feed *service.FeedService
	log  *zap.Logger
}

func NewFundingHandler(svc *service.FundingService, feed *service.FeedService, log *zap.Logger) *FundingHandler {
	return &FundingHandler{svc: svc, feed: feed, log: log}
}

// Create 创建 funding
func (h *FundingHandler) Create(c *gin.Context) {
	var req createFundingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	// binding 已校验格式，这里不会失败
	start, _ := pkg.ParseDate(req.StartDate)
	anniversary, _ := pkg.ParseDate(req.AnniversaryDate)
	end, _ := pkg.ParseDate(req.EndDate)

	f, err := h.svc.CreateFunding(c.Request.Context(), middleware.ConsumerID(c), service.CreateFundingParams{
		ProductID:             req.ProductID,
		ProductOptionID:       req.ProductOptionID,
		AnniversaryCategoryID: req.AnniversaryCategoryID,
		Title:                 req.Title,
		Content:               req.Content,
		StartDate:             start,
		AnniversaryDate:       anniversary,
		EndDate:               end,
		IsPrivate:             req.IsPrivate,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingRespOf(f))
}

// Delete 删除 funding
func (h *FundingHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid funding id")
		return
	}
	if err := h.svc.DeleteFunding(c.Request.Context(), middleware.ConsumerID(c), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, nil)
}

// Detail funding 详情
func (h *FundingHandler) Detail(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid funding id")
		return
	}
	f, err := h.svc.GetFundingDetail(c.Request.Context(), middleware.ConsumerID(c), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingRespOf(f))
}

// Mine 我的 funding 列表，keyword 可选
func (h *FundingHandler) Mine(c *gin.Context) {
	s, err := h.svc.MyFundings(c.Request.Context(), middleware.ConsumerID(c), c.Query("keyword"), pageOf(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingSliceOf(s))
}

// OfFriend 某个好友的 funding 列表
func (h *FundingHandler) OfFriend(c *gin.Context) {
	friendID, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid consumer id")
		return
	}
	s, err := h.svc.FriendFundings(c.Request.Context(), middleware.ConsumerID(c), friendID, c.Query("keyword"), pageOf(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingSliceOf(s))
}

// Feeds 好友 funding 信息流
func (h *FundingHandler) Feeds(c *gin.Context) {
	s, err := h.feed.Feed(c.Request.Context(), middleware.ConsumerID(c), pageOf(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingSliceOf(s))
}

// Story 某个用户进行中的 funding
func (h *FundingHandler) Story(c *gin.Context) {
	consumerID, valid := pathID(c, "id")
	if !valid {
		badRequest(c, "invalid consumer id")
		return
	}
	list, err := h.feed.Story(c.Request.Context(), middleware.ConsumerID(c), consumerID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingListOf(list))
}

// Calendar 好友某月的纪念日 funding
func (h *FundingHandler) Calendar(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		badRequest(c, "invalid year/month")
		return
	}
	list, err := h.feed.Calendar(c.Request.Context(), middleware.ConsumerID(c), year, month)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, fundingListOf(list))
}
