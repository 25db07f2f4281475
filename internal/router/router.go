package router

import (
	"Fundingift/internal/handler"
	"Fundingift/internal/middleware"
	"Fundingift/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Deps struct {
	Friends   *service.FriendService
	Fundings  *service.FundingService
	Feed      *service.FeedService
	Sessions  middleware.SessionStore // 可为 nil
	Log       *zap.Logger
	RateLimit rate.Limit
	RateBurst int
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Log), middleware.RateLimit(d.RateLimit, d.RateBurst))

	funding := handler.NewFundingHandler(d.Fundings, d.Feed, d.Log)
	friend := handler.NewFriendHandler(d.Friends, d.Feed, d.Log)

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	// funding 相关接口
	fundingGroup := r.Group("/api/fundings")
	fundingGroup.Use(middleware.AuthMiddleware(d.Sessions))
	{
		fundingGroup.POST("", funding.Create)
		fundingGroup.GET("/me", funding.Mine)
		fundingGroup.GET("/feeds", funding.Feeds)
		fundingGroup.GET("/calendar", funding.Calendar)
		fundingGroup.GET("/friends/:id", funding.OfFriend)
		fundingGroup.GET("/story/:id", funding.Story)
		fundingGroup.GET("/:id", funding.Detail)
		fundingGroup.DELETE("/:id", funding.Delete)
	}

	// 好友相关接口
	friendGroup := r.Group("/api/friends")
	friendGroup.Use(middleware.AuthMiddleware(d.Sessions))
	{
		friendGroup.GET("", friend.List)
		friendGroup.GET("/fundings-story", friend.FundingsStory)
		friendGroup.DELETE("/:id", friend.DeleteAll)
		friendGroup.PUT("/:id/toggle-favorite", friend.ToggleFavorite)
	}

	return r
}
