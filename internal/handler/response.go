package handler

import (
	"net/http"
	"strconv"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": "OK", "msg": "success", "data": data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": pkg.ErrInvalidParam.Code, "msg": msg})
}

// statusOf 错误大类到 HTTP 状态码
func statusOf(kind pkg.Kind) int {
	switch kind {
	case pkg.KindNotFound:
		return http.StatusNotFound
	case pkg.KindUnauthorized, pkg.KindNotFavorite:
		return http.StatusForbidden
	case pkg.KindInvalidState:
		return http.StatusConflict
	case pkg.KindOptionMismatch, pkg.KindValidation, pkg.KindInvalidParam:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail 业务错误原样返回 code/msg，其余错误只记日志不外泄
func fail(c *gin.Context, log *zap.Logger, err error) {
	if ae, isApp := pkg.AsAppError(err); isApp {
		c.JSON(statusOf(ae.Kind), gin.H{"code": ae.Code, "msg": ae.Msg})
		return
	}
	log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "msg": "internal error"})
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func pageOf(c *gin.Context) model.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return model.PageRequest{Page: page, Size: size}.Normalize()
}
