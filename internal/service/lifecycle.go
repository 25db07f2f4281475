package service

import (
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
)

// MaxFundingDays 开始到结束最多 7 天
const MaxFundingDays = 7

// Lifecycle 日期校验和初始状态推导，"今天"按配置时区计算
type Lifecycle struct {
	Now pkg.Clock
	Loc *time.Location
}

func NewLifecycle(now pkg.Clock, loc *time.Location) Lifecycle {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return Lifecycle{Now: now, Loc: loc}
}

func (l Lifecycle) Today() time.Time {
	return pkg.DateOf(l.Now(), l.Loc)
}

// ValidateDates 按顺序校验：开始日不早于今天、纪念日不早于开始日、结束日不早于纪念日、跨度不超过 7 天
func (l Lifecycle) ValidateDates(start, anniversary, end time.Time) error {
	start, anniversary, end = pkg.DateOf(start, nil), pkg.DateOf(anniversary, nil), pkg.DateOf(end, nil)

	if start.Before(l.Today()) {
		return pkg.ErrStartDateInPast
	}
	if anniversary.Before(start) {
		return pkg.ErrAnniversaryBeforeStart
	}
	if end.Before(anniversary) {
		return pkg.ErrEndBeforeAnniversary
	}
	days := pkg.DaysBetween(start, end)
	if days < 0 {
		days = -days
	}
	if days > MaxFundingDays {
		return pkg.ErrDurationTooLong
	}
	return nil
}

// InitialStatus 只在创建时推导一次，之后不会随时间重算
func (l Lifecycle) InitialStatus(start time.Time) model.FundingStatus {
	if pkg.DateOf(start, nil).Equal(l.Today()) {
		return model.FundingInProgress
	}
	return model.FundingPreProgress
}
