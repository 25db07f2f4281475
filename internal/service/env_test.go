package service

import (
	"testing"
	"time"

	"Fundingift/internal/repository/redis"
	"Fundingift/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	friends   *FriendService
	fanout    *NotificationFanout
	fundings  *FundingService
	feed      *FeedService
	lifecycle Lifecycle
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mr, rdb := testutil.SetupRedis(t)
	log := zap.NewNop()

	friends := NewFriendService(db, redis.NewFriendCacheRepository(rdb, time.Hour), log)
	fanout := NewNotificationFanout(db, friends, log)
	lc := NewLifecycle(testutil.FixedClock, time.UTC)
	return &testEnv{
		db:        db,
		mr:        mr,
		friends:   friends,
		fanout:    fanout,
		fundings:  NewFundingService(db, friends, fanout, lc, log),
		feed:      NewFeedService(db, friends, log),
		lifecycle: lc,
	}
}

func day(offset int) time.Time {
	return testutil.Today.AddDate(0, 0, offset)
}
