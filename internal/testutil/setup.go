package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/repository/mysql"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Today 测试统一使用的"今天"
var Today = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

// FixedClock 固定在 Today 上午十点
func FixedClock() time.Time {
	return Today.Add(10 * time.Hour)
}

// SetupTestDB 每个测试一个独立的 SQLite 文件并建表，不依赖外部服务
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := mysql.Open(mysql.Options{Driver: mysql.DriverSQLite, DSN: dsn})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, mysql.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupRedis 内存版 redis
func SetupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func SeedConsumer(t *testing.T, db *gorm.DB, name string) model.Consumer {
	t.Helper()
	c := model.Consumer{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Catalog 一套商品目录：Product 有两个选项，Other 有一个
type Catalog struct {
	Product     model.Product
	Options     []model.ProductOption
	Other       model.Product
	OtherOption model.ProductOption
	Inactive    model.ProductOption
	Category    model.AnniversaryCategory
}

func SeedCatalog(t *testing.T, db *gorm.DB) Catalog {
	t.Helper()
	var c Catalog
	c.Product = model.Product{Name: "Wireless Earbuds", Price: 199000}
	require.NoError(t, db.Create(&c.Product).Error)
	c.Options = []model.ProductOption{
		{ProductID: c.Product.ID, Name: "White", Status: model.ProductOptionActive},
		{ProductID: c.Product.ID, Name: "Black", Status: model.ProductOptionActive},
	}
	require.NoError(t, db.Create(&c.Options).Error)
	c.Inactive = model.ProductOption{ProductID: c.Product.ID, Name: "Red", Status: "SOLD_OUT"}
	require.NoError(t, db.Create(&c.Inactive).Error)

	c.Other = model.Product{Name: "Scented Candle", Price: 32000}
	require.NoError(t, db.Create(&c.Other).Error)
	c.OtherOption = model.ProductOption{ProductID: c.Other.ID, Name: "Lavender", Status: model.ProductOptionActive}
	require.NoError(t, db.Create(&c.OtherOption).Error)

	c.Category = model.AnniversaryCategory{Name: "Birthday"}
	require.NoError(t, db.Create(&c.Category).Error)
	return c
}

// SeedFriends 建立 a<->b 两条边，favAB 表示 a 把 b 设为亲密好友
func SeedFriends(t *testing.T, db *gorm.DB, a, b uint64, favAB, favBA bool) {
	t.Helper()
	require.NoError(t, db.Create(&[]model.Friend{
		{ConsumerID: a, ToConsumerID: b, IsFavorite: favAB},
		{ConsumerID: b, ToConsumerID: a, IsFavorite: favBA},
	}).Error)
}

// SeedFunding 直接写库，绕过创建校验，方便构造任意状态
func SeedFunding(t *testing.T, db *gorm.DB, f model.Funding) model.Funding {
	t.Helper()
	if f.Status == "" {
		f.Status = model.FundingPreProgress
	}
	if f.StartDate.IsZero() {
		f.StartDate = Today
	}
	if f.AnniversaryDate.IsZero() {
		f.AnniversaryDate = f.StartDate
	}
	if f.EndDate.IsZero() {
		f.EndDate = f.AnniversaryDate
	}
	require.NoError(t, db.Omit("Consumer", "Product").Create(&f).Error)
	return f
}
