package mysql

import (
	"fmt"
	"time"

	"Fundingift/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB 进程级连接，main 里初始化
var DB *gorm.DB

type Options struct {
	Driver  string
	DSN     string
	MaxOpen int
	MaxIdle int
	MaxLife time.Duration
}

// Open 按 driver 打开连接，仓储层只写方言无关的 SQL
func Open(opt Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opt.Driver {
	case DriverMySQL, "":
		dialector = mysql.Open(opt.DSN)
	case DriverPostgres:
		dialector = postgres.Open(opt.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opt.DSN)
	default:
		return nil, fmt.Errorf("db: unknown driver %q", opt.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// consumer 和商品目录归外部服务，不建外键
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opt.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(opt.MaxOpen)
	}
	if opt.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(opt.MaxIdle)
	}
	if opt.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(opt.MaxLife)
	}
	return db, nil
}

// InitDB 打开连接并赋值给全局 DB
func InitDB(opt Options) error {
	db, err := Open(opt)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// AutoMigrate 自动建表（开发阶段 OK）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Consumer{},
		&model.Friend{},
		&model.Product{},
		&model.ProductOption{},
		&model.AnniversaryCategory{},
		&model.Funding{},
		&model.NotificationOutbox{},
	)
}
