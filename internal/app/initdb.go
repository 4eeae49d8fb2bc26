package app

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/canevoj/standarium/config"
	"github.com/canevoj/standarium/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	loglevel := gormlogger.Silent
	if cfg.Debug {
		loglevel = gormlogger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(path.Join(workdir, cfg.Name+".db"))
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=America/Sao_Paulo",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(loglevel),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

// checkSuper ensures a default account exists so a fresh install can sign in.
func (a *Application) checkSuper() {
	const superEmail = "admin@standarium.local"
	const defaultPassword = "standarium"

	var account domain.SysAccount
	err := a.gormDB.Where("email = ?", superEmail).First(&account).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			zap.L().Error("failed to query super account", zap.Error(err))
		}
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default password", zap.Error(err))
		return
	}
	if err := a.gormDB.Create(&domain.SysAccount{
		Email:     superEmail,
		Password:  string(hashed),
		LastLogin: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to create default account", zap.Error(err))
		return
	}
	zap.L().Info("initialized default account", zap.String("email", superEmail))
}

// checkSettings initializes missing sys_config entries with defaults.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Sort: 1, Type: "system", Name: "SystemTitle", Value: "Standarium ERP", Remark: "Dashboard title"},
		{Sort: 2, Type: "system", Name: "Currency", Value: "BRL", Remark: "Display currency"},
		{Sort: 3, Type: "bizural", Name: "MarkupPercent", Value: "30", Remark: "Build-cost quote markup percent"},
		{Sort: 4, Type: "session", Name: "IdleMinutes", Value: "240", Remark: "Session idle timeout in minutes"},
		{Sort: 5, Type: "oplog", Name: "RetentionDays", Value: "365", Remark: "Operation log retention"},
	}

	for _, def := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", def.Type, def.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&def)
			zap.L().Info("initialized config",
				zap.String("key", def.Type+"."+def.Name),
				zap.String("default", def.Value))
		}
	}
}

// checkDemoComponents seeds the build-cost checklist for the default account
// so the calculator page is not empty on first run.
func (a *Application) checkDemoComponents() {
	var account domain.SysAccount
	if err := a.gormDB.Where("email = ?", "admin@standarium.local").First(&account).Error; err != nil {
		return
	}

	var count int64
	a.gormDB.Model(&domain.Component{}).Where("user_id = ?", account.ID).Count(&count)
	if count > 0 {
		return
	}

	demo := []domain.Component{
		{UserID: account.ID, Name: "Placa-mãe B450", Cost: 450},
		{UserID: account.ID, Name: "Fonte 500W", Cost: 220},
		{UserID: account.ID, Name: "Gabinete ATX", Cost: 160},
	}
	for i := range demo {
		demo[i].CreatedAt = time.Now()
		demo[i].UpdatedAt = time.Now()
		if err := a.gormDB.Create(&demo[i]).Error; err != nil {
			zap.L().Error("failed to seed component", zap.String("name", demo[i].Name), zap.Error(err))
		}
	}
	zap.L().Info("seeded demo components", zap.Int("count", len(demo)))
}
