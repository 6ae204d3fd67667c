package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dastarkhwan/dastarkhwan/common"
	"github.com/dastarkhwan/dastarkhwan/common/config"
	"github.com/dastarkhwan/dastarkhwan/common/logger"
)

var DB *gorm.DB

func chooseDB(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		// Use PostgreSQL
		return openPostgreSQL(dsn)
	case dsn != "":
		// Use MySQL
		return openMySQL(dsn)
	default:
		// Use SQLite
		return openSQLite()
	}
}

func openPostgreSQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using PostgreSQL as database")
	common.UsingPostgreSQL.Store(true)
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func openMySQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using MySQL as database")
	common.UsingMySQL.Store(true)
	normalized, err := common.EnsureMySQLDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "prepare MySQL DSN")
	}

	return gorm.Open(mysql.Open(normalized), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func openSQLite() (*gorm.DB, error) {
	logger.Logger.Info("SQL_DSN not set, using SQLite as database")
	common.UsingSQLite.Store(true)
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", common.SQLitePath, common.SQLiteBusyTimeout)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func InitDB() {
	var err error
	DB, err = chooseDB(config.SQLDSN)
	if err != nil {
		logger.Logger.Fatal("failed to initialize database", zap.Error(err))
		return
	}

	if config.DebugSQLEnabled {
		logger.Logger.Debug("debug sql enabled")
		DB = DB.Debug()
	}

	setDBConns(DB)

	logger.Logger.Info("database migration started")
	if err = migrateDB(); err != nil {
		logger.Logger.Fatal("failed to migrate database", zap.Error(err))
		return
	}
	logger.Logger.Info("database migration completed")
}

func migrateDB() error {
	var err error
	if err = DB.AutoMigrate(&DishCategory{}); err != nil {
		return errors.Wrap(err, "failed to migrate DishCategory")
	}
	if err = DB.AutoMigrate(&Dish{}); err != nil {
		return errors.Wrap(err, "failed to migrate Dish")
	}
	if err = DB.AutoMigrate(&GlobalConfig{}); err != nil {
		return errors.Wrap(err, "failed to migrate GlobalConfig")
	}
	if err = DB.AutoMigrate(&BudgetProfile{}); err != nil {
		return errors.Wrap(err, "failed to migrate BudgetProfile")
	}
	if err = DB.AutoMigrate(&GuestProfile{}); err != nil {
		return errors.Wrap(err, "failed to migrate GuestProfile")
	}
	if err = DB.AutoMigrate(&CombinationRule{}); err != nil {
		return errors.Wrap(err, "failed to migrate CombinationRule")
	}
	if err = DB.AutoMigrate(&GlobalConstraint{}); err != nil {
		return errors.Wrap(err, "failed to migrate GlobalConstraint")
	}
	if err = DB.AutoMigrate(&CategoryConstraint{}); err != nil {
		return errors.Wrap(err, "failed to migrate CategoryConstraint")
	}
	if err = DB.AutoMigrate(&MenuTemplate{}); err != nil {
		return errors.Wrap(err, "failed to migrate MenuTemplate")
	}
	if err = DB.AutoMigrate(&MenuDishPortion{}); err != nil {
		return errors.Wrap(err, "failed to migrate MenuDishPortion")
	}
	if err = DB.AutoMigrate(&MenuTemplatePriceTier{}); err != nil {
		return errors.Wrap(err, "failed to migrate MenuTemplatePriceTier")
	}
	if err = DB.AutoMigrate(&SiteSettings{}); err != nil {
		return errors.Wrap(err, "failed to migrate SiteSettings")
	}
	return nil
}

func setDBConns(db *gorm.DB) *sql.DB {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal("failed to connect database", zap.Error(err))
		return nil
	}

	sqlDB.SetMaxIdleConns(config.SQLMaxIdleConns)
	sqlDB.SetMaxOpenConns(config.SQLMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(config.SQLMaxLifetime))

	logger.Logger.Info("database connection pool configured",
		zap.Int("max_idle_conns", config.SQLMaxIdleConns),
		zap.Int("max_open_conns", config.SQLMaxOpenConns),
		zap.Int("max_lifetime_secs", config.SQLMaxLifetime))

	return sqlDB
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.Close())
}
