// Command seed loads the fixture catalogue into the configured database.
// Safe to rerun: it refuses to touch a non-empty catalogue.
package main

import (
	"github.com/Laisky/zap"
	_ "github.com/joho/godotenv/autoload"

	"github.com/dastarkhwan/dastarkhwan/common"
	"github.com/dastarkhwan/dastarkhwan/common/logger"
	"github.com/dastarkhwan/dastarkhwan/model"
)

func main() {
	common.Init()
	logger.SetupLogger()

	model.InitDB()
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.Logger.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := model.SeedIfEmpty(); err != nil {
		logger.Logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Logger.Info("seed complete")
}
