// Command server 积分账本服务
//
// @title Boost Ledger API
// @version 1.0
// @description 积分账本与互动领取服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/config"
	"github.com/d60-Lab/boost-ledger/pkg/database"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/monitor"
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Credit ledger and engagement claim service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置并初始化日志与 Sentry
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Development); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := monitor.Init(cfg.Sentry.DSN, cfg.Sentry.Environment); err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return db, nil
}
