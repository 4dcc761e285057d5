package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foxnut/internal/database"
	"foxnut/internal/models"
	"foxnut/pkg/config"
	"foxnut/pkg/logger"

	"github.com/spf13/cobra"
)

// registry 全部实体，迁移、导出、标签解析共用
var registry = models.NewRegistry()

var rootCmd = &cobra.Command{
	Use:   "foxnut",
	Short: "Bare-metal inventory management",
	Long: `foxnut manages the bare-metal inventory: data centers, racks,
servers, switches, disks, ports, users, roles, domains and tags.

Database connection and logging are configured through environment
variables (DB_DRIVER, DB_HOST, DB_PATH, LOG_LEVEL, ...) or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 初始化日志
		if err := logger.Initialize(cfg); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// 初始化数据库
		if err := database.Initialize(cfg); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		return database.SetupJoinTables(database.GetDB(), registry)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil {
			logger.GetLogger().Error("Failed to close database:", err)
		}
	},
}

func main() {
	// 收到中断信号时取消正在执行的数据库操作
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
