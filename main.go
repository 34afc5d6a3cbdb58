// @title SkillPath 后端 API
// @version 1.0
// @description 自适应学习路径规划服务：技能缺口分析、按周课程与每日目标。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"skillpath_backend/internal/app"
	"skillpath_backend/internal/config"
	"skillpath_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	watch := flag.Bool("watch-config", true, "监听配置文件变更并热更新")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return
	}

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		application.WatchConfig(ctx, filepath.Join(*configDir, "config.yaml"))
	}

	application.Run()
}
