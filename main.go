// @title PodLab 后端 API
// @version 1.0
// @description PodLab 学习平台的后台管理与内容交付服务。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"podlab_backend/internal/app"
	"podlab_backend/internal/config"
	"podlab_backend/pkg/configwatcher"
	"podlab_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置文件热更新
	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
