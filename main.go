package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"quiz_web/internal/api"
	"quiz_web/internal/models"
	"quiz_web/internal/repository"
	"quiz_web/internal/service"
	"quiz_web/internal/storage"
	"quiz_web/pkg/config"
	"quiz_web/pkg/utils"
)

func main() {
	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息、計分常數和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 載入 JWT 簽章設定
	utils.Init(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// 初始化資料庫連接
	// 使用配置中的信息建立到 PostgreSQL 數據庫的連接
	db, err := storage.NewPostgresDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	// 根據定義的模型自動創建或更新數據庫表結構，
	// 唯一索引在這裡一併建立：(房間,用戶) 的參與和成績、(回合,題目,用戶) 的作答
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Participant{},
		&models.Question{},
		&models.Round{},
		&models.RoundQuestion{},
		&models.Answer{},
		&models.Score{},
	); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化 services
	services := service.NewServices(repos, cfg)

	// 設置 Gin 路由
	// 創建一個默認的 Gin 路由器並設置路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	// 使用配置中指定的地址啟動 HTTP 服務器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
