package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"carelog/internal/config"
	"carelog/internal/handler"
	"carelog/internal/logger"
	"carelog/internal/middleware"
	"carelog/internal/model"
	"carelog/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	middleware.JWTSecret = []byte(cfg.Auth.Secret)
	if cfg.Auth.TokenTTLHours > 0 {
		middleware.TokenTTL = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(model.Entities()...); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}
	if err := seed(db); err != nil {
		slog.Error("db seed failed", "err", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(db)
	diarySvc := service.NewDiaryService(db)
	statusSvc := service.NewStatusService(db)
	pointSvc := service.NewPointService(db)
	rankingSvc := service.NewRankingService(db)
	adminSvc := service.NewAdminService(db)

	authH := handler.NewAuthHandler(authSvc)
	diaryH := handler.NewDiaryHandler(diarySvc, statusSvc, authSvc)
	rankingH := handler.NewRankingHandler(rankingSvc, pointSvc)
	adminH := handler.NewAdminHandler(adminSvc, diarySvc)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	r.POST("/api/register", authH.Register)

	api := r.Group("/api", middleware.JWTAuth())
	api.GET("/staff", authH.Staff)
	api.GET("/job_types", authH.JobTypes)
	api.PUT("/profile", authH.UpdateProfile)
	api.PUT("/profile/password", authH.UpdatePassword)
	api.GET("/categories", diaryH.Categories)
	api.POST("/diaries", diaryH.Create)
	api.GET("/diaries", diaryH.List)
	api.GET("/diaries/:id", diaryH.Get)
	api.PUT("/diaries/:id", diaryH.Update)
	api.DELETE("/diaries/:id", diaryH.Delete)
	api.POST("/diaries/:id/status", diaryH.Toggle)
	api.POST("/mentions/resolve", diaryH.ResolveMentions)
	api.GET("/ranking", rankingH.Ranking)
	api.GET("/points/history", rankingH.History)
	api.GET("/points/monthly", rankingH.Monthly)

	admin := api.Group("/admin", middleware.AdminOnly())
	admin.GET("/staff/pending", adminH.Pending)
	admin.POST("/staff/:id/approve", adminH.Approve)
	admin.PUT("/staff/:id", adminH.UpdateStaff)
	admin.PUT("/staff/:id/role", adminH.SetRole)
	admin.PUT("/diaries/:id/hidden", adminH.SetHidden)
	admin.GET("/points/export", adminH.ExportPoints)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}

// seed fills the reference tables on first start.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		categories := []model.Category{
			{Name: "診察", IsActive: true},
			{Name: "看護", IsActive: true},
			{Name: "事務", IsActive: true},
			{Name: "その他", IsActive: true},
		}
		if err := db.Create(&categories).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&model.JobType{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		jobs := []model.JobType{
			{Name: "医師", IsActive: true},
			{Name: "看護師", IsActive: true},
			{Name: "受付", IsActive: true},
			{Name: "事務", IsActive: true},
		}
		if err := db.Create(&jobs).Error; err != nil {
			return err
		}
	}
	return nil
}
