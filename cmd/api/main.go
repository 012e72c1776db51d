package main

import (
	"log"
	"log/slog"

	"rivalwatch/db"
	"rivalwatch/internal/access"
	"rivalwatch/internal/config"
	"rivalwatch/internal/handler"
	"rivalwatch/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db.DB)
	cache := access.NewOwnedIDCache(cfg.OwnedCacheTTL)
	resolver := access.NewResolver(store, cache, cfg.BaseScopeIncludeSubscribed)

	companyHandler := handler.NewCompanyHandler(store, resolver)
	newsHandler := handler.NewNewsHandler(store, resolver)
	prefsHandler := handler.NewPrefsHandler(store)
	digestHandler := handler.NewDigestHandler(store)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User-ID"},
	}))

	r.GET("/companies", companyHandler.ListCompanies)
	r.GET("/companies/stats", companyHandler.GetCompanyStats)
	r.GET("/companies/:id", companyHandler.GetCompany)
	r.POST("/companies", companyHandler.CreateCompany)
	r.PUT("/companies/:id", companyHandler.RenameCompany)
	r.DELETE("/companies/:id", companyHandler.DeleteCompany)
	r.GET("/news", newsHandler.ListNews)
	r.GET("/news/:id", newsHandler.GetNewsItem)
	r.GET("/subscriptions", prefsHandler.GetSubscriptions)
	r.PUT("/subscriptions", prefsHandler.ReplaceSubscriptions)
	r.GET("/digests", digestHandler.GetDigests)
	r.GET("/notifications", digestHandler.GetNotifications)
	r.GET("/health", companyHandler.GetHealth)

	err = r.Run(cfg.Addr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
