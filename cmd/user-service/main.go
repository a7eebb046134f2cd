package main // user-service: registration, login/logout/refresh and group management

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/auth"
	"github.com/1xev3/edev-backend/internal/config"
	"github.com/1xev3/edev-backend/internal/database"
	"github.com/1xev3/edev-backend/internal/handler"
	"github.com/1xev3/edev-backend/internal/middleware"
	"github.com/1xev3/edev-backend/internal/repository"
	"github.com/1xev3/edev-backend/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(
		cfg.JWTSecret, cfg.JWTRefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	users := repository.NewUserRepo(db)
	groups := repository.NewGroupRepo(db)

	if err := seedGroups(groups, cfg.DefaultGroupsPath); err != nil {
		log.Fatalf("seed groups: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), config.NewRedisClient())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), tokens, limiter)
	router.RegisterGroups(e, handler.NewGroupHandler(groups))

	addr := ":" + cfg.Port
	log.Printf("user-service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedGroups applies the default groups file via upsert so restarting the
// service never duplicates entries.
func seedGroups(groups *repository.GroupRepo, path string) error {
	seeds, err := config.LoadDefaultGroups(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range seeds {
		if err := groups.Upsert(ctx, s.Name); err != nil {
			return err
		}
	}
	log.Printf("seeded %d default groups from %s", len(seeds), path)
	return nil
}
