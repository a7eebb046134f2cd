package main // todo-service: owner-scoped sections and tasks

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/auth"
	"github.com/1xev3/edev-backend/internal/config"
	"github.com/1xev3/edev-backend/internal/database"
	"github.com/1xev3/edev-backend/internal/handler"
	"github.com/1xev3/edev-backend/internal/queue"
	"github.com/1xev3/edev-backend/internal/repository"
	"github.com/1xev3/edev-backend/internal/router"
	queue_publisher "github.com/1xev3/edev-backend/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The todo service only verifies tokens issued by the user service, so
	// it is constructed from the same secrets.
	tokens, err := auth.NewTokenService(
		cfg.JWTSecret, cfg.JWTRefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	sections := repository.NewSectionRepo(db)
	tasks := repository.NewTaskRepo(db)

	// Background consumer writing task.completed events to logs/tasks.log.
	go func() {
		if err := queue.StartTaskConsumer(); err != nil {
			log.Printf("task-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterTodo(e,
		handler.NewSectionHandler(sections),
		handler.NewTaskHandler(tasks, queue_publisher.PublishTaskCompleted),
		tokens,
	)

	addr := ":" + cfg.Port
	log.Printf("todo-service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
