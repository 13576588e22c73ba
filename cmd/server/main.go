package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ksuzuki/todo-auth-api/internal/auth"
	"github.com/ksuzuki/todo-auth-api/internal/config"
	"github.com/ksuzuki/todo-auth-api/internal/database"
	"github.com/ksuzuki/todo-auth-api/internal/handler"
	"github.com/ksuzuki/todo-auth-api/internal/model"
	"github.com/ksuzuki/todo-auth-api/internal/queue"
	"github.com/ksuzuki/todo-auth-api/internal/router"
	"github.com/ksuzuki/todo-auth-api/internal/store"
)

const (
	tokenIssuer   = "todo-api"
	tokenAudience = "todo-app"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	todos, err := buildTodoStore(cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	users := store.NewUserStore()
	tokens := auth.NewTokenService(
		cfg.AccessSecret, cfg.RefreshSecret,
		tokenIssuer, tokenAudience,
		cfg.AccessTTL, cfg.RefreshTTL,
	)

	if cfg.Env != "prod" {
		seedDemoAdmin(cfg, users)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), tokens, rdb)
	router.RegisterTodos(e, handler.NewTodoHandler(todos), tokens, rdb)
	router.RegisterAdmin(e, handler.NewAdminHandler(users), tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s storage=%s)", addr, cfg.Env, cfg.StorageDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildTodoStore selects the storage backend: process memory by default,
// SQLite when STORAGE_DRIVER=sqlite.
func buildTodoStore(cfg config.Config) (store.TodoStore, error) {
	if cfg.StorageDriver != "sqlite" {
		return store.NewMemoryTodoStore(), nil
	}
	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteTodoStore(db)
}

// seedDemoAdmin creates the demo administrator account used while
// developing. Skipped in prod.
func seedDemoAdmin(cfg config.Config, users *store.UserStore) {
	hash, err := auth.HashPassword("Admin123!", cfg.BcryptCost)
	if err != nil {
		log.Printf("demo admin: hash failed: %v", err)
		return
	}
	u, err := users.Create(store.CreateUserInput{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	})
	if err != nil {
		log.Printf("demo admin: create failed: %v", err)
		return
	}
	log.Printf("demo admin account created: %s / Admin123!", u.Email)
}
