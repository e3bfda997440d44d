package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"cardify-backend/internal/assemble"
	"cardify-backend/internal/cards"
	"cardify-backend/internal/imagegen"
	falgen "cardify-backend/internal/imagegen/fal"
	"cardify-backend/internal/llm"
	openai "cardify-backend/internal/llm/openai"
	"cardify-backend/internal/services/health"
	"cardify-backend/internal/shared/config"
	"cardify-backend/internal/shared/server"
	"cardify-backend/internal/shared/storage/d1"
	"cardify-backend/internal/shared/storage/db"
	"cardify-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo    users.Repo
	UsersService *users.Service
	PDFStore     *cards.MemoryStore
	CardsService *cards.Service

	CardsHandler *cards.Handler
	UsersHandler *users.Handler

	// StopSweeper stops the document store's background eviction loop.
	StopSweeper func()
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	usersRepo, sqlDB, err := buildUsersRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	usersSvc := users.NewService(usersRepo)

	interpreter, err := buildInterpreter(cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := buildRenderer(cfg)
	if err != nil {
		return nil, err
	}

	store := cards.NewMemoryStore(cards.MemoryStoreOptions{
		TTL:       cfg.PDFTTL,
		MirrorDir: cfg.PDFMirrorDir,
	})
	stopSweeper := store.StartSweeper(cfg.SweepInterval)

	cardsSvc := &cards.Service{
		Interpreter: interpreter,
		Renderer:    renderer,
		Assembler:   assemble.New(),
		Store:       store,
		Ledger:      usersSvc,
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		UsersRepo:    usersRepo,
		UsersService: usersSvc,
		PDFStore:     store,
		CardsService: cardsSvc,
		CardsHandler: cards.NewHandler(cardsSvc),
		UsersHandler: users.NewHandler(usersSvc),
		StopSweeper:  stopSweeper,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		CardsHandler: app.CardsHandler,
		UsersHandler: app.UsersHandler,
		HealthSvc:    health.NewService(),
	})

	return app, nil
}

// buildUsersRepo selects the user store: D1 when Cloudflare credentials are
// set, else Postgres when DATABASE_URL is set, else in-memory for dev.
func buildUsersRepo(ctx context.Context, cfg config.Config) (users.Repo, *sql.DB, error) {
	if strings.TrimSpace(cfg.CFAccountID) != "" || strings.TrimSpace(cfg.D1DatabaseID) != "" {
		client, err := d1.NewClient(cfg.CFAccountID, cfg.D1DatabaseID, cfg.CFAPIToken)
		if err != nil {
			return nil, nil, err
		}
		return &users.D1Repo{Client: client}, nil, nil
	}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err == nil {
			err = db.RunMigrations(ctx, sqlDB)
		}
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: database unavailable; using in-memory user repo: %v", err)
				return users.NewMemoryRepo(), nil, nil
			}
			return nil, nil, err
		}
		return &users.PGRepo{DB: sqlDB}, sqlDB, nil
	}

	if !isDevLike(cfg.Env) {
		return nil, nil, fmt.Errorf("a user store (CLOUDFLARE_ACCOUNT_ID or DATABASE_URL) is required in %s", cfg.Env)
	}
	log.Printf("bootstrap: no user store configured; using in-memory user repo")
	return users.NewMemoryRepo(), nil, nil
}

func buildInterpreter(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if strings.TrimSpace(apiKey) == "" && isDevLike(cfg.Env) {
		log.Printf("bootstrap: OPENAI_API_KEY empty; using placeholder LLM client")
		return llm.PlaceholderClient{}, nil
	}
	return openai.NewClient(apiKey, cfg.LLMModel)
}

func buildRenderer(cfg config.Config) (imagegen.Renderer, error) {
	if cfg.ImageProvider != "fal" {
		return imagegen.PlaceholderRenderer{}, nil
	}
	key := os.Getenv("FAL_KEY")
	if strings.TrimSpace(key) == "" && isDevLike(cfg.Env) {
		log.Printf("bootstrap: FAL_KEY empty; using placeholder image renderer")
		return imagegen.PlaceholderRenderer{}, nil
	}
	return falgen.NewClient(key)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
