package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/ai"
	googleauth "quickai-backend/internal/auth"
	"quickai-backend/internal/creations"
	"quickai-backend/internal/credits"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/imagegen/clipdrop"
	"quickai-backend/internal/llm"
	openai "quickai-backend/internal/llm/openai"
	"quickai-backend/internal/mediaedit"
	"quickai-backend/internal/mediaedit/cloudinary"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/server"
	"quickai-backend/internal/shared/storage/db"
	"quickai-backend/internal/shared/storage/object"
	localstore "quickai-backend/internal/shared/storage/object/local"
	s3store "quickai-backend/internal/shared/storage/object/s3"
	"quickai-backend/internal/users"
)

// App holds the wired application: router plus the shared dependencies tests
// reach into.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	CreationsRepo creations.Repo

	UsersService   *users.Service
	CreditsService *credits.Service
	AIService      *ai.Service

	AIHandler        *ai.Handler
	CreationsHandler *creations.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares dependencies and assembles the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		AIHandler:        app.AIHandler,
		CreationsHandler: app.CreationsHandler,
		GoogleAuth:       app.GoogleAuth,
		UsersService:     app.UsersService,
		CreditsService:   app.CreditsService,
		Store:            app.Store,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var userRepo users.Repo
	var creationRepo creations.Repo
	var creditStore credits.Store

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		creationRepo = &creations.PGRepo{DB: app.DB}
		creditStore = credits.NewPGStore(app.DB)
	} else {
		userRepo = users.NewMemoryRepo()
		creationRepo = creations.NewMemoryRepo()
		creditStore = credits.NewMemoryStore()
	}

	userSvc := users.NewService(userRepo)
	creditSvc := credits.NewServiceWithStore(creditStore)

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}
	images, err := buildImages(app.Config)
	if err != nil {
		return err
	}
	editor, err := buildEditor(app.Config)
	if err != nil {
		return err
	}

	aiSvc := ai.NewService(creditSvc, creationRepo, llmClient, images, editor, app.Store, app.Config.PublicBaseURL)

	app.UsersRepo = userRepo
	app.CreationsRepo = creationRepo
	app.UsersService = userSvc
	app.CreditsService = creditSvc
	app.AIService = aiSvc
	app.AIHandler = ai.NewHandler(aiSvc)
	app.CreationsHandler = creations.NewHandler(creationRepo)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
	return nil
}

// buildLLM returns the configured chat-completion client. Dev environments
// without credentials get a placeholder that fails the operation cleanly.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: LLM_API_KEY empty; text capabilities disabled")
			return placeholderLLM{}, nil
		}
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	return openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
}

func buildImages(cfg config.Config) (imagegen.Generator, error) {
	if strings.TrimSpace(cfg.ClipdropAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: CLIPDROP_API_KEY empty; image generation disabled")
			return placeholderImages{}, nil
		}
		return nil, fmt.Errorf("CLIPDROP_API_KEY is required")
	}
	return clipdrop.NewClient(cfg.ClipdropAPIKey)
}

func buildEditor(cfg config.Config) (mediaedit.Editor, error) {
	if strings.TrimSpace(cfg.CloudinaryAPISecret) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: Cloudinary credentials empty; removal capabilities disabled")
			return placeholderEditor{}, nil
		}
		return nil, fmt.Errorf("Cloudinary credentials are required")
	}
	return cloudinary.NewClient(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
}

var errProviderNotConfigured = errors.New("provider not configured")

type placeholderLLM struct{}

func (placeholderLLM) Complete(context.Context, llm.CompletionInput) (string, error) {
	return "", errProviderNotConfigured
}

type placeholderImages struct{}

func (placeholderImages) Generate(context.Context, string) ([]byte, error) {
	return nil, errProviderNotConfigured
}

type placeholderEditor struct{}

func (placeholderEditor) RemoveBackground(context.Context, []byte) (string, error) {
	return "", errProviderNotConfigured
}

func (placeholderEditor) RemoveObject(context.Context, []byte, string) (string, error) {
	return "", errProviderNotConfigured
}
