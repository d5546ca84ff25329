package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pamphlets/pamphlets/config"
	"github.com/pamphlets/pamphlets/internal/adapters/idp"
	redisadapter "github.com/pamphlets/pamphlets/internal/adapters/redis"
	"github.com/pamphlets/pamphlets/internal/data"
	"github.com/pamphlets/pamphlets/internal/ports"
	"github.com/pamphlets/pamphlets/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Gate     *service.Gate
	Users    *service.UserService
	Articles *service.ArticleService
	Comments *service.CommentService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users    *data.UserRepo
	Articles *data.ArticleRepo
	Comments *data.CommentRepo
	Sessions *redisadapter.SessionStore
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		Users:    data.NewUserRepo(db),
		Articles: data.NewArticleRepo(db),
		Comments: data.NewCommentRepo(db),
		Sessions: redisadapter.NewSessionStoreWithPrefix(redisClient, "session:"),
	}
}

// BuildServices wires repositories, adapters, and services into a container.
// An unusable auth configuration is returned as an error so startup aborts
// instead of serving guarded routes without a working auth service.
func BuildServices(deps ServiceDeps) (*ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	authSvc, err := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Users:       repos.Users,
		Sessions:    repos.Sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	gate := service.NewGate(authSvc, repos.Users)

	directory := buildDirectory(deps.Config.Auth.Directory, logger)

	userSvc := service.NewUserService(service.UserServiceOptions{
		Gate:      gate,
		Users:     repos.Users,
		Sessions:  repos.Sessions,
		Directory: directory,
		Logger:    logger,
	})

	return &ServiceContainer{
		Auth:     authSvc,
		Gate:     gate,
		Users:    userSvc,
		Articles: service.NewArticleService(gate, repos.Articles),
		Comments: service.NewCommentService(gate, repos.Comments),
	}, nil
}

// buildDirectory creates the external identity directory client, or nil when
// not configured. Account deletion works without it; only the provider-side
// identity cleanup is skipped.
func buildDirectory(cfg config.DirectoryConfig, logger *slog.Logger) ports.IdentityDirectory {
	if cfg.BaseURL == "" {
		return nil
	}
	dir, err := idp.NewDirectory(idp.DirectoryConfig{
		BaseURL:  cfg.BaseURL,
		APIToken: cfg.APIToken,
	})
	if err != nil {
		logger.Warn("identity directory disabled", "error", err)
		return nil
	}
	return dir
}
