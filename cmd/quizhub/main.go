package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/config"
	"github.com/quizhub/backend/internal/es"
	"github.com/quizhub/backend/internal/httpserver"
	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/mykafka"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, question search disabled", "error", err)
		esClient = nil
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
		defer producer.Close()
	}

	gormRepo := &repo.GormRepo{DB: db}
	authz := &service.AuthzService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:      gormRepo,
		JWTSecret: []byte(cfg.JWT_SECRET),
		AccessTTL: cfg.AccessTokenTTL,
		Producer:  producer,
	}
	quizSvc := &service.QuizService{Repo: gormRepo, Producer: producer}
	scoringSvc := &service.ScoringService{Repo: gormRepo}

	unprotected := httpserver.UnprotectedPaths()
	guard := &middleware.AccessGuard{
		Repo:        gormRepo,
		Authz:       authz,
		JWTSecret:   []byte(cfg.JWT_SECRET),
		Unprotected: unprotected,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Guard:       guard,
		Auth:        &httpserver.AuthHTTP{Svc: authSvc},
		Users:       &httpserver.UserHTTP{Repo: gormRepo},
		Roles:       &httpserver.RoleHTTP{Repo: gormRepo},
		Content:     &httpserver.ContentHTTP{Repo: gormRepo},
		Questions:   &httpserver.QuestionHTTP{Repo: gormRepo, ES: esClient, ESIndex: cfg.ES_INDEX, Producer: producer},
		Choices:     &httpserver.AnswerChoiceHTTP{Repo: gormRepo},
		Sets:        &httpserver.QuestionSetHTTP{Repo: gormRepo},
		Sessions:    &httpserver.SessionHTTP{Svc: quizSvc},
		Responses:   &httpserver.ResponseHTTP{Repo: gormRepo},
		Groups:      &httpserver.GroupHTTP{Repo: gormRepo},
		Leaderboard: &httpserver.LeaderboardHTTP{Svc: scoringSvc},
		Search:      &httpserver.SearchHTTP{ES: esClient, ESIndex: cfg.ES_INDEX},
	})

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	startCtx = logging.IntoContext(startCtx, logger)
	if err := bootstrap(startCtx, gormRepo, unprotected, e); err != nil {
		cancel()
		log.Fatalf("bootstrap error: %v", err)
	}
	cancel()

	go func() {
		logger.Info("server_starting", "address", cfg.HTTP_ADDRESS)
		if err := e.Start(cfg.HTTP_ADDRESS); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
}

// bootstrap reconciles the permission table against the registered routes and
// makes sure a default role exists so registration never fails on an empty
// database.
func bootstrap(ctx context.Context, r *repo.GormRepo, unprotected map[string]bool, e *echo.Echo) error {
	routes := make([]service.RouteInfo, 0, len(e.Routes()))
	for _, rt := range e.Routes() {
		routes = append(routes, service.RouteInfo{Method: rt.Method, Path: rt.Path})
	}

	reconciler := &service.Reconciler{Repo: r, Unprotected: unprotected}
	if _, err := reconciler.Reconcile(ctx, routes); err != nil {
		return err
	}

	if _, err := r.GetDefaultRole(ctx); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.CreateRole(ctx, &models.Role{Name: "user", Default: true}); err != nil {
			return err
		}
	}
	return nil
}
