package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/mindengage-quiz/internal/api/http"
	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/events"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
	"github.com/mind-engage/mindengage-quiz/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config comes from cfg, so fall back to a dev logger here
		l, _ := logger.New("dev")
		l.Fatal("config", "error", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", "path", cfg.BlobBasePath, "error", err)
	}

	// --- Grading ---
	up := upstream.New(upstream.Config{BaseURL: cfg.UpstreamURL, Timeout: cfg.UpstreamTimeout})
	var evaluator grading.Evaluator = up
	if cfg.OfflineEvaluator {
		evaluator = grading.LocalEvaluator{MaxEditDistance: cfg.MaxEditDistance}
	}
	grader := grading.NewDefaultGrader(
		grading.WithPartialMulti(cfg.PartialCredit),
		grading.WithEvaluator(evaluator),
	)

	eventRepo := events.NewRepo(dbh, cfg.SiteID)
	svc := quiz.NewService(quiz.NewSQLStore(dbh), grader,
		quiz.WithFetcher(up),
		quiz.WithBlobStore(bs),
		quiz.WithEvents(eventRepo),
		quiz.WithLogger(log.With("component", "quiz")),
	)

	router := api.NewRouter(api.Deps{
		Service:        svc,
		Auth:           auth.NewAuthService(cfg.AuthHMACSecret),
		Admin:          auth.Admin{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		DevUsers:       cfg.DevUsers,
		Events:         eventRepo,
		Ready:          dbh.PingContext,
		Log:            log.With("component", "http"),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.UpstreamTimeout + 30*time.Second,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver,
			"upstream", cfg.UpstreamURL, "offline_evaluator", cfg.OfflineEvaluator)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	log.Info("stopped")
}
