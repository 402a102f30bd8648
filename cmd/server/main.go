package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/logger"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/repository/mongostore"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

// stores is the storage backend chosen by STORE_DRIVER.
type stores struct {
	users     repository.UserStore
	tokens    repository.TokenStore
	directors repository.DirectorStore
	actors    repository.ActorStore
	movies    repository.MovieStore
	ping      handler.Check
	close     func()
}

func openSQL(ctx context.Context, cfg config.Config) (stores, error) {
	db, err := database.Open(ctx, database.MySQLOptions{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return stores{}, err
	}
	if err := database.Migrate(ctx, db, database.MySQL); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		directors: repository.NewDirectorRepo(db),
		actors:    repository.NewActorRepo(db),
		movies:    repository.NewMovieRepo(db),
		ping:      db.PingContext,
		close:     func() { closeSQL(db) },
	}, nil
}

func closeSQL(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("close mysql", "err", err)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (stores, error) {
	client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return stores{}, err
	}
	return stores{
		users:     mongostore.NewUserStore(db),
		tokens:    mongostore.NewTokenStore(db),
		directors: mongostore.NewDirectorStore(db),
		actors:    mongostore.NewActorStore(db),
		movies:    mongostore.NewMovieStore(db),
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:     func() { closeMongo(client) },
	}, nil
}

func closeMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("close mongo", "err", err)
	}
}

func main() {
	_ = godotenv.Load() // a missing .env is fine; real env wins
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogDebug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := openSQL
	if cfg.StoreDriver == config.DriverMongo {
		open = openMongo
	}
	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := open(startCtx, cfg)
	cancel()
	if err != nil {
		logger.Error("open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable: response cache and rate limit disabled, lists kept in memory")
	} else {
		defer rdb.Close()
	}

	var events queue.Publisher = queue.Nop{}
	if cfg.AMQPURL != "" {
		events = queue.NewAMQPPublisher(cfg.AMQPURL)
		if cfg.EventsConsumer {
			go func() {
				if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, cfg.EventsLogDir); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("audit consumer stopped", "err", err)
				}
			}()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = middleware.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	var limiter echo.MiddlewareFunc
	if rdb != nil {
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}
	deps := handler.Deps{Users: st.users, Events: events, Cache: cache}

	checks := map[string]handler.Check{"store": st.ping}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	router.RegisterRoutes(e, checks)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, st.users, st.tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, router.Catalog{
		Directors: handler.NewDirectorHandler(st.directors, deps),
		Actors:    handler.NewActorHandler(st.actors, deps),
		Movies:    handler.NewMovieHandler(st.movies, deps),
	}, cfg.JWTSecret, cache, limiter)
	router.RegisterLists(e, handler.NewListHandler(listStore(rdb)), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
}

func listStore(rdb *redis.Client) watchlist.Store {
	if rdb == nil {
		return watchlist.NewMemoryStore()
	}
	return watchlist.NewRedisStore(rdb, "catalog:lists")
}
