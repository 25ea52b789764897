package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/bloops-games/imposter/internal/cache/cachelru"
	"github.com/bloops-games/imposter/internal/database"
	chatDb "github.com/bloops-games/imposter/internal/database/chat/database"
	scoreDb "github.com/bloops-games/imposter/internal/database/score/database"
	statDb "github.com/bloops-games/imposter/internal/database/stat/database"
	userDb "github.com/bloops-games/imposter/internal/database/user/database"
	"github.com/bloops-games/imposter/internal/imposterbot"
	"github.com/bloops-games/imposter/internal/imposterbot/resource"
	"github.com/bloops-games/imposter/internal/logging"
	"github.com/bloops-games/imposter/internal/server"
	"github.com/bloops-games/imposter/internal/shutdown"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	_, _ = fmt.Fprintf(os.Stdout, resource.GreetingCLI, resource.ProjectName, resource.ProjectVersion)

	ctx, done := shutdown.New()
	defer done()

	config := imposterbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	if err := envconfig.Process("", &config.Db); err != nil {
		logging.DefaultLogger().Fatalf("processing the db config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)
	if err := realMain(ctx, done, &config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, done func(), config *imposterbot.Config) error {
	logger := logging.FromContext(ctx)
	if config.BotToken == "" {
		return fmt.Errorf(
			"bot token not found, please visit %s to register your bot and get a token",
			resource.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return fmt.Errorf("bot api: %w", err)
	}

	tg.Debug = config.Debug
	logger.Infof("authorization in telegram was successful: %s", tg.Self.UserName)

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	caches := make([]*cachelru.LRU, 4)
	for i := range caches {
		if caches[i], err = cachelru.NewLRU(config.CacheSize); err != nil {
			return fmt.Errorf("can not create lru cache: %w", err)
		}
	}

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", server.HandleHealth(ctx))

	go func() {
		if err := srv.ServeHTTP(ctx, &http.Server{Handler: mux}); err != nil {
			logger.Errorf("srv.ServeHTTP: %v", err)
			done()
		}
	}()

	go func() {
		if err := http.ListenAndServe(":"+config.ProfPort, nil); err != nil {
			logger.Errorf("pprof default server: %v", err)
		}
	}()

	manager := imposterbot.NewManager(
		tg,
		config,
		userDb.New(db, caches[0]),
		statDb.New(db, caches[1]),
		scoreDb.New(db, caches[2]),
		chatDb.New(db, caches[3]),
	)

	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return nil
}
