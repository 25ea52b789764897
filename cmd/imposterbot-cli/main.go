package main

import (
	"fmt"
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
	"github.com/bloops-games/imposter/internal/shutdown"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	_, _ = fmt.Fprintf(os.Stdout, resource.GreetingCLI, resource.ProjectName, resource.ProjectVersion)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	defer done()
	config := imposterbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	if err := envconfig.Process("", &config.Db); err != nil {
		logger.Fatalf("processing the db config: %v", err)
	}

	var token string
	fmt.Println("Enter your bot token:")
	for {
		_, err := fmt.Scanf("%s\n", &token)
		if err != nil {
			if err.Error() == "unexpected newline" {
				continue
			}
			logger.Fatalf("read token: %v", err)
		}
		break
	}

	config.BotToken = token
	if config.BotToken == "" {
		logger.Fatalf(
			"Bot token not found, please visit %s to register your bot and get a token",
			resource.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		logger.Fatalf("bot api: %v", err)
	}

	tg.Debug = config.Debug
	_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")
	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		logger.Fatalf("new database from env: %v", err)
	}

	defer db.Close(ctx)
	userCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		logger.Fatalf("can not create lru cache: %v", err)
	}

	statCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		logger.Fatalf("can not create lru cache: %v", err)
	}

	scoreCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		logger.Fatalf("can not create lru cache: %v", err)
	}

	chatCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		logger.Fatalf("can not create lru cache: %v", err)
	}

	manager := imposterbot.NewManager(
		tg,
		&config,
		userDb.New(db, userCache),
		statDb.New(db, statCache),
		scoreDb.New(db, scoreCache),
		chatDb.New(db, chatCache),
	)

	if err := manager.Run(ctx); err != nil {
		logger.Fatalf("run: %v", err)
	}
}
