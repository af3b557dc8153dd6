// Package app assembles the bot from configuration: logger, storage, the
// shipped declarations and the application middleware.
package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/commands"
	"github.com/keshon/slashkit/internal/config"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/logging"
	"github.com/keshon/slashkit/internal/middleware"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/rs/zerolog"
)

type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Storage *storage.Storage
	Bot     *discord.Bot
}

// New loads configuration from the environment and files, then builds the
// bot. The caller owns Close.
func New(envFiles ...string) (*App, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	log := logging.New(nil, cfg.LogLevel, cfg.LogPretty)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	bot, err := NewBot(cfg, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &App{Config: cfg, Log: log, Storage: store, Bot: bot}, nil
}

// NewBot declares the shipped commands and events and loads them into a bot
// that records history in store.
func NewBot(cfg *config.Config, store *storage.Storage, log zerolog.Logger) (*discord.Bot, error) {
	s := decl.NewStore()
	roots, events := commands.Declare(s, commands.Deps{
		Storage:    store,
		Developers: cfg.DeveloperIDs,
		Log:        log,
	})

	bot, err := discord.NewBot(cfg, s,
		discord.WithLogger(log),
		discord.WithStorage(store),
		discord.WithIntents(discordgo.Intent(cfg.Intents)),
		discord.WithCommands(roots...),
		discord.WithEvents(events...),
		discord.WithMiddleware(
			cmd.WithExecutionLog(log),
			cmd.WithGuildOnly(),
			middleware.WithUserPermissionCheck(cfg.IsDeveloper),
			middleware.WithCommandHistory(store, log),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return bot, nil
}

func (a *App) Close() error {
	return a.Storage.Close()
}
