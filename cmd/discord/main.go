package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/slashkit/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("discord bot stopped")
	}
}

// run serves the bot until ctx is done. envFiles default to ".env".
func run(ctx context.Context, envFiles ...string) error {
	a, err := app.New(envFiles...)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Log.Info().Int("commands", a.Bot.Commands().Len()).Msg("starting discord bot")
	if err := a.Bot.Run(ctx); err != nil {
		return err
	}
	a.Log.Info().Msg("discord bot exited cleanly")
	return nil
}
