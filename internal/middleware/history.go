package middleware

import (
	"context"
	"time"

	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/rs/zerolog"
)

// HistoryStore receives one record per command run inside a guild.
type HistoryStore interface {
	AppendCommandHistory(guildID string, rec storage.CommandHistoryRecord) error
}

// WithCommandHistory records every guild command run in store. Direct
// messages are not recorded.
func WithCommandHistory(store HistoryStore, log zerolog.Logger) cmd.Middleware {
	return func(next cmd.Executor) cmd.Executor {
		return cmd.Wrap(next, func(ctx context.Context, in cmd.Interaction) error {
			err := next.Execute(ctx, in)
			if in.GuildID() == "" {
				return err
			}

			route, _ := cmd.RouteFrom(ctx)
			rec := storage.CommandHistoryRecord{
				UserID:   in.UserID(),
				Username: in.UserID(),
				Command:  route.String(),
				Outcome:  cmd.OutcomeDone.String(),
				Datetime: time.Now(),
			}
			if err != nil {
				rec.Outcome = cmd.OutcomeFailed.String()
			}
			if raw, ok := discord.Raw(in); ok {
				rec.ChannelID = raw.ChannelID()
				if u := raw.User(); u != nil && u.Username != "" {
					rec.Username = u.Username
				}
			}

			if herr := store.AppendCommandHistory(in.GuildID(), rec); herr != nil {
				log.Warn().Err(herr).Str("route", rec.Command).Msg("failed to record command history")
			}
			return err
		})
	}
}
