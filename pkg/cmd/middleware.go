package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Middleware wraps the invocation of a handler (logging, guards, metrics).
// It runs after authorization and option resolution.
type Middleware func(Executor) Executor

// Apply applies middlewares so that the first in the list is the outermost.
func Apply(e Executor, mws ...Middleware) Executor {
	for i := len(mws) - 1; i >= 0; i-- {
		e = mws[i](e)
	}
	return e
}

// GuildOnlyMessage is the reply WithGuildOnly sends outside of a guild.
const GuildOnlyMessage = "This command can only be used in a server."

// GuildScoped is implemented by handlers that need a guild to act on.
type GuildScoped interface {
	GuildOnly() bool
}

// WithGuildOnly refuses to run GuildScoped handlers for interactions outside
// a guild. Other handlers run everywhere.
func WithGuildOnly() Middleware {
	return func(next Executor) Executor {
		return Wrap(next, func(ctx context.Context, in Interaction) error {
			scoped, ok := Root(next).(GuildScoped)
			if ok && scoped.GuildOnly() && in.GuildID() == "" {
				return in.Reply(ctx, Message{Content: GuildOnlyMessage, Ephemeral: true})
			}
			return next.Execute(ctx, in)
		})
	}
}

// WithExecutionLog logs every handler run with its route and duration.
func WithExecutionLog(log zerolog.Logger) Middleware {
	return func(next Executor) Executor {
		return Wrap(next, func(ctx context.Context, in Interaction) error {
			start := time.Now()
			err := next.Execute(ctx, in)

			route, _ := RouteFrom(ctx)
			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("route", route.String()).
				Str("user", in.UserID()).
				Str("guild", in.GuildID()).
				Dur("took", time.Since(start)).
				Msg("command executed")
			return err
		})
	}
}
