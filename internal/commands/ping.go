package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
)

type PingCommand struct {
	now func() time.Time
}

func declarePing(s *decl.Store) decl.Class {
	class := decl.Class{Key: "commands.ping", New: func() any { return &PingCommand{now: time.Now} }}
	cmd.DeclareCommand(s, class, cmd.CommandInfo{
		Name:        "ping",
		Description: "Check whether the bot is alive",
	})
	return class
}

func (c *PingCommand) Execute(ctx context.Context, in cmd.Interaction) error {
	msg := "🏓 Pong!"
	if raw, ok := discord.Raw(in); ok {
		if sent, err := discordgo.SnowflakeTimestamp(raw.Event().ID); err == nil {
			msg = fmt.Sprintf("🏓 Pong! Response time: `%dms`", c.now().Sub(sent).Milliseconds())
		}
	}
	return in.Reply(ctx, cmd.Message{Content: msg})
}
