package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/keshon/slashkit/pkg/event"
	"github.com/rs/zerolog"
)

// Lifecycle logs gateway connection and guild membership changes.
type Lifecycle struct {
	log zerolog.Logger
}

func declareLifecycle(s *decl.Store, log zerolog.Logger) decl.Class {
	class := decl.Class{Key: "commands.lifecycle", New: func() any { return &Lifecycle{log: log} }}
	event.DeclareHandler(s, class)
	event.DeclareOn(s, class, "OnConnect",
		event.Method(discord.EventConnect, func(l *Lifecycle) any { return l.OnConnect }).OnlyOnce())
	event.DeclareOn(s, class, "OnDisconnect",
		event.Method(discord.EventDisconnect, func(l *Lifecycle) any { return l.OnDisconnect }))
	event.DeclareOn(s, class, "OnResumed",
		event.Method(discord.EventResumed, func(l *Lifecycle) any { return l.OnResumed }))
	event.DeclareOn(s, class, "OnGuildCreate",
		event.Method(discord.EventGuildCreate, func(l *Lifecycle) any { return l.OnGuildCreate }))
	event.DeclareOn(s, class, "OnGuildDelete",
		event.Method(discord.EventGuildDelete, func(l *Lifecycle) any { return l.OnGuildDelete }))
	return class
}

func (l *Lifecycle) OnConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	l.log.Info().Msg("connected to gateway")
}

func (l *Lifecycle) OnDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	l.log.Warn().Msg("disconnected from gateway")
}

func (l *Lifecycle) OnResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	l.log.Info().Msg("gateway session resumed")
}

func (l *Lifecycle) OnGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	l.log.Info().Str("guild", g.ID).Str("name", g.Name).Int("members", g.MemberCount).Msg("guild available")
}

func (l *Lifecycle) OnGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil {
		return
	}
	l.log.Info().Str("guild", g.ID).Bool("unavailable", g.Unavailable).Msg("guild removed")
}
