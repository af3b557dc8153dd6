package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/keshon/slashkit/pkg/event"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	responses []*discordgo.InteractionResponse
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) FollowupMessageCreate(*discordgo.Interaction, bool, *discordgo.WebhookParams, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (f *fakeResponder) last(t *testing.T) *discordgo.InteractionResponseData {
	t.Helper()
	require.NotEmpty(t, f.responses)
	return f.responses[len(f.responses)-1].Data
}

type fixture struct {
	store  *storage.Storage
	router *cmd.Router
	events []decl.Class
	decls  *decl.Store
}

func newFixture(t *testing.T, developers ...string) *fixture {
	t.Helper()
	st, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s := decl.NewStore()
	roots, events := Declare(s, Deps{Storage: st, Developers: developers, Log: zerolog.Nop()})

	reg, err := cmd.Load(s, roots)
	require.NoError(t, err)
	commands, err := reg.Build()
	require.NoError(t, err)

	return &fixture{store: st, router: cmd.NewRouter(commands, cmd.WithMiddleware(cmd.WithGuildOnly())), events: events, decls: s}
}

func (f *fixture) dispatch(user string, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) (cmd.Outcome, *fakeResponder) {
	return f.dispatchIn("guild-1", user, name, opts...)
}

// dispatchIn routes a command from guild; an empty guild is a direct message.
func (f *fixture) dispatchIn(guild, user string, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) (cmd.Outcome, *fakeResponder) {
	r := &fakeResponder{}
	u := &discordgo.User{ID: user, Username: user}
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "1300000000000000000",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guild,
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{"user-b": {ID: "user-b", Username: "bob"}},
			},
		},
	}}
	if guild == "" {
		ic.User = u
	} else {
		ic.Member = &discordgo.Member{User: u}
	}
	return f.router.Dispatch(context.Background(), discord.NewInteraction(r, ic)), r
}

func opt(name string, t discordgo.ApplicationCommandOptionType, value any, nested ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: t, Value: value, Options: nested}
}

func permPath(sub string, nested ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return opt("perm", discordgo.ApplicationCommandOptionSubCommandGroup, nil,
		opt(sub, discordgo.ApplicationCommandOptionSubCommand, nil, nested...))
}

func TestDeclaredSchemas(t *testing.T) {
	f := newFixture(t)
	commands := f.router.Commands()

	assert.Equal(t, []string{"ping", "roll", "config", "commands"}, commands.Names())

	roll, ok := commands.Get("roll")
	require.True(t, ok)
	schema := roll.Schema()
	require.Len(t, schema.Options, 3)
	assert.Equal(t, "formula", schema.Options[0].Name)
	assert.True(t, schema.Options[0].Required)
	assert.Equal(t, discordgo.ApplicationCommandOptionInteger, schema.Options[1].Type)
	assert.Equal(t, 5.0, schema.Options[1].MaxValue)

	config, ok := commands.Get("config")
	require.True(t, ok)
	require.Len(t, config.Schema().Options, 1)
	perm := config.Schema().Options[0]
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommandGroup, perm.Type)
	require.Len(t, perm.Options, 2)
	assert.Equal(t, "set", perm.Options[0].Name)
	assert.Equal(t, "get", perm.Options[1].Name)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	out, r := f.dispatch("user-a", "ping")

	assert.Equal(t, cmd.OutcomeDone, out)
	assert.Contains(t, r.last(t).Content, "Pong!")
}

func TestPingLatency(t *testing.T) {
	sent, err := discordgo.SnowflakeTimestamp("1300000000000000000")
	require.NoError(t, err)

	r := &fakeResponder{}
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "1300000000000000000"}}
	c := &PingCommand{now: func() time.Time { return sent.Add(42 * time.Millisecond) }}

	require.NoError(t, c.Execute(context.Background(), discord.NewInteraction(r, ic)))
	assert.Equal(t, "🏓 Pong! Response time: `42ms`", r.last(t).Content)
}

func TestConfigPerm(t *testing.T) {
	f := newFixture(t, "user-a")

	out, r := f.dispatch("user-a", "config", permPath("set",
		opt("user", discordgo.ApplicationCommandOptionUser, "user-b"),
		opt("level", discordgo.ApplicationCommandOptionInteger, float64(3)),
	))
	require.Equal(t, cmd.OutcomeDone, out)
	assert.Equal(t, "Permission level of <@user-b> set to **3**.", r.last(t).Content)

	level, ok, err := f.store.PermLevel("guild-1", "user-b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), level)

	out, r = f.dispatch("user-a", "config", permPath("get", opt("user", discordgo.ApplicationCommandOptionUser, "user-b")))
	require.Equal(t, cmd.OutcomeDone, out)
	assert.Equal(t, "Permission level of <@user-b> is **3**.", r.last(t).Content)

	out, r = f.dispatch("user-a", "config", permPath("get"))
	require.Equal(t, cmd.OutcomeDone, out)
	assert.Equal(t, "<@user-a> has no permission level set.", r.last(t).Content)
}

func TestConfigPermDenied(t *testing.T) {
	f := newFixture(t, "user-a")

	out, r := f.dispatch("user-b", "config", permPath("get"))
	assert.Equal(t, cmd.OutcomeDenied, out)
	assert.Equal(t, "Only bot developers can manage permission levels.", r.last(t).Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, r.last(t).Flags)

	// Without developers the group is open.
	open := newFixture(t)
	out, _ = open.dispatch("user-b", "config", permPath("get"))
	assert.Equal(t, cmd.OutcomeDone, out)
}

func TestGuildOnlyCommandsInDirectMessages(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		opts        []*discordgo.ApplicationCommandInteractionDataOption
		wantContent string
	}{
		{
			name:        "perm set",
			command:     "config",
			opts:        []*discordgo.ApplicationCommandInteractionDataOption{permPath("set", opt("user", discordgo.ApplicationCommandOptionUser, "user-b"), opt("level", discordgo.ApplicationCommandOptionInteger, float64(3)))},
			wantContent: cmd.GuildOnlyMessage,
		},
		{
			name:        "perm get",
			command:     "config",
			opts:        []*discordgo.ApplicationCommandInteractionDataOption{permPath("get")},
			wantContent: cmd.GuildOnlyMessage,
		},
		{
			name:        "commands log",
			command:     "commands",
			opts:        []*discordgo.ApplicationCommandInteractionDataOption{opt("log", discordgo.ApplicationCommandOptionSubCommand, nil)},
			wantContent: cmd.GuildOnlyMessage,
		},
		{
			name:        "ping runs anywhere",
			command:     "ping",
			wantContent: "Pong!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			out, r := f.dispatchIn("", "user-a", tt.command, tt.opts...)

			assert.Equal(t, cmd.OutcomeDone, out)
			assert.Contains(t, r.last(t).Content, tt.wantContent)
		})
	}

	f := newFixture(t)
	_, _ = f.dispatchIn("", "user-a", "config", permPath("set",
		opt("user", discordgo.ApplicationCommandOptionUser, "user-b"),
		opt("level", discordgo.ApplicationCommandOptionInteger, float64(3)),
	))
	_, ok, err := f.store.PermLevel("", "user-b")
	require.NoError(t, err)
	assert.False(t, ok, "refused handler must not write")
}

func TestCommandsLog(t *testing.T) {
	f := newFixture(t)

	out, r := f.dispatch("user-a", "commands", opt("log", discordgo.ApplicationCommandOptionSubCommand, nil))
	require.Equal(t, cmd.OutcomeDone, out)
	assert.Equal(t, "No command history found.", r.last(t).Content)

	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, f.store.AppendCommandHistory("guild-1", storage.CommandHistoryRecord{
		UserID: "user-b", Username: "bob", Command: "roll", Outcome: "done", Datetime: at,
	}))
	require.NoError(t, f.store.AppendCommandHistory("guild-1", storage.CommandHistoryRecord{
		UserID: "user-a", Username: "alice", Command: "config perm set", Outcome: "failed", Datetime: at.Add(time.Minute),
	}))

	out, r = f.dispatch("user-a", "commands", opt("log", discordgo.ApplicationCommandOptionSubCommand, nil))
	require.Equal(t, cmd.OutcomeDone, out)
	content := r.last(t).Content
	assert.Contains(t, content, "/roll")
	assert.Contains(t, content, "/config perm set")
	assert.Less(t, strings.Index(content, "alice"), strings.Index(content, "bob"), "newest first")
}

func TestFormatHistoryFitsOneMessage(t *testing.T) {
	records := make([]storage.CommandHistoryRecord, 200)
	for i := range records {
		records[i] = storage.CommandHistoryRecord{Username: "someone", Command: "roll", Outcome: "done"}
	}
	assert.LessOrEqual(t, len(formatHistory(records)), discordMaxMessageLength)
}

func TestLifecycleEvents(t *testing.T) {
	f := newFixture(t)

	reg, err := event.Load(f.decls, f.events)
	require.NoError(t, err)

	bindings := reg.Bindings()
	require.Len(t, bindings, 5)
	assert.Equal(t, discord.EventConnect, bindings[0].Name)
	assert.True(t, bindings[0].Once)
	for _, b := range bindings[1:] {
		assert.False(t, b.Once, b.Name)
	}

	l := bindings[3].Owner.(*Lifecycle)
	assert.NotPanics(t, func() {
		l.OnGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "guild-1"}})
		l.OnGuildCreate(nil, &discordgo.GuildCreate{})
		l.OnGuildDelete(nil, &discordgo.GuildDelete{})
	})
}
