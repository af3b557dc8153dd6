package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/stretchr/testify/require"
)

type fakeArgs struct {
	group  string
	sub    string
	values map[string]any
}

func (a *fakeArgs) Subcommand() (string, bool)      { return a.sub, a.sub != "" }
func (a *fakeArgs) SubcommandGroup() (string, bool) { return a.group, a.group != "" }

func fakeValue[T any](a *fakeArgs, name string) (T, bool) {
	v, ok := a.values[name].(T)
	return v, ok
}

func (a *fakeArgs) String(name string) (string, bool)   { return fakeValue[string](a, name) }
func (a *fakeArgs) Number(name string) (float64, bool)  { return fakeValue[float64](a, name) }
func (a *fakeArgs) Integer(name string) (int64, bool)   { return fakeValue[int64](a, name) }
func (a *fakeArgs) Boolean(name string) (bool, bool)    { return fakeValue[bool](a, name) }
func (a *fakeArgs) User(name string) (*discordgo.User, bool) {
	return fakeValue[*discordgo.User](a, name)
}
func (a *fakeArgs) Channel(name string) (*discordgo.Channel, bool) {
	return fakeValue[*discordgo.Channel](a, name)
}
func (a *fakeArgs) Role(name string) (*discordgo.Role, bool) {
	return fakeValue[*discordgo.Role](a, name)
}
func (a *fakeArgs) Mentionable(name string) (Mentionable, bool) {
	return fakeValue[Mentionable](a, name)
}
func (a *fakeArgs) Attachment(name string) (*discordgo.MessageAttachment, bool) {
	return fakeValue[*discordgo.MessageAttachment](a, name)
}

type fakeInteraction struct {
	notCommand bool
	name       string
	user       string
	guild      string
	args       *fakeArgs

	replyErr  error
	followErr error

	mu        sync.Mutex
	responded bool
	replies   []Message
	followUps []Message
	ran       []string
}

func newFakeInteraction(name, user string, args *fakeArgs) *fakeInteraction {
	if args == nil {
		args = &fakeArgs{}
	}
	return &fakeInteraction{name: name, user: user, guild: "guild-1", args: args}
}

func (f *fakeInteraction) IsCommand() bool      { return !f.notCommand }
func (f *fakeInteraction) CommandName() string  { return f.name }
func (f *fakeInteraction) UserID() string       { return f.user }
func (f *fakeInteraction) GuildID() string      { return f.guild }
func (f *fakeInteraction) Arguments() Arguments { return f.args }

func (f *fakeInteraction) Reply(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, msg)
	if f.replyErr != nil {
		return f.replyErr
	}
	f.responded = true
	return nil
}

func (f *fakeInteraction) FollowUp(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followUps = append(f.followUps, msg)
	return f.followErr
}

func (f *fakeInteraction) Responded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.responded
}

func record(in Interaction, what string) {
	f := in.(*fakeInteraction)
	f.mu.Lock()
	f.ran = append(f.ran, what)
	f.mu.Unlock()
}

// Handlers used across the package tests.

type pingCommand struct{}

func (pingCommand) Execute(_ context.Context, in Interaction) error {
	record(in, "ping")
	return nil
}

type echoCommand struct {
	Text  string
	Times int64
	calls int
}

func (c *echoCommand) Execute(_ context.Context, in Interaction) error {
	c.calls++
	record(in, fmt.Sprintf("echo %s x%d calls=%d", c.Text, c.Times, c.calls))
	return nil
}

type configCommand struct{}

type permGroup struct{}

type permSet struct {
	Level int64
}

func (c *permSet) Execute(_ context.Context, in Interaction) error {
	record(in, fmt.Sprintf("perm set %d", c.Level))
	return nil
}

type permGet struct{}

func (permGet) Execute(_ context.Context, in Interaction) error {
	record(in, "perm get")
	return nil
}

type configShow struct{}

func (configShow) Execute(_ context.Context, in Interaction) error {
	record(in, "config show")
	return nil
}

type secretCommand struct{}

func (secretCommand) Execute(_ context.Context, in Interaction) error {
	record(in, "secret")
	return nil
}

var errBoom = errors.New("boom")

type failCommand struct {
	ReplyFirst bool
}

func (c *failCommand) Execute(ctx context.Context, in Interaction) error {
	if c.ReplyFirst {
		if err := in.Reply(ctx, Message{Content: "working"}); err != nil {
			return err
		}
	}
	return errBoom
}

type panicCommand struct{}

func (panicCommand) Execute(context.Context, Interaction) error {
	panic("kaboom")
}

var (
	pingClass   = decl.ClassOf[pingCommand]("ping")
	echoClass   = decl.Class{Key: "echo", New: func() any { return &echoCommand{Text: "default"} }}
	configClass = decl.ClassOf[configCommand]("config")
	permClass   = decl.ClassOf[permGroup]("config.perm")
	setClass    = decl.ClassOf[permSet]("config.perm.set")
	getClass    = decl.ClassOf[permGet]("config.perm.get")
	showClass   = decl.ClassOf[configShow]("config.show")
	secretClass = decl.ClassOf[secretCommand]("secret")
	failClass   = decl.ClassOf[failCommand]("fail")
	panicClass  = decl.ClassOf[panicCommand]("panic")
)

func fixtureRoots() []decl.Class {
	return []decl.Class{pingClass, echoClass, configClass, secretClass, failClass, panicClass}
}

func fixtureStore() *decl.Store {
	s := decl.NewStore()

	DeclareCommand(s, pingClass, CommandInfo{Name: "ping", Description: "Replies with pong"})

	DeclareCommand(s, echoClass, CommandInfo{Name: "echo", Description: "Echoes text"})
	DeclareOption(s, echoClass, "text", StringOption("Text to echo", func(c *echoCommand) *string { return &c.Text }))
	DeclareOption(s, echoClass, "times", IntegerOption("Repeat count", func(c *echoCommand) *int64 { return &c.Times }).Range(1, 5))

	DeclareCommand(s, configClass, CommandInfo{
		Name:        "config",
		Description: "Bot configuration",
		Subcommands: []decl.Class{showClass},
		Groups:      []decl.Class{permClass},
	})
	DeclareSubcommand(s, showClass, SubcommandInfo{Name: "show", Description: "Show configuration"})
	DeclareGroup(s, permClass, GroupInfo{
		Name:        "perm",
		Description: "Permissions",
		Subcommands: []decl.Class{setClass, getClass},
		Access:      &AccessPolicy{IDs: []string{"user-a"}},
	})
	DeclareSubcommand(s, setClass, SubcommandInfo{Name: "set", Description: "Set level"})
	DeclareOption(s, setClass, "level", IntegerOption("Level", func(c *permSet) *int64 { return &c.Level }).Require())
	DeclareSubcommand(s, getClass, SubcommandInfo{Name: "get", Description: "Get level"})

	ephemeral := true
	DeclareCommand(s, secretClass, CommandInfo{
		Name:        "secret",
		Description: "Owner only",
		Access: &AccessPolicy{
			IDs:       []string{"user-a"},
			Message:   func(in Interaction) string { return "no entry for " + in.UserID() },
			Ephemeral: &ephemeral,
		},
	})

	DeclareCommand(s, failClass, CommandInfo{Name: "fail", Description: "Always fails"})
	DeclareOption(s, failClass, "reply_first", BooleanOption("Reply before failing", func(c *failCommand) *bool { return &c.ReplyFirst }))

	DeclareCommand(s, panicClass, CommandInfo{Name: "panic", Description: "Always panics"})
	return s
}

func fixtureCommands(t *testing.T) *Commands {
	t.Helper()
	reg, err := Load(fixtureStore(), fixtureRoots())
	require.NoError(t, err)
	commands, err := reg.Build()
	require.NoError(t, err)
	return commands
}
