package discord

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/config"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/keshon/slashkit/pkg/event"
	"github.com/keshon/slashkit/pkg/parallel"
	"github.com/rs/zerolog"
)

var ErrNoCommands = errors.New("bot has no commands")

// maxDeployWorkers bounds concurrent bulk overwrites; they share one limiter.
const maxDeployWorkers = 4

// Bot wires declared commands and event handlers to a Discord session.
type Bot struct {
	cfg      *config.Config
	log      zerolog.Logger
	storage  *storage.Storage
	intents  discordgo.Intent
	commands *cmd.Commands
	router   *cmd.Router
	bindings []event.Binding

	mu      sync.RWMutex
	ctx     context.Context
	session *discordgo.Session
}

type options struct {
	log        zerolog.Logger
	storage    *storage.Storage
	intents    discordgo.Intent
	commands   []decl.Class
	events     []decl.Class
	routerOpts []cmd.RouterOption
}

type Option func(*options)

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithStorage enables the deploy hash cache.
func WithStorage(s *storage.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithIntents sets the gateway intents. A zero mask keeps IntentsGuilds.
func WithIntents(intents discordgo.Intent) Option {
	return func(o *options) {
		if intents != 0 {
			o.intents = intents
		}
	}
}

// WithCommands names the root command classes to load.
func WithCommands(classes ...decl.Class) Option {
	return func(o *options) { o.commands = append(o.commands, classes...) }
}

// WithEvents names the event handler classes to load.
func WithEvents(classes ...decl.Class) Option {
	return func(o *options) { o.events = append(o.events, classes...) }
}

func WithMiddleware(mws ...cmd.Middleware) Option {
	return func(o *options) { o.routerOpts = append(o.routerOpts, cmd.WithMiddleware(mws...)) }
}

func WithErrorHandler(h cmd.ErrorHandler) Option {
	return func(o *options) { o.routerOpts = append(o.routerOpts, cmd.WithErrorHandler(h)) }
}

// NewBot loads and builds every declaration named by opts from store. The
// bot's own interaction and ready handlers are declared in store as well.
func NewBot(cfg *config.Config, store *decl.Store, opts ...Option) (*Bot, error) {
	o := options{log: zerolog.Nop(), intents: discordgo.IntentsGuilds}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bot{
		cfg:     cfg,
		log:     o.log,
		storage: o.storage,
		intents: o.intents,
		ctx:     context.Background(),
	}

	if len(o.commands) > 0 {
		reg, err := cmd.Load(store, o.commands)
		if err != nil {
			return nil, fmt.Errorf("load commands: %w", err)
		}
		b.commands, err = reg.Build()
		if err != nil {
			return nil, fmt.Errorf("build commands: %w", err)
		}
	}

	routerOpts := []cmd.RouterOption{
		cmd.WithLogger(o.log),
		cmd.WithFailureMessage(cfg.FailureMessage),
	}
	b.router = cmd.NewRouter(b.commands, append(routerOpts, o.routerOpts...)...)

	own := declareBotEvents(store, b)
	reg, err := event.Load(store, append(slices.Clone(o.events), own))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	b.bindings = reg.Bindings()

	b.log.Info().
		Int("commands", b.commands.Len()).
		Int("events", len(b.bindings)).
		Msg("bot loaded")
	return b, nil
}

// Commands returns the lookup table served by the router.
func (b *Bot) Commands() *cmd.Commands { return b.commands }

func (b *Bot) Bindings() []event.Binding { return slices.Clone(b.bindings) }

// Intents returns the gateway intents Run identifies with.
func (b *Bot) Intents() discordgo.Intent { return b.intents }

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.cfg.Validate(); err != nil {
		return err
	}
	s, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	s.Identify.Intents = b.intents

	b.mu.Lock()
	b.ctx = ctx
	b.session = s
	b.mu.Unlock()

	if err := event.Attach(NewSessionSource(s), b.bindings); err != nil {
		return fmt.Errorf("attach events: %w", err)
	}
	if err := s.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer s.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}

// Deploy publishes the command schemas to every guild in guildIDs, or to
// the configured scope when none are given. It returns how many scopes were
// published; unchanged scopes are skipped.
func (b *Bot) Deploy(ctx context.Context, guildIDs ...string) (int, error) {
	s, err := b.restSession()
	if err != nil {
		return 0, err
	}
	appID := b.cfg.AppID
	if appID == "" {
		me, err := s.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return 0, fmt.Errorf("resolve application ID: %w", err)
		}
		appID = me.ID
	}
	return b.deploy(ctx, s, appID, guildIDs...)
}

func (b *Bot) deploy(ctx context.Context, api commandOverwriter, appID string, guildIDs ...string) (int, error) {
	if b.commands.Len() == 0 {
		return 0, ErrNoCommands
	}
	if len(guildIDs) == 0 {
		guildIDs = []string{b.cfg.GuildID}
	}
	var hashes HashStore
	if b.storage != nil {
		hashes = b.storage
	}
	d := NewDeployer(api, hashes, WithDeployLogger(b.log), WithForce(b.cfg.ForceDeploy))
	schemas := b.commands.Schemas()

	var deployed atomic.Int32
	err := parallel.Each(ctx, guildIDs, maxDeployWorkers, func(ctx context.Context, guildID string) error {
		ok, err := d.Deploy(ctx, appID, guildID, schemas)
		if ok {
			deployed.Add(1)
		}
		return err
	})
	return int(deployed.Load()), err
}

// restSession returns the live session, or a session used for REST calls
// only when the gateway is not open.
func (b *Bot) restSession() (*discordgo.Session, error) {
	b.mu.RLock()
	s := b.session
	b.mu.RUnlock()
	if s != nil {
		return s, nil
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

func (b *Bot) dispatch(r responder, ic *discordgo.InteractionCreate) cmd.Outcome {
	in := NewInteraction(r, ic)
	out := b.router.Dispatch(b.context(), in)
	b.log.Debug().
		Str("command", in.CommandName()).
		Str("outcome", out.String()).
		Msg("interaction dispatched")
	return out
}

// botEvents carries the handlers every bot registers on its session.
type botEvents struct {
	b *Bot
}

func declareBotEvents(store *decl.Store, b *Bot) decl.Class {
	class := decl.Class{Key: "discord.botEvents", New: func() any { return &botEvents{b: b} }}
	event.DeclareHandler(store, class)
	event.DeclareOn(store, class, "onInteractionCreate",
		event.Method(EventInteractionCreate, func(h *botEvents) any { return h.onInteractionCreate }))
	event.DeclareOn(store, class, "onReady",
		event.Method(EventReady, func(h *botEvents) any { return h.onReady }).OnlyOnce())
	return class
}

func (h *botEvents) onInteractionCreate(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	h.b.dispatch(s, ic)
}

func (h *botEvents) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b := h.b
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot is running")

	if !b.cfg.DeployOnStart {
		b.log.Info().Msg("deploy on start disabled")
		return
	}
	appID := b.cfg.AppID
	if appID == "" {
		appID = r.User.ID
	}
	if _, err := b.deploy(b.context(), s, appID); err != nil {
		b.log.Error().Err(err).Msg("deploy on start failed")
	}
}
