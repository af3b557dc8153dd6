package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/retrylimit"
	"github.com/rs/zerolog"
)

var ErrNoAppID = errors.New("application ID is required to deploy commands")

// commandOverwriter is the part of *discordgo.Session that publishes commands.
type commandOverwriter interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// HashStore remembers the hash of the last deployed command set per scope.
type HashStore interface {
	CommandHash(guildID string) (string, bool)
	SetCommandHash(guildID, hash string)
}

// Deployer publishes command schemas, skipping the call when the set is
// unchanged since the last successful deploy to the same scope.
type Deployer struct {
	api     commandOverwriter
	hashes  HashStore
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.Config
	log     zerolog.Logger
	force   bool
}

type DeployerOption func(*Deployer)

func WithDeployLogger(log zerolog.Logger) DeployerOption {
	return func(d *Deployer) {
		d.log = log
		d.retry.Logger = log
	}
}

// WithForce publishes even when the stored hash matches.
func WithForce(force bool) DeployerOption {
	return func(d *Deployer) { d.force = force }
}

func WithRetryConfig(cfg retrylimit.Config) DeployerOption {
	return func(d *Deployer) {
		cfg.Logger = d.log
		d.retry = cfg
	}
}

// NewDeployer returns a deployer calling api. hashes may be nil, in which
// case every Deploy publishes.
func NewDeployer(api commandOverwriter, hashes HashStore, opts ...DeployerOption) *Deployer {
	d := &Deployer{
		api:     api,
		hashes:  hashes,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		retry:   retrylimit.DefaultConfig(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy replaces the commands of appID in guildID (globally when guildID is
// empty) with schemas. It reports whether a publish happened.
func (d *Deployer) Deploy(ctx context.Context, appID, guildID string, schemas []*discordgo.ApplicationCommand) (bool, error) {
	if appID == "" {
		return false, ErrNoAppID
	}
	scope := guildID
	if scope == "" {
		scope = "global"
	}

	hash := hashCommands(schemas)
	if !d.force && d.hashes != nil {
		if old, ok := d.hashes.CommandHash(guildID); ok && old == hash {
			d.log.Info().Str("scope", scope).Int("commands", len(schemas)).Msg("commands unchanged, skipping deploy")
			return false, nil
		}
	}

	err := retrylimit.Do(ctx, d.retry, d.limiter, func(ctx context.Context) error {
		_, err := d.api.ApplicationCommandBulkOverwrite(appID, guildID, schemas, discordgo.WithContext(ctx))
		return classifyREST(err)
	})
	if err != nil {
		return false, fmt.Errorf("deploy %d commands to %s: %w", len(schemas), scope, err)
	}

	if d.hashes != nil {
		d.hashes.SetCommandHash(guildID, hash)
	}
	d.log.Info().Str("scope", scope).Int("commands", len(schemas)).Msg("commands deployed")
	return true, nil
}

// restStatusError exposes the HTTP status of a discordgo REST error to the
// retry loop.
type restStatusError struct {
	*discordgo.RESTError
}

func (e restStatusError) StatusCode() int { return e.Response.StatusCode }
func (e restStatusError) Unwrap() error   { return e.RESTError }

// classifyREST exposes the status of REST errors and marks 4xx other than
// 429 as fatal.
func classifyREST(err error) error {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return err
	}
	code := rest.Response.StatusCode
	wrapped := restStatusError{rest}
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return retrylimit.Fatal(wrapped)
	}
	return wrapped
}
