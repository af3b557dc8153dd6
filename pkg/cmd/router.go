package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Outcome is the terminal state of one dispatch.
type Outcome int

const (
	// OutcomeIgnored: no lookup table, or not a command interaction.
	OutcomeIgnored Outcome = iota
	// OutcomeUnknown: the command, group or subcommand is not registered.
	OutcomeUnknown
	// OutcomeHalted: a group was named without a subcommand.
	OutcomeHalted
	// OutcomeDenied: the access policy rejected the invoker.
	OutcomeDenied
	// OutcomeDone: the handler ran and returned nil.
	OutcomeDone
	// OutcomeFailed: authorization, resolution or the handler failed.
	OutcomeFailed
)

var outcomeNames = [...]string{"ignored", "unknown", "halted", "denied", "done", "failed"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ErrorKind classifies errors passed to an ErrorHandler.
type ErrorKind int

const (
	ErrorUnknownCommand ErrorKind = iota + 1
	ErrorUnhandled
)

// ErrorHandler replaces the router's default reaction to an error. For
// ErrorUnhandled it replaces the generic failure reply; for
// ErrorUnknownCommand it runs in addition to logging.
type ErrorHandler func(ctx context.Context, in Interaction, kind ErrorKind, err error) error

// DefaultFailureMessage is sent when a handler fails and no ErrorHandler is set.
const DefaultFailureMessage = "There was an error while executing this command!"

// Router dispatches interactions through a built lookup table. It holds no
// per-interaction state and is safe for concurrent use.
type Router struct {
	commands       *Commands
	log            zerolog.Logger
	failureMessage string
	onError        ErrorHandler
	middleware     []Middleware
}

// RouterOption configures a Router.
type RouterOption func(*Router)

func WithLogger(log zerolog.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

func WithFailureMessage(msg string) RouterOption {
	return func(r *Router) {
		if msg != "" {
			r.failureMessage = msg
		}
	}
}

func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) { r.onError = h }
}

// WithMiddleware wraps every handler invocation; the first middleware is
// the outermost.
func WithMiddleware(mws ...Middleware) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, mws...) }
}

// NewRouter returns a router over commands. A nil table makes the router
// ignore every interaction.
func NewRouter(commands *Commands, opts ...RouterOption) *Router {
	r := &Router{
		commands:       commands,
		log:            zerolog.Nop(),
		failureMessage: DefaultFailureMessage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the lookup table the router serves.
func (r *Router) Commands() *Commands { return r.commands }

// Dispatch routes one interaction: lookup, authorize, resolve options,
// invoke. No error escapes; the outcome reports where dispatch ended.
func (r *Router) Dispatch(ctx context.Context, in Interaction) (out Outcome) {
	if r.commands == nil || in == nil || !in.IsCommand() {
		return OutcomeIgnored
	}

	name := in.CommandName()
	built, ok := r.commands.Get(name)
	if !ok {
		r.unknown(ctx, in, Route{Command: name})
		return OutcomeUnknown
	}

	route, entry, out := r.lookup(built, in.Arguments())
	if entry == nil {
		if out == OutcomeUnknown {
			r.unknown(ctx, in, route)
		}
		return out
	}
	ctx = withRoute(ctx, route)

	defer func() {
		if p := recover(); p != nil {
			out = r.fail(ctx, in, route, fmt.Errorf("%w: %v", ErrPanic, p))
		}
	}()

	res, err := r.run(ctx, in, entry)
	if err != nil {
		return r.fail(ctx, in, route, err)
	}
	return res
}

// lookup picks the group, subcommand or bare path.
func (r *Router) lookup(built *BuiltCommand, args Arguments) (Route, *Entry, Outcome) {
	route := Route{Command: built.Name()}

	if group, ok := args.SubcommandGroup(); ok {
		route.Group = group
		g, ok := built.Group(group)
		if !ok {
			return route, nil, OutcomeUnknown
		}
		sub, ok := args.Subcommand()
		if !ok {
			return route, nil, OutcomeHalted
		}
		route.Subcommand = sub
		entry, ok := g.Subcommand(sub)
		if !ok {
			return route, nil, OutcomeUnknown
		}
		return route, entry, OutcomeDone
	}

	if sub, ok := args.Subcommand(); ok {
		route.Subcommand = sub
		entry, ok := built.Subcommand(sub)
		if !ok {
			return route, nil, OutcomeUnknown
		}
		return route, entry, OutcomeDone
	}

	return route, built.Bare(), OutcomeDone
}

// run performs Authorize, Resolve and Invoke, in that order.
func (r *Router) run(ctx context.Context, in Interaction, entry *Entry) (Outcome, error) {
	if policy := entry.Access(); policy != nil && !policy.Allows(in.UserID()) {
		r.log.Info().
			Str("command", entry.Name()).
			Str("user", in.UserID()).
			Msg("access denied")
		if err := in.Reply(ctx, policy.Message(in)); err != nil {
			return OutcomeFailed, fmt.Errorf("reply with access denial: %w", err)
		}
		return OutcomeDenied, nil
	}

	handler := entry.newHandler()
	if err := NewOptionResolver(in.Arguments()).Resolve(handler, entry.options); err != nil {
		return OutcomeFailed, fmt.Errorf("resolve options: %w", err)
	}

	exec, ok := handler.(Executor)
	if !ok {
		return OutcomeFailed, fmt.Errorf("%w: %s (%T)", ErrNoExecute, entry.class.Key, handler)
	}
	if err := Apply(exec, r.middleware...).Execute(ctx, in); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeDone, nil
}

func (r *Router) unknown(ctx context.Context, in Interaction, route Route) {
	r.log.Warn().Str("route", route.String()).Msg("unknown command")
	if r.onError == nil {
		return
	}
	err := fmt.Errorf("%w: %q", ErrUnknownCommand, route.String())
	if herr := r.onError(ctx, in, ErrorUnknownCommand, err); herr != nil {
		r.log.Error().Err(herr).Str("route", route.String()).Msg("error handler failed")
	}
}

// fail reports err to the user through whichever response channel is still
// open. Errors while reporting are logged and dropped.
func (r *Router) fail(ctx context.Context, in Interaction, route Route, err error) Outcome {
	r.log.Error().Err(err).
		Str("route", route.String()).
		Str("user", in.UserID()).
		Msg("interaction failed")

	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Str("route", route.String()).Msg("failed to report interaction failure")
		}
	}()

	if r.onError != nil {
		if herr := r.onError(ctx, in, ErrorUnhandled, err); herr != nil {
			r.log.Error().Err(herr).Str("route", route.String()).Msg("error handler failed")
		}
		return OutcomeFailed
	}

	msg := Message{Content: r.failureMessage, Ephemeral: true}
	var sendErr error
	if in.Responded() {
		sendErr = in.FollowUp(ctx, msg)
	} else {
		sendErr = in.Reply(ctx, msg)
	}
	if sendErr != nil {
		r.log.Error().Err(sendErr).Str("route", route.String()).Msg("failed to report interaction failure")
	}
	return OutcomeFailed
}
