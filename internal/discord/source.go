package discord

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/event"
)

// Gateway event names accepted by SessionSource.
const (
	EventConnect           = "__CONNECT__"
	EventDisconnect        = "__DISCONNECT__"
	EventReady             = "READY"
	EventResumed           = "RESUMED"
	EventGuildCreate       = "GUILD_CREATE"
	EventGuildDelete       = "GUILD_DELETE"
	EventMessageCreate     = "MESSAGE_CREATE"
	EventInteractionCreate = "INTERACTION_CREATE"
)

var eventTypes = map[string]reflect.Type{
	EventConnect:           reflect.TypeOf((*discordgo.Connect)(nil)),
	EventDisconnect:        reflect.TypeOf((*discordgo.Disconnect)(nil)),
	EventReady:             reflect.TypeOf((*discordgo.Ready)(nil)),
	EventResumed:           reflect.TypeOf((*discordgo.Resumed)(nil)),
	EventGuildCreate:       reflect.TypeOf((*discordgo.GuildCreate)(nil)),
	EventGuildDelete:       reflect.TypeOf((*discordgo.GuildDelete)(nil)),
	EventMessageCreate:     reflect.TypeOf((*discordgo.MessageCreate)(nil)),
	EventInteractionCreate: reflect.TypeOf((*discordgo.InteractionCreate)(nil)),
}

var sessionType = reflect.TypeOf((*discordgo.Session)(nil))

var (
	ErrUnknownEvent    = errors.New("unknown gateway event")
	ErrHandlerMismatch = errors.New("handler does not match event")
)

// handlerAdder is the part of *discordgo.Session that registers handlers.
type handlerAdder interface {
	AddHandler(handler interface{}) func()
	AddHandlerOnce(handler interface{}) func()
}

// SessionSource attaches event bindings to a discordgo session. discordgo
// picks the event from the handler signature, so the declared name is
// checked against it first.
type SessionSource struct {
	s handlerAdder
}

var _ event.Source = SessionSource{}

func NewSessionSource(s *discordgo.Session) SessionSource {
	return SessionSource{s: s}
}

func (src SessionSource) On(name string, handler any) error {
	if err := checkHandler(name, handler); err != nil {
		return err
	}
	src.s.AddHandler(handler)
	return nil
}

func (src SessionSource) Once(name string, handler any) error {
	if err := checkHandler(name, handler); err != nil {
		return err
	}
	src.s.AddHandlerOnce(handler)
	return nil
}

// checkHandler requires func(*discordgo.Session, *E) where E is the payload
// of name.
func checkHandler(name string, handler any) error {
	want, ok := eventTypes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != 2 || t.NumOut() != 0 ||
		t.In(0) != sessionType || t.In(1) != want {
		return fmt.Errorf("%w: %s wants func(*discordgo.Session, %s), got %T", ErrHandlerMismatch, name, want, handler)
	}
	return nil
}
