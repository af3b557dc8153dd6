// Package cmd turns command declarations into a Discord command schema and a
// routing table, and dispatches live interactions through that table.
//
// A command is declared once in a decl.Store (DeclareCommand, DeclareOption,
// ...), loaded into a Registry, built into immutable Commands and served by a
// Router. How interactions reach the router and how replies leave it is
// defined by adapters implementing Interaction and Arguments.
package cmd

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Message is an outbound interaction reply.
type Message struct {
	Content   string
	Ephemeral bool
}

// Interaction is one inbound invocation as seen by the router and handlers.
type Interaction interface {
	// IsCommand reports whether this is a chat-input command interaction.
	IsCommand() bool
	CommandName() string
	UserID() string
	GuildID() string
	Arguments() Arguments

	Reply(ctx context.Context, msg Message) error
	FollowUp(ctx context.Context, msg Message) error
	// Responded reports whether a reply was already sent or deferred.
	Responded() bool
}

// Arguments reads the values supplied with an interaction. Every accessor
// reports absence through its second result; absence is never an error.
type Arguments interface {
	Subcommand() (string, bool)
	SubcommandGroup() (string, bool)

	String(name string) (string, bool)
	Number(name string) (float64, bool)
	Integer(name string) (int64, bool)
	Boolean(name string) (bool, bool)
	User(name string) (*discordgo.User, bool)
	Channel(name string) (*discordgo.Channel, bool)
	Role(name string) (*discordgo.Role, bool)
	Mentionable(name string) (Mentionable, bool)
	Attachment(name string) (*discordgo.MessageAttachment, bool)
}

// Mentionable is either a user or a role; exactly one field is set.
type Mentionable struct {
	User *discordgo.User
	Role *discordgo.Role
}

// ID returns the snowflake of whichever entity is set.
func (m Mentionable) ID() string {
	switch {
	case m.User != nil:
		return m.User.ID
	case m.Role != nil:
		return m.Role.ID
	}
	return ""
}

// Executor is implemented by every runnable handler. Subcommands must
// implement it; a bare command may omit it when it only hosts subcommands.
type Executor interface {
	Execute(ctx context.Context, in Interaction) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, in Interaction) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, in Interaction) error { return f(ctx, in) }
