package cmd

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/decl"
)

// DefaultDenialMessage is sent when an access policy has no message creator.
const DefaultDenialMessage = "You are not allowed to use this command."

// Policy is the normalized form of an AccessPolicy.
type Policy struct {
	ids       map[string]struct{}
	message   func(in Interaction) string
	Ephemeral bool
}

func normalizePolicy(p *AccessPolicy, inherited *Policy) *Policy {
	if p == nil {
		return inherited
	}
	ids := make(map[string]struct{}, len(p.IDs))
	for _, id := range p.IDs {
		ids[id] = struct{}{}
	}
	msg := p.Message
	if msg == nil {
		msg = func(Interaction) string { return DefaultDenialMessage }
	}
	return &Policy{
		ids:       ids,
		message:   msg,
		Ephemeral: p.Ephemeral != nil && *p.Ephemeral,
	}
}

// Allows reports whether principal is in the authorized set.
func (p *Policy) Allows(principal string) bool {
	_, ok := p.ids[principal]
	return ok
}

// Message builds the denial reply for in.
func (p *Policy) Message(in Interaction) Message {
	return Message{Content: p.message(in), Ephemeral: p.Ephemeral}
}

// Entry is the runtime form of one runnable node: the bare command or a
// subcommand. A fresh handler is constructed for every dispatch.
type Entry struct {
	name    string
	class   decl.Class
	options []NamedOption
	access  *Policy
}

func (e *Entry) Name() string { return e.name }

// Options returns the declared options in wire order.
func (e *Entry) Options() []NamedOption {
	return append([]NamedOption(nil), e.options...)
}

// Access returns the effective policy of the node, or nil.
func (e *Entry) Access() *Policy { return e.access }

func (e *Entry) newHandler() any { return e.class.New() }

// GroupEntry is the runtime form of a subcommand group.
type GroupEntry struct {
	name        string
	class       decl.Class
	subcommands *ordered[string, *Entry]
}

func (g *GroupEntry) Name() string { return g.name }

func (g *GroupEntry) Subcommand(name string) (*Entry, bool) {
	return g.subcommands.get(name)
}

func (g *GroupEntry) SubcommandNames() []string {
	return append([]string(nil), g.subcommands.keys...)
}

// BuiltCommand pairs the wire schema of a command with its runtime lookup.
// Both are produced in one pass and never change afterwards.
type BuiltCommand struct {
	schema      *discordgo.ApplicationCommand
	bare        *Entry
	subcommands *ordered[string, *Entry]
	groups      *ordered[string, *GroupEntry]
}

func (b *BuiltCommand) Name() string { return b.schema.Name }

// Schema returns the registration body for the platform. Callers must not
// modify it.
func (b *BuiltCommand) Schema() *discordgo.ApplicationCommand { return b.schema }

// Bare returns the entry run when no subcommand or group is named.
func (b *BuiltCommand) Bare() *Entry { return b.bare }

func (b *BuiltCommand) Subcommand(name string) (*Entry, bool) {
	return b.subcommands.get(name)
}

func (b *BuiltCommand) Group(name string) (*GroupEntry, bool) {
	return b.groups.get(name)
}

func (b *BuiltCommand) SubcommandNames() []string {
	return append([]string(nil), b.subcommands.keys...)
}

func (b *BuiltCommand) GroupNames() []string {
	return append([]string(nil), b.groups.keys...)
}

// Commands is the name-keyed lookup table handed to the router and to the
// deployment adapter.
type Commands struct {
	byName *ordered[string, *BuiltCommand]
}

func newCommands() *Commands {
	return &Commands{byName: newOrdered[string, *BuiltCommand]()}
}

func (c *Commands) Get(name string) (*BuiltCommand, bool) {
	if c == nil {
		return nil, false
	}
	return c.byName.get(name)
}

func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return c.byName.len()
}

// Names returns command names in load order.
func (c *Commands) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.byName.keys...)
}

// Schemas returns one wire schema per command, in load order.
func (c *Commands) Schemas() []*discordgo.ApplicationCommand {
	if c == nil {
		return nil
	}
	out := make([]*discordgo.ApplicationCommand, 0, c.byName.len())
	for _, name := range c.byName.keys {
		out = append(out, c.byName.values[name].schema)
	}
	return out
}
