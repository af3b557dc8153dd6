package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/cmd"
)

// Arguments reads option values of a chat command. Group and subcommand
// wrappers are peeled off so options are addressed by name only.
type Arguments struct {
	group    string
	sub      string
	options  map[string]*discordgo.ApplicationCommandInteractionDataOption
	resolved *discordgo.ApplicationCommandInteractionDataResolved
}

var _ cmd.Arguments = (*Arguments)(nil)

func NewArguments(data discordgo.ApplicationCommandInteractionData) *Arguments {
	a := &Arguments{
		options:  make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
		resolved: data.Resolved,
	}

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup {
		a.group = opts[0].Name
		opts = opts[0].Options
	}
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		a.sub = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		a.options[o.Name] = o
	}
	return a
}

func (a *Arguments) Subcommand() (string, bool)      { return a.sub, a.sub != "" }
func (a *Arguments) SubcommandGroup() (string, bool) { return a.group, a.group != "" }

func (a *Arguments) option(name string, t discordgo.ApplicationCommandOptionType) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	o, ok := a.options[name]
	if !ok || o.Type != t || o.Value == nil {
		return nil, false
	}
	return o, true
}

// snowflake returns the ID carried by a reference option.
func (a *Arguments) snowflake(name string, t discordgo.ApplicationCommandOptionType) (string, bool) {
	o, ok := a.option(name, t)
	if !ok {
		return "", false
	}
	id, ok := o.Value.(string)
	return id, ok && id != ""
}

func (a *Arguments) String(name string) (string, bool) {
	o, ok := a.option(name, discordgo.ApplicationCommandOptionString)
	if !ok {
		return "", false
	}
	v, ok := o.Value.(string)
	return v, ok
}

func (a *Arguments) Number(name string) (float64, bool) {
	o, ok := a.option(name, discordgo.ApplicationCommandOptionNumber)
	if !ok {
		return 0, false
	}
	return number(o.Value)
}

// Integer values arrive as JSON numbers, i.e. float64.
func (a *Arguments) Integer(name string) (int64, bool) {
	o, ok := a.option(name, discordgo.ApplicationCommandOptionInteger)
	if !ok {
		return 0, false
	}
	v, ok := number(o.Value)
	return int64(v), ok
}

func (a *Arguments) Boolean(name string) (bool, bool) {
	o, ok := a.option(name, discordgo.ApplicationCommandOptionBoolean)
	if !ok {
		return false, false
	}
	v, ok := o.Value.(bool)
	return v, ok
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (a *Arguments) User(name string) (*discordgo.User, bool) {
	id, ok := a.snowflake(name, discordgo.ApplicationCommandOptionUser)
	if !ok {
		return nil, false
	}
	return a.resolvedUser(id), true
}

func (a *Arguments) Channel(name string) (*discordgo.Channel, bool) {
	id, ok := a.snowflake(name, discordgo.ApplicationCommandOptionChannel)
	if !ok {
		return nil, false
	}
	if a.resolved != nil {
		if c, ok := a.resolved.Channels[id]; ok {
			return c, true
		}
	}
	return &discordgo.Channel{ID: id}, true
}

func (a *Arguments) Role(name string) (*discordgo.Role, bool) {
	id, ok := a.snowflake(name, discordgo.ApplicationCommandOptionRole)
	if !ok {
		return nil, false
	}
	return a.resolvedRole(id), true
}

// Mentionable resolves to a role when the ID names a resolved role and to a
// user otherwise.
func (a *Arguments) Mentionable(name string) (cmd.Mentionable, bool) {
	id, ok := a.snowflake(name, discordgo.ApplicationCommandOptionMentionable)
	if !ok {
		return cmd.Mentionable{}, false
	}
	if a.resolved != nil {
		if r, ok := a.resolved.Roles[id]; ok {
			return cmd.Mentionable{Role: r}, true
		}
	}
	return cmd.Mentionable{User: a.resolvedUser(id)}, true
}

func (a *Arguments) Attachment(name string) (*discordgo.MessageAttachment, bool) {
	id, ok := a.snowflake(name, discordgo.ApplicationCommandOptionAttachment)
	if !ok {
		return nil, false
	}
	if a.resolved != nil {
		if att, ok := a.resolved.Attachments[id]; ok {
			return att, true
		}
	}
	return &discordgo.MessageAttachment{ID: id}, true
}

func (a *Arguments) resolvedUser(id string) *discordgo.User {
	if a.resolved != nil {
		if u, ok := a.resolved.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}

func (a *Arguments) resolvedRole(id string) *discordgo.Role {
	if a.resolved != nil {
		if r, ok := a.resolved.Roles[id]; ok {
			return r
		}
	}
	return &discordgo.Role{ID: id}
}
