package cmd

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/decl"
)

var applicationOptionTypes = map[OptionType]discordgo.ApplicationCommandOptionType{
	OptionString:      discordgo.ApplicationCommandOptionString,
	OptionNumber:      discordgo.ApplicationCommandOptionNumber,
	OptionInteger:     discordgo.ApplicationCommandOptionInteger,
	OptionBoolean:     discordgo.ApplicationCommandOptionBoolean,
	OptionUser:        discordgo.ApplicationCommandOptionUser,
	OptionChannel:     discordgo.ApplicationCommandOptionChannel,
	OptionRole:        discordgo.ApplicationCommandOptionRole,
	OptionMentionable: discordgo.ApplicationCommandOptionMentionable,
	OptionAttachment:  discordgo.ApplicationCommandOptionAttachment,
}

// build converts one registry node into its schema and runtime lookup.
// Subcommands and groups get their schema option and their runtime entry in
// the same step, so the two shapes always agree.
func build(inst any, node *commandNode) (*BuiltCommand, error) {
	access := normalizePolicy(node.info.Access, nil)

	bare, options, err := buildEntry(node.info.Name, node.class, inst, node.options, access)
	if err != nil {
		return nil, err
	}

	built := &BuiltCommand{
		schema: &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        node.info.Name,
			Description: node.info.Description,
			Options:     options,
		},
		bare:        bare,
		subcommands: newOrdered[string, *Entry](),
		groups:      newOrdered[string, *GroupEntry](),
	}

	err = node.subcommands.each(func(_ decl.Key, sub *subcommandNode) error {
		entry, schema, err := buildSubcommand(sub, access)
		if err != nil {
			return err
		}
		if _, dup := built.subcommands.get(entry.name); dup {
			return fmt.Errorf("%w: subcommand %q of %q", ErrDuplicateName, entry.name, node.info.Name)
		}
		built.subcommands.set(entry.name, entry)
		built.schema.Options = append(built.schema.Options, schema)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = node.groups.each(func(_ decl.Key, g *groupNode) error {
		entry, schema, err := buildGroup(g, access)
		if err != nil {
			return err
		}
		if _, dup := built.groups.get(entry.name); dup {
			return fmt.Errorf("%w: group %q of %q", ErrDuplicateName, entry.name, node.info.Name)
		}
		built.groups.set(entry.name, entry)
		built.schema.Options = append(built.schema.Options, schema)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return built, nil
}

func buildGroup(g *groupNode, inherited *Policy) (*GroupEntry, *discordgo.ApplicationCommandOption, error) {
	access := normalizePolicy(g.info.Access, inherited)
	entry := &GroupEntry{
		name:        g.info.Name,
		class:       g.class,
		subcommands: newOrdered[string, *Entry](),
	}
	schema := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        g.info.Name,
		Description: g.info.Description,
	}

	err := g.subcommands.each(func(_ decl.Key, sub *subcommandNode) error {
		subEntry, subSchema, err := buildSubcommand(sub, access)
		if err != nil {
			return err
		}
		if _, dup := entry.subcommands.get(subEntry.name); dup {
			return fmt.Errorf("%w: subcommand %q of group %q", ErrDuplicateName, subEntry.name, g.info.Name)
		}
		entry.subcommands.set(subEntry.name, subEntry)
		schema.Options = append(schema.Options, subSchema)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, schema, nil
}

func buildSubcommand(sub *subcommandNode, inherited *Policy) (*Entry, *discordgo.ApplicationCommandOption, error) {
	inst, err := instantiate(sub.class)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := inst.(Executor); !ok {
		return nil, nil, fmt.Errorf("%w: subcommand %s (%T)", ErrNoExecute, sub.class.Key, inst)
	}

	access := normalizePolicy(sub.info.Access, inherited)
	entry, options, err := buildEntry(sub.info.Name, sub.class, inst, sub.options, access)
	if err != nil {
		return nil, nil, err
	}
	return entry, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        sub.info.Name,
		Description: sub.info.Description,
		Options:     options,
	}, nil
}

func buildEntry(name string, class decl.Class, inst any, opts *ordered[string, OptionInfo], access *Policy) (*Entry, []*discordgo.ApplicationCommandOption, error) {
	entry := &Entry{name: name, class: class, access: access}
	var schemas []*discordgo.ApplicationCommandOption

	err := opts.each(func(optName string, opt OptionInfo) error {
		schema, err := optionSchema(optName, opt)
		if err != nil {
			return err
		}
		if err := checkBinding(inst, optName, opt); err != nil {
			return err
		}
		entry.options = append(entry.options, NamedOption{Name: optName, OptionInfo: opt})
		schemas = append(schemas, schema)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, schemas, nil
}

func optionSchema(name string, opt OptionInfo) (*discordgo.ApplicationCommandOption, error) {
	typ, ok := applicationOptionTypes[opt.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s (option %q)", ErrUnknownOptionType, opt.Type, name)
	}

	schema := &discordgo.ApplicationCommandOption{
		Type:        typ,
		Name:        name,
		Description: opt.Description,
		Required:    opt.Required,
	}

	switch opt.Type {
	case OptionNumber, OptionInteger:
		if err := checkRange(name, opt); err != nil {
			return nil, err
		}
		schema.MinValue = opt.Min
		if opt.Max != nil {
			schema.MaxValue = *opt.Max
		}
		schema.Choices = choiceSchemas(opt.Choices)
	case OptionString:
		schema.Choices = choiceSchemas(opt.Choices)
	}
	return schema, nil
}

func choiceSchemas(choices []Choice) []*discordgo.ApplicationCommandOptionChoice {
	if len(choices) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(choices))
	for i, c := range choices {
		out[i] = c.schema()
	}
	return out
}
