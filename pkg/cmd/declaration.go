package cmd

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/decl"
)

// Declaration kinds used in decl.Store.
const (
	KindCommand    decl.Kind = "command"
	KindSubcommand decl.Kind = "subcommand"
	KindGroup      decl.Kind = "subcommandGroup"
	KindOption     decl.Kind = "option"
)

// CommandInfo declares a top-level command.
type CommandInfo struct {
	Name        string
	Description string
	Subcommands []decl.Class
	Groups      []decl.Class
	Access      *AccessPolicy
}

// SubcommandInfo declares a subcommand, either directly under a command or
// inside a group.
type SubcommandInfo struct {
	Name        string
	Description string
	Access      *AccessPolicy
}

// GroupInfo declares a subcommand group.
type GroupInfo struct {
	Name        string
	Description string
	Subcommands []decl.Class
	Access      *AccessPolicy
}

// AccessPolicy limits a node to a set of principals. Message builds the
// denial reply; Ephemeral defaults to false when nil.
type AccessPolicy struct {
	IDs       []string
	Message   func(in Interaction) string
	Ephemeral *bool
}

// OptionType is the semantic type of an option.
type OptionType int

const (
	OptionString OptionType = iota + 1
	OptionNumber
	OptionInteger
	OptionBoolean
	OptionUser
	OptionChannel
	OptionRole
	OptionMentionable
	OptionAttachment
)

var optionTypeNames = map[OptionType]string{
	OptionString:      "String",
	OptionNumber:      "Number",
	OptionInteger:     "Integer",
	OptionBoolean:     "Boolean",
	OptionUser:        "User",
	OptionChannel:     "Channel",
	OptionRole:        "Role",
	OptionMentionable: "Mentionable",
	OptionAttachment:  "Attachment",
}

func (t OptionType) String() string {
	if name, ok := optionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

// Choice is one enumerated value of a String, Number or Integer option.
type Choice struct {
	Name  string
	Value any
}

func (c Choice) schema() *discordgo.ApplicationCommandOptionChoice {
	return &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value}
}

// DeclareCommand attaches a command declaration to class.
func DeclareCommand(s *decl.Store, class decl.Class, info CommandInfo) {
	s.Define(KindCommand, class.Key, info)
}

// DeclareSubcommand attaches a subcommand declaration to class.
func DeclareSubcommand(s *decl.Store, class decl.Class, info SubcommandInfo) {
	s.Define(KindSubcommand, class.Key, info)
}

// DeclareGroup attaches a subcommand group declaration to class.
func DeclareGroup(s *decl.Store, class decl.Class, info GroupInfo) {
	s.Define(KindGroup, class.Key, info)
}

// DeclareOption attaches an option declaration to the property name of
// class. The property name is also the option's wire name.
func DeclareOption(s *decl.Store, class decl.Class, name string, opt OptionInfo) {
	s.DefineMember(KindOption, class.Key, name, opt)
}
