package cmd

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// OptionInfo declares an option. Build one with the typed constructors
// (StringOption, IntegerOption, ...), which also bind the option to a field
// of the handler type, then refine it with Require, Range and WithChoices.
type OptionInfo struct {
	Type        OptionType
	Description string
	Required    bool
	// Min and Max apply to Number and Integer options only.
	Min *float64
	Max *float64
	// Choices apply to String, Number and Integer options only.
	Choices []Choice

	bind binding
}

// binding assigns a resolved value onto a handler instance.
type binding struct {
	accepts func(target any) bool
	assign  func(target any, value any) error
}

func bindField[H any, V any](field func(*H) *V) binding {
	return binding{
		accepts: func(target any) bool {
			_, ok := target.(*H)
			return ok
		},
		assign: func(target any, value any) error {
			h, ok := target.(*H)
			if !ok {
				return fmt.Errorf("%w: target is %T, want %T", ErrBinding, target, (*H)(nil))
			}
			v, ok := value.(V)
			if !ok {
				return fmt.Errorf("%w: value is %T, want %T", ErrBinding, value, *new(V))
			}
			*field(h) = v
			return nil
		},
	}
}

// Bound reports whether the option carries a field binding.
func (o OptionInfo) Bound() bool { return o.bind.assign != nil }

// Require marks the option as required.
func (o OptionInfo) Require() OptionInfo {
	o.Required = true
	return o
}

// Range bounds a numeric option. Discord drops a max_value of zero from the
// schema, so a zero max is rejected when the declaration is loaded.
func (o OptionInfo) Range(min, max float64) OptionInfo {
	o.Min, o.Max = &min, &max
	return o
}

// WithChoices restricts the option to the given values.
func (o OptionInfo) WithChoices(choices ...Choice) OptionInfo {
	o.Choices = append([]Choice(nil), choices...)
	return o
}

// StringOption through AttachmentOption declare an option of the matching
// Discord type, bound to the handler field returned by field.
func StringOption[H any](description string, field func(*H) *string) OptionInfo {
	return OptionInfo{Type: OptionString, Description: description, bind: bindField(field)}
}

func NumberOption[H any](description string, field func(*H) *float64) OptionInfo {
	return OptionInfo{Type: OptionNumber, Description: description, bind: bindField(field)}
}

func IntegerOption[H any](description string, field func(*H) *int64) OptionInfo {
	return OptionInfo{Type: OptionInteger, Description: description, bind: bindField(field)}
}

func BooleanOption[H any](description string, field func(*H) *bool) OptionInfo {
	return OptionInfo{Type: OptionBoolean, Description: description, bind: bindField(field)}
}

func UserOption[H any](description string, field func(*H) **discordgo.User) OptionInfo {
	return OptionInfo{Type: OptionUser, Description: description, bind: bindField(field)}
}

func ChannelOption[H any](description string, field func(*H) **discordgo.Channel) OptionInfo {
	return OptionInfo{Type: OptionChannel, Description: description, bind: bindField(field)}
}

func RoleOption[H any](description string, field func(*H) **discordgo.Role) OptionInfo {
	return OptionInfo{Type: OptionRole, Description: description, bind: bindField(field)}
}

func MentionableOption[H any](description string, field func(*H) *Mentionable) OptionInfo {
	return OptionInfo{Type: OptionMentionable, Description: description, bind: bindField(field)}
}

func AttachmentOption[H any](description string, field func(*H) **discordgo.MessageAttachment) OptionInfo {
	return OptionInfo{Type: OptionAttachment, Description: description, bind: bindField(field)}
}

// NamedOption is an option together with its property (and wire) name.
type NamedOption struct {
	Name string
	OptionInfo
}
