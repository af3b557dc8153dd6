package discord

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/cmd"
)

// responder is the part of *discordgo.Session an interaction answers through.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Interaction adapts a gateway InteractionCreate event to cmd.Interaction.
type Interaction struct {
	r         responder
	event     *discordgo.InteractionCreate
	args      *Arguments
	responded atomic.Bool
}

var _ cmd.Interaction = (*Interaction)(nil)

func NewInteraction(r responder, event *discordgo.InteractionCreate) *Interaction {
	in := &Interaction{r: r, event: event}
	if in.IsCommand() {
		in.args = NewArguments(event.ApplicationCommandData())
	} else {
		in.args = NewArguments(discordgo.ApplicationCommandInteractionData{})
	}
	return in
}

// Event returns the raw gateway event.
func (in *Interaction) Event() *discordgo.InteractionCreate { return in.event }

func (in *Interaction) IsCommand() bool {
	if in.event == nil || in.event.Interaction == nil || in.event.Type != discordgo.InteractionApplicationCommand {
		return false
	}
	return in.event.ApplicationCommandData().CommandType == discordgo.ChatApplicationCommand
}

func (in *Interaction) CommandName() string {
	if !in.IsCommand() {
		return ""
	}
	return in.event.ApplicationCommandData().Name
}

func (in *Interaction) UserID() string {
	if u := in.User(); u != nil {
		return u.ID
	}
	return ""
}

// User returns the invoking user, whether the interaction came from a guild
// or a direct message.
func (in *Interaction) User() *discordgo.User {
	if in.event.Member != nil && in.event.Member.User != nil {
		return in.event.Member.User
	}
	return in.event.User
}

func (in *Interaction) GuildID() string   { return in.event.GuildID }
func (in *Interaction) ChannelID() string { return in.event.ChannelID }

func (in *Interaction) Arguments() cmd.Arguments { return in.args }

func (in *Interaction) Reply(ctx context.Context, msg cmd.Message) error {
	err := in.r.InteractionRespond(in.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg.Content,
			Flags:   flags(msg.Ephemeral),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	in.responded.Store(true)
	return nil
}

// Defer acknowledges the interaction now and leaves the answer to FollowUp.
func (in *Interaction) Defer(ctx context.Context, ephemeral bool) error {
	err := in.r.InteractionRespond(in.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags(ephemeral)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	in.responded.Store(true)
	return nil
}

func (in *Interaction) FollowUp(ctx context.Context, msg cmd.Message) error {
	_, err := in.r.FollowupMessageCreate(in.event.Interaction, true, &discordgo.WebhookParams{
		Content: msg.Content,
		Flags:   flags(msg.Ephemeral),
	}, discordgo.WithContext(ctx))
	return err
}

func (in *Interaction) Responded() bool { return in.responded.Load() }

// Raw returns the gateway event behind in when in came from this package.
func Raw(in cmd.Interaction) (*Interaction, bool) {
	d, ok := in.(*Interaction)
	return d, ok
}

func flags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
