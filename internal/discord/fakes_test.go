package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type fakeResponder struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	followUps  []*discordgo.WebhookParams
	respondErr error
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return f.respondErr
}

func (f *fakeResponder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followUps = append(f.followUps, data)
	return &discordgo.Message{}, nil
}

type fakeOverwriter struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (f *fakeOverwriter) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, appID+"/"+guildID)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return cmds, nil
}

type mapHashStore map[string]string

func (m mapHashStore) CommandHash(guildID string) (string, bool) {
	h, ok := m[guildID]
	return h, ok
}

func (m mapHashStore) SetCommandHash(guildID, hash string) { m[guildID] = hash }

func commandEvent(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "guild-1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "user-a", Username: "alice"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
		},
	}}
}

func background() context.Context { return context.Background() }
