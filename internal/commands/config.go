package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
)

const maxPermLevel = 10

var errNoUser = errors.New("user option missing")

// PermStore keeps per-guild permission levels.
type PermStore interface {
	SetPermLevel(guildID, userID string, level int64) error
	PermLevel(guildID, userID string) (int64, bool, error)
}

type ConfigCommand struct{}

type PermGroup struct{}

// PermSetCommand is /config perm set.
type PermSetCommand struct {
	User  *discordgo.User
	Level int64

	store PermStore
}

// PermGetCommand is /config perm get. Without a user option it reports the
// caller's own level.
type PermGetCommand struct {
	User *discordgo.User

	store PermStore
}

// declareConfig declares /config with a perm group. The group is limited to
// developers when any are configured.
func declareConfig(s *decl.Store, store PermStore, developers []string) decl.Class {
	var (
		root  = decl.ClassOf[ConfigCommand]("commands.config")
		group = decl.ClassOf[PermGroup]("commands.config.perm")
		set   = decl.Class{Key: "commands.config.perm.set", New: func() any { return &PermSetCommand{store: store} }}
		get   = decl.Class{Key: "commands.config.perm.get", New: func() any { return &PermGetCommand{store: store} }}
	)

	var access *cmd.AccessPolicy
	if len(developers) > 0 {
		ephemeral := true
		access = &cmd.AccessPolicy{
			IDs:       developers,
			Message:   func(cmd.Interaction) string { return "Only bot developers can manage permission levels." },
			Ephemeral: &ephemeral,
		}
	}

	cmd.DeclareCommand(s, root, cmd.CommandInfo{
		Name:        "config",
		Description: "Bot settings for this server",
		Groups:      []decl.Class{group},
	})
	cmd.DeclareGroup(s, group, cmd.GroupInfo{
		Name:        "perm",
		Description: "Member permission levels",
		Subcommands: []decl.Class{set, get},
		Access:      access,
	})

	cmd.DeclareSubcommand(s, set, cmd.SubcommandInfo{Name: "set", Description: "Set a member's permission level"})
	cmd.DeclareOption(s, set, "user",
		cmd.UserOption("Member to update", func(c *PermSetCommand) **discordgo.User { return &c.User }).Require())
	cmd.DeclareOption(s, set, "level",
		cmd.IntegerOption("New level", func(c *PermSetCommand) *int64 { return &c.Level }).Require().Range(0, maxPermLevel))

	cmd.DeclareSubcommand(s, get, cmd.SubcommandInfo{Name: "get", Description: "Show a member's permission level"})
	cmd.DeclareOption(s, get, "user",
		cmd.UserOption("Member to look up", func(c *PermGetCommand) **discordgo.User { return &c.User }))

	return root
}

func (c *PermSetCommand) GuildOnly() bool { return true }

func (c *PermSetCommand) Execute(ctx context.Context, in cmd.Interaction) error {
	if c.User == nil {
		return fmt.Errorf("set perm level: %w", errNoUser)
	}
	if err := c.store.SetPermLevel(in.GuildID(), c.User.ID, c.Level); err != nil {
		return fmt.Errorf("set perm level: %w", err)
	}
	return in.Reply(ctx, cmd.Message{
		Content:   fmt.Sprintf("Permission level of <@%s> set to **%d**.", c.User.ID, c.Level),
		Ephemeral: true,
	})
}

func (c *PermGetCommand) GuildOnly() bool { return true }

func (c *PermGetCommand) Execute(ctx context.Context, in cmd.Interaction) error {
	userID := in.UserID()
	if c.User != nil {
		userID = c.User.ID
	}

	level, ok, err := c.store.PermLevel(in.GuildID(), userID)
	if err != nil {
		return fmt.Errorf("get perm level: %w", err)
	}
	msg := fmt.Sprintf("<@%s> has no permission level set.", userID)
	if ok {
		msg = fmt.Sprintf("Permission level of <@%s> is **%d**.", userID, level)
	}
	return in.Reply(ctx, cmd.Message{Content: msg, Ephemeral: true})
}
