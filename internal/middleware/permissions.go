package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/pkg/cmd"
)

// PermissionNames maps the permission bits commands usually ask for to the
// names Discord shows in server settings.
var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:          "Administrator",
	discordgo.PermissionManageGuild:            "Manage Server",
	discordgo.PermissionManageChannels:         "Manage Channels",
	discordgo.PermissionManageRoles:            "Manage Roles",
	discordgo.PermissionManageMessages:         "Manage Messages",
	discordgo.PermissionManageNicknames:        "Manage Nicknames",
	discordgo.PermissionManageWebhooks:         "Manage Webhooks",
	discordgo.PermissionManageThreads:          "Manage Threads",
	discordgo.PermissionManageEvents:           "Manage Events",
	discordgo.PermissionKickMembers:            "Kick Members",
	discordgo.PermissionBanMembers:             "Ban Members",
	discordgo.PermissionModerateMembers:        "Moderate Members",
	discordgo.PermissionViewAuditLogs:          "View Audit Logs",
	discordgo.PermissionMentionEveryone:        "Mention Everyone",
	discordgo.PermissionSendMessages:           "Send Messages",
	discordgo.PermissionUseApplicationCommands: "Use Application Commands",
}

// PermissionRequirer is implemented by handlers that need the invoking
// member to hold at least one of the returned permissions.
type PermissionRequirer interface {
	UserPermissions() []int64
}

// WithUserPermissionCheck refuses handlers implementing PermissionRequirer
// unless the member holds one of the listed permissions. Administrators and
// users for which bypass returns true are always let through. bypass may be
// nil.
func WithUserPermissionCheck(bypass func(userID string) bool) cmd.Middleware {
	return func(next cmd.Executor) cmd.Executor {
		return cmd.Wrap(next, func(ctx context.Context, in cmd.Interaction) error {
			req, ok := cmd.Root(next).(PermissionRequirer)
			if !ok || len(req.UserPermissions()) == 0 || in.GuildID() == "" {
				return next.Execute(ctx, in)
			}
			if bypass != nil && bypass(in.UserID()) {
				return next.Execute(ctx, in)
			}

			var held int64
			if raw, ok := discord.Raw(in); ok && raw.Event().Member != nil {
				held = raw.Event().Member.Permissions
			}
			if held&discordgo.PermissionAdministrator != 0 {
				return next.Execute(ctx, in)
			}

			required := req.UserPermissions()
			for _, p := range required {
				if held&p != 0 {
					return next.Execute(ctx, in)
				}
			}
			return in.Reply(ctx, cmd.Message{Content: missingPermissionsMessage(required), Ephemeral: true})
		})
	}
}

func missingPermissionsMessage(required []int64) string {
	names := make([]string, 0, len(required))
	for _, p := range required {
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		names = append(names, name)
	}
	return fmt.Sprintf(
		"You need at least one of the following permissions to run this command:\n`%s`",
		strings.Join(names, "`, `"),
	)
}
