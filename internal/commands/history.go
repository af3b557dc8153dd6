package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/decl"
)

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper)

// HistoryReader returns the recent command runs of a guild, oldest first.
type HistoryReader interface {
	CommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

type CommandsCommand struct{}

// CommandsLogCommand is /commands log.
type CommandsLogCommand struct {
	store HistoryReader
}

func declareHistory(s *decl.Store, store HistoryReader) decl.Class {
	root := decl.ClassOf[CommandsCommand]("commands.commands")
	logClass := decl.Class{Key: "commands.commands.log", New: func() any { return &CommandsLogCommand{store: store} }}

	cmd.DeclareCommand(s, root, cmd.CommandInfo{
		Name:        "commands",
		Description: "Inspect command usage on this server",
		Subcommands: []decl.Class{logClass},
	})
	cmd.DeclareSubcommand(s, logClass, cmd.SubcommandInfo{
		Name:        "log",
		Description: "Review recently used commands",
	})
	return root
}

func (c *CommandsLogCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *CommandsLogCommand) GuildOnly() bool { return true }

func (c *CommandsLogCommand) Execute(ctx context.Context, in cmd.Interaction) error {
	records, err := c.store.CommandHistory(in.GuildID())
	if err != nil {
		return fmt.Errorf("read command history: %w", err)
	}
	if len(records) == 0 {
		return in.Reply(ctx, cmd.Message{Content: "No command history found.", Ephemeral: true})
	}
	return in.Reply(ctx, cmd.Message{Content: formatHistory(records), Ephemeral: true})
}

// formatHistory lists records newest first, dropping the oldest ones that do
// not fit in a single message.
func formatHistory(records []storage.CommandHistoryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-19s\t%-15s\t%-8s\t%s\n", "# Datetime", "# Username", "# Outcome", "# Command")

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		line := fmt.Sprintf("%-19s\t%-15s\t%-8s\t/%s\n",
			r.Datetime.Format("2006-01-02 15:04:05"),
			r.Username,
			r.Outcome,
			r.Command,
		)
		if b.Len()+len(line) > maxContentLength {
			break
		}
		b.WriteString(line)
	}
	return codeLeftBlockWrapper + "\n" + b.String() + codeRightBlockWrapper
}
