package commands

import (
	"fmt"

	"github.com/keshon/slashkit/internal/app"
	"github.com/spf13/cobra"
)

var (
	deployForce  bool
	deployGuilds []string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Publish slash commands to Discord",
	Long: `Publish the command set with a bulk overwrite. The publish is skipped
when the set is unchanged since the last deploy to the same scope.

Examples:
  slashkit deploy                      # scope from DISCORD_GUILD_ID
  slashkit deploy --guild 1 --guild 2  # several guilds
  slashkit deploy --force              # ignore the stored hash`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&deployForce, "force", false, "Publish even when unchanged")
	deployCmd.Flags().StringSliceVar(&deployGuilds, "guild", nil, "Guilds to deploy to (overrides DISCORD_GUILD_ID)")
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	a, err := app.New(envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	if deployForce {
		a.Config.ForceDeploy = true
	}

	deployed, err := a.Bot.Deploy(cmd.Context(), deployGuilds...)
	if err != nil {
		return err
	}
	scopes := len(deployGuilds)
	if scopes == 0 {
		scopes = 1
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deployed %d commands to %d of %d scopes\n", a.Bot.Commands().Len(), deployed, scopes)
	return nil
}
