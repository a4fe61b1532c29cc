package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityshield/dispatch/config"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the configured patrol roster",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, u := range cfg.Fleet.Units {
		fmt.Printf("%s\t%s\t(%.4f, %.4f)\n", u.ID, u.Name, u.Lat, u.Lng)
	}
	return nil
}
