package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or toggle the light/dark theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		fmt.Println(services.Tracker.Theme())
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		fmt.Printf("Theme: %s\n", services.Tracker.ToggleTheme(cmd.Context()))
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeShowCmd, themeToggleCmd)
	RootCmd.AddCommand(themeCmd)
}
