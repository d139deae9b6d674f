package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	projectPath string
	logLevel    string
	apiBaseURL  string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "learnpath",
	Version: Version,
	Short:   "Track cloud-native learning progress from the terminal",
	Long: `learnpath keeps your study plan, lesson progress, favorites and
watch statuses in .learnpath/state.json and browses the catalog API.

Progress is grouped into three stages (cloud, docker, k8s); crossing
25, 50, 75 and 100 percent in a stage is announced once.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Project directory (default: current directory)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	RootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "Catalog API base URL")
}
