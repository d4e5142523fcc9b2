package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/LinkHawk/LinkHawk/internal/cli.version=1.2.3"
	version = "1.0.0"
	logo    = "\n" +
		"  _     _       _    _   _                 _\n" +
		" | |   (_)_ __ | | _| | | | __ ___      __| | __\n" +
		" | |   | | '_ \\| |/ / |_| |/ _` \\ \\ /\\ / / |/ /\n" +
		" | |___| | | | |   <|  _  | (_| |\\ V  V /|   <\n" +
		" |_____|_|_| |_|_|\\_\\_| |_|\\__,_| \\_/\\_/ |_|\\_\\\n"
)

var rootCmd = &cobra.Command{
	Use:   "linkhawk",
	Short: "LinkHawk - chat link responder",
	Long:  color.CyanString(logo) + "\nWatches chat for record references and replies with enriched links.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}
