package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host     string
	timezone string
)

var rootCmd = &cobra.Command{
	Use:   "h2h",
	Short: "A CLI to interact with the head2head server",
	Long: `A command-line interface for recording matches and reading the
standings of a head2head server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "Europe/Istanbul", "Time zone used to display match dates")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
