package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/habitflow/habitflow/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "habitflow-configure",
		Short: "Configuration tool for the HabitFlow API",
		Long:  "CLI tool for managing database-stored CORS and rate limit settings",
	}

	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewListCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
