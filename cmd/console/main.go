package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Product management console",
		Long: `Product management console.

Runs the local console server, the development backend, and one-shot
commands against the persisted session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults to $CONSOLE_CONFIG)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		mockBackendCmd(&configPath),
		loginCmd(&configPath),
		logoutCmd(&configPath),
		whoamiCmd(&configPath),
		dashboardCmd(&configPath),
		productsCmd(&configPath),
		reviewsCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
