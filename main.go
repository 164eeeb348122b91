package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"popshop/internal/appinfo"
	mslogger "popshop/logger"
)

var (
	flagPort            int
	flagHost            string
	flagWatch           bool
	flagMaxRequestSize  int
	flagAdmin           bool
	flagAdminSecret     string
	flagAdminTTLMinutes int
)

func main() {
	mslogger.LoggerConfig.ShowTimestamp = false

	rootCmd := &cobra.Command{
		Use:   "popshop",
		Short: "PopShop — declarative HTTP mocking and forward-proxying server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve <config-path>",
		Short: "Start the mock/proxy server",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runServe(args[0]))
		},
	}
	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&flagHost, "host", "127.0.0.1", "Host/interface to bind")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch the config path and hot-reload on change")
	serveCmd.Flags().IntVar(&flagMaxRequestSize, "max-request-size", 1<<20, "Maximum accepted request body size, in bytes")
	serveCmd.Flags().BoolVar(&flagAdmin, "admin", false, "Enable the bearer-authenticated admin API")
	serveCmd.Flags().StringVar(&flagAdminSecret, "admin-secret", "", "Admin JWT signing secret (overrides POPSHOP_ADMIN_SECRET)")

	validateCmd := &cobra.Command{
		Use:   "validate <config-path>",
		Short: "Parse and validate a config path without starting a server",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runValidate(args[0]))
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token <config-path>",
		Short: "Issue an admin API bearer token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runToken(args[0]))
		},
	}
	tokenCmd.Flags().IntVar(&flagAdminTTLMinutes, "ttl-minutes", int(24*60*3), "Token lifetime in minutes")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the PopShop version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", appinfo.Title, appinfo.Version)
		},
	}

	rootCmd.AddCommand(serveCmd, validateCmd, tokenCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// ttl returns the configured token lifetime as a time.Duration.
func ttl() time.Duration {
	return time.Duration(flagAdminTTLMinutes) * time.Minute
}
