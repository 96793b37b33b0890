// Package cmd implements framegwctl, an operator CLI that drives an
// in-process gateway.Gateway — standing in for the management transport
// spec.md §1 explicitly puts out of scope.
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"framegw/gateway"
	"framegw/logging"
	"framegw/substrate"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags.
var (
	globalLogFormat string
	globalDebug     bool
	globalFake      bool
)

// gw is the Gateway this process drives. It is constructed once in
// PersistentPreRunE and shared by every subcommand.
var gw *gateway.Gateway

// fakeSub backs gw when --fake is set, letting operators exercise
// framegwctl without a live netlink/CAN setup.
var fakeSub *substrate.Fake

var rootCmd = &cobra.Command{
	Use:   "framegwctl",
	Short: "Control a frame gateway",
	Long: `framegwctl drives a frame gateway's job registry: install, remove,
list, and monitor forwarding jobs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		setupGateway()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log output format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&globalFake, "fake", false, "use an in-memory fake substrate instead of the live Linux one")
}

func setupLogging() {
	level := logging.ParseLevel("info")
	if globalDebug {
		level = logging.ParseLevel("debug")
	}
	logger := logging.NewLogger(logging.Config{
		Level:  level,
		Format: globalLogFormat,
	})
	logging.SetDefault(logger)
}

func setupGateway() {
	if globalFake {
		fakeSub = substrate.NewFake()
		gw = gateway.New(fakeSub)
		return
	}
	gw = gateway.New(substrate.NewLinuxSubstrate())
}
