package main

import (
	"fmt"
	"os"

	"github.com/openweb3/wallet-core/app"
	"github.com/openweb3/wallet-core/common/logger"
	"github.com/spf13/cobra"
)

// Version info (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configFile string

func main() {
	var rootCmd = &cobra.Command{
		Use:     "walletd",
		Short:   "openweb3 local wallet daemon",
		Long:    `Local wallet daemon that keeps the encrypted recovery phrase, derives Ethereum accounts and serves a lock/unlock session to the browser extension over a loopback REST API and WebSocket.`,
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Run: func(cmd *cobra.Command, args []string) {
			runDaemon()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(walletCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Failed to execute command:", err)
		os.Exit(1)
	}
}

func runDaemon() {
	application, err := app.New(configFile)
	if err != nil {
		fmt.Println("Failed to initialize application:", err)
		os.Exit(1)
	}

	application.SigHandler()
	logger.Info("walletd start. version=", Version)

	if err := application.NewRest(); err != nil {
		logger.Error("Failed to start services:", err)
		application.Terminate()
		os.Exit(1)
	}

	application.Wait()
	removePidFile(pidFile)
	logger.Info("walletd terminated.")
}
