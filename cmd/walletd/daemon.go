package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/openweb3/wallet-core/common/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const daemonChildEnv = "OPENWEB3_DAEMON_CHILD"

var pidFile = filepath.Join(utils.HomeDir(), ".openweb3", "walletd.pid")

func daemonCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "daemon",
		Short: "Run walletd in the background",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start walletd as daemon",
		Run: func(cmd *cobra.Command, args []string) {
			startDaemon(pidFile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		Run: func(cmd *cobra.Command, args []string) {
			stopDaemon(pidFile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Run: func(cmd *cobra.Command, args []string) {
			showStatus(pidFile)
		},
	})

	return cmd
}

func startDaemon(pidFilePath string) {
	// child process: run in the foreground
	if os.Getenv(daemonChildEnv) == "1" {
		runDaemon()
		return
	}

	if isRunning(pidFilePath) {
		pterm.Warning.Println("walletd is already running")
		return
	}

	executable, err := os.Executable()
	if err != nil {
		pterm.Error.Printfln("Failed to get executable path: %v", err)
		os.Exit(1)
	}

	args := []string{"daemon", "start"}
	if configFile != "" {
		args = append(args, "--config", configFile)
	}
	cmd := exec.Command(executable, args...)
	cmd.Env = append(os.Environ(), daemonChildEnv+"=1")
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		pterm.Error.Printfln("Failed to start daemon: %v", err)
		os.Exit(1)
	}

	if err := writePidFile(pidFilePath, cmd.Process.Pid); err != nil {
		pterm.Error.Printfln("Failed to write PID file: %v", err)
		cmd.Process.Kill()
		os.Exit(1)
	}

	pterm.Success.Printfln("walletd started as daemon with PID %d", cmd.Process.Pid)
}

func stopDaemon(pidFilePath string) {
	pid, err := readPidFile(pidFilePath)
	if err != nil {
		pterm.Info.Println("walletd is not running or PID file not found")
		return
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePidFile(pidFilePath)
		return
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		pterm.Error.Printfln("Failed to stop process: %v", err)
		return
	}

	// the daemon locks its session on SIGTERM; give it a moment
	for i := 0; i < 50 && process.Signal(syscall.Signal(0)) == nil; i++ {
		time.Sleep(100 * time.Millisecond)
	}
	removePidFile(pidFilePath)
	pterm.Success.Printfln("walletd stopped (PID: %d)", pid)
}

func showStatus(pidFilePath string) {
	if isRunning(pidFilePath) {
		pid, _ := readPidFile(pidFilePath)
		pterm.Info.Printfln("walletd is running (PID: %d)", pid)
		return
	}

	pterm.Info.Println("walletd is not running")
	if _, err := os.Stat(pidFilePath); err == nil {
		removePidFile(pidFilePath)
	}
}

func isRunning(pidFilePath string) bool {
	pid, err := readPidFile(pidFilePath)
	if err != nil {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(pidFilePath string) (int, error) {
	data, err := os.ReadFile(pidFilePath)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func writePidFile(pidFilePath string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(pidFilePath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(pidFilePath, []byte(strconv.Itoa(pid)), 0o600)
}

func removePidFile(pidFilePath string) {
	os.Remove(pidFilePath)
}
