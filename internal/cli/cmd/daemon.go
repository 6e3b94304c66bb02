package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start, stop, and inspect the clipsxd background process",
	}
	cmd.AddCommand(newDaemonStartCmd(), newDaemonStopCmd(), newDaemonStatusCmd(), newDaemonRestartCmd())
	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	var background bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start clipsxd",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startDaemonProcess(background)
		},
	}
	cmd.Flags().BoolVarP(&background, "background", "b", true, "run detached from the terminal")
	return cmd
}

func newDaemonStopCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop clipsxd",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stopDaemonProcess(force); err != nil {
				return fmt.Errorf("stop daemon: %w", err)
			}
			fmt.Println("clipsxd stopped")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "SIGKILL instead of waiting for a graceful exit")
	return cmd
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether clipsxd is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := daemonStatus()
			if err != nil {
				return err
			}
			if running {
				fmt.Printf("clipsxd is running (pid %d)\n", pid)
			} else {
				fmt.Println("clipsxd is not running")
			}
			return nil
		},
	}
}

func newDaemonRestartCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Stop and restart clipsxd",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stopDaemonProcess(force); err != nil {
				logger.Warn("stop before restart failed", zap.Error(err))
			}
			time.Sleep(time.Second)
			if err := startDaemonProcess(true); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}
			fmt.Println("clipsxd restarted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "SIGKILL instead of waiting for a graceful exit")
	return cmd
}

func startDaemonProcess(background bool) error {
	if running, pid, _ := daemonStatus(); running {
		return fmt.Errorf("clipsxd already running (pid %d)", pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}
	binary := filepath.Join(filepath.Dir(executable), "clipsxd")
	if _, err := os.Stat(binary); err != nil {
		return fmt.Errorf("clipsxd binary not found next to clipsx at %s", binary)
	}

	c := exec.Command(binary)
	if background {
		if err := c.Start(); err != nil {
			return fmt.Errorf("start clipsxd: %w", err)
		}
		if err := writePIDFile(c.Process.Pid); err != nil {
			return err
		}
		time.Sleep(300 * time.Millisecond)
		fmt.Printf("clipsxd started (pid %d)\n", c.Process.Pid)
		return nil
	}

	c.Stdout, c.Stderr, c.Stdin = os.Stdout, os.Stderr, os.Stdin
	return c.Run()
}

func stopDaemonProcess(force bool) error {
	pidPath := pidFilePath()
	raw, err := os.ReadFile(pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("clipsxd is not running (no pid file)")
		}
		return fmt.Errorf("read pid file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(raw), "%d", &pid); err != nil || pid <= 0 {
		return fmt.Errorf("pid file contains garbage: %q", raw)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}

	sig := syscall.SIGTERM
	if force {
		sig = syscall.SIGKILL
	}
	if err := process.Signal(sig); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}

	if !force {
		for i := 0; i < 10; i++ {
			if err := process.Signal(syscall.Signal(0)); err != nil {
				os.Remove(pidPath)
				return nil
			}
			time.Sleep(time.Second)
		}
		if err := process.Kill(); err != nil {
			return fmt.Errorf("force kill process %d: %w", pid, err)
		}
	}
	os.Remove(pidPath)
	return nil
}

func daemonStatus() (bool, int, error) {
	raw, err := os.ReadFile(pidFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("read pid file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(raw), "%d", &pid); err != nil || pid <= 0 {
		return false, 0, fmt.Errorf("pid file contains garbage: %q", raw)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, pid, nil
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		os.Remove(pidFilePath())
		return false, pid, nil
	}
	return true, pid, nil
}

func writePIDFile(pid int) error {
	path := pidFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d", pid)), 0o644)
}

func pidFilePath() string {
	if paths != nil {
		return filepath.Join(paths.DataRoot, "run", "clipsxd.pid")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clipsx", "run", "clipsxd.pid")
}
