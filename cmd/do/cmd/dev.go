package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Run the API under air, rebuilding on Go or migration changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev()
		},
	}
}

func runDev() error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	fmt.Println("Building bin/do...")
	if err := run("go", "build", "-o", "bin/do", "./cmd/do"); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}

	return syscall.Exec(airPath, airArgs, os.Environ())
}
