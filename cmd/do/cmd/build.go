package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	var output, goos, goarch string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the API server binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildServer(output, goos, goarch)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bin/server", "output path")
	cmd.Flags().StringVar(&goos, "os", "", "target GOOS (default: host)")
	cmd.Flags().StringVar(&goarch, "arch", "", "target GOARCH (default: host)")
	return cmd
}

func buildServer(output, goos, goarch string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	env := os.Environ()
	if goos != "" {
		env = append(env, "GOOS="+goos)
	}
	if goarch != "" {
		env = append(env, "GOARCH="+goarch)
	}
	// modernc.org/sqlite is pure Go, so cross builds need no C toolchain.
	env = append(env, "CGO_ENABLED=0")

	fmt.Println("==> Building", output)
	start := time.Now()
	if err := runEnv(env, "go", "build", "-trimpath", "-ldflags", "-s -w", "-o", output, "./cmd/server"); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}

	fmt.Printf("==> Done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func run(name string, args ...string) error {
	return runEnv(nil, name, args...)
}

func runEnv(env []string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
