package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"

	"github.com/KamilPietrzak/blogbuild/cmd/blogbuild/commands"
	"github.com/KamilPietrzak/blogbuild/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("blogbuild"),
		kong.Description("Two-step blog builder: Hugo HTML site plus a Gemini capsule."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(&commands.Global{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps err onto the process exit status. A hugo child that
// failed propagates its own exit code; an interrupted run exits the way
// a SIGINT-terminated shell command does.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
