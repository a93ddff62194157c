// Package hugo runs the external hugo binary that renders the HTML site.
// Hugo stays an external collaborator; this package only locates, invokes
// and reports on it.
package hugo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

// Renderer abstracts the static site rendering step so the pipeline can
// swap the external binary for a no-op or a fake in tests.
type Renderer interface {
	Execute(ctx context.Context, rootDir string) error
}

// BinaryRenderer invokes the hugo binary.
type BinaryRenderer struct {
	// Path overrides PATH lookup when set.
	Path string
	// Minify adds --minify (the production default).
	Minify bool
	// OutputDir adds --destination when it differs from hugo's default.
	OutputDir string
	// ExtraArgs are appended verbatim after the flags above.
	ExtraArgs []string
}

// args assembles the hugo argument list.
func (b *BinaryRenderer) args() []string {
	var args []string
	if b.Minify {
		args = append(args, "--minify")
	}
	if b.OutputDir != "" && b.OutputDir != "public" {
		args = append(args, "--destination", b.OutputDir)
	}
	return append(args, b.ExtraArgs...)
}

// Execute runs hugo with the project root as working directory. Both output
// streams are captured for diagnostics; on failure they join the error so
// the operator sees hugo's own message, and the *exec.ExitError remains
// unwrappable for exit-code propagation.
func (b *BinaryRenderer) Execute(ctx context.Context, rootDir string) error {
	binary := b.Path
	if binary == "" {
		resolved, err := exec.LookPath("hugo")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
		}
		binary = resolved
	}

	args := b.args()
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = rootDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Invoking hugo", logfields.Path(rootDir), slog.Any("args", args))
	err := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("hugo stdout", logfields.Output(out))
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("hugo stderr", logfields.Output(errOut))
	}

	if err != nil {
		// Hugo writes errors to either stream depending on the failure.
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		}
		if output != "" {
			return fmt.Errorf("%w: %w: %s", ErrExecutionFailed, err, output)
		}
		return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return nil
}

// NoopRenderer performs no rendering; used in tests and dry runs.
type NoopRenderer struct{}

func (n *NoopRenderer) Execute(_ context.Context, rootDir string) error {
	slog.Debug("NoopRenderer skipping render", logfields.Path(rootDir))
	return nil
}
