// Package convert runs the external markup-to-DOCX conversion step and
// loads the result into a document tree. The converter binary is treated
// as an opaque black box; everything this module needs from its output is
// recovered from the DOCX archive it produces.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tsawler/texword/docx"
	"github.com/tsawler/texword/model"
)

// Converter turns prepared source markup into a document tree. workDir
// holds the intermediate conversion artifacts and extracted media; the
// caller owns its lifecycle.
type Converter interface {
	Convert(ctx context.Context, markup, workDir string) (*model.Document, error)
}

// ConversionError reports a failed external conversion, including the
// tool's diagnostics.
type ConversionError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s conversion failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s conversion failed: %v", e.Command, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// DefaultTimeout bounds one external conversion run.
const DefaultTimeout = 5 * time.Minute

// Pandoc converts LaTeX to DOCX by invoking the pandoc binary.
type Pandoc struct {
	// Command is the binary to invoke. Defaults to "pandoc".
	Command string

	// Timeout bounds the conversion. Defaults to DefaultTimeout.
	Timeout time.Duration

	// ResourceDir is passed to the converter for resolving relative image
	// paths. Defaults to workDir.
	ResourceDir string
}

// Convert writes the markup to a scratch file, runs the converter, and
// reads the produced DOCX back into a document tree. Media embedded in
// the output is extracted under workDir.
func (p *Pandoc) Convert(ctx context.Context, markup, workDir string) (*model.Document, error) {
	command := p.Command
	if command == "" {
		command = "pandoc"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	resourceDir := p.ResourceDir
	if resourceDir == "" {
		resourceDir = workDir
	}

	srcPath := filepath.Join(workDir, "prepared.tex")
	outPath := filepath.Join(workDir, "converted.docx")
	if err := os.WriteFile(srcPath, []byte(markup), 0o644); err != nil {
		return nil, fmt.Errorf("writing conversion input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command,
		"-f", "latex",
		"-t", "docx",
		"--wrap=none",
		"--resource-path", resourceDir,
		"-o", outPath,
		srcPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &ConversionError{
			Command: command,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	mediaDir := filepath.Join(workDir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	doc, err := docx.Read(outPath, mediaDir)
	if err != nil {
		return nil, fmt.Errorf("reading converter output: %w", err)
	}
	return doc, nil
}
