// Package pdf extracts per-page text from PDF files using poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/normalisers/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ToolName is the external binary used for extraction.
const ToolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Extractor runs pdftotext over PDF content.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
	tempDir  string
}

// New creates an extractor that executes pdftotext directly.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner, lookPath: exec.LookPath}
}

// SetTempDir sets where PDF content is staged for pdftotext.
// Empty means os.TempDir.
func (e *Extractor) SetTempDir(dir string) {
	e.tempDir = dir
}

// CheckAvailable returns ErrPDFToolNotFound when pdftotext cannot be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(ToolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to ingest PDF files.

Install poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// Supports reports whether name has a .pdf extension.
func (e *Extractor) Supports(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Extract stages content in a temp file and runs `pdftotext -layout <file> -`.
// Pages are split on form feeds; empty pages keep their number.
func (e *Extractor) Extract(ctx context.Context, name string, content []byte) (*domain.Document, error) {
	if _, err := e.lookPath(ToolName); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, ErrPDFToolNotFound)
	}

	tmp, err := os.CreateTemp(e.tempDir, "groundwork-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: stage %s: %w", domain.ErrExtraction, name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: stage %s: %w", domain.ErrExtraction, name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: stage %s: %w", domain.ErrExtraction, name, err)
	}

	out, err := e.runner.Run(ctx, ToolName, "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed for %s: %w", domain.ErrExtraction, name, err)
	}

	return &domain.Document{
		SourceName: filepath.Base(name),
		Pages:      splitPages(string(out)),
		Metadata:   map[string]any{"format": "pdf"},
	}, nil
}

// splitPages splits pdftotext output into cleaned, numbered pages.
// pdftotext terminates every page with a form feed, so a trailing empty
// segment is dropped.
func splitPages(out string) []domain.Page {
	parts := strings.Split(out, pageBreak)
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]domain.Page, len(parts))
	for i, p := range parts {
		pages[i] = domain.Page{Number: i + 1, Text: plaintext.Clean(p)}
	}
	return pages
}
