package pdf

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
	staged []byte
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	if len(args) >= 2 {
		m.staged, _ = os.ReadFile(args[1])
	}
	return m.output, m.err
}

func foundTool(string) (string, error) { return "/usr/bin/pdftotext", nil }

func newTestExtractor(t *testing.T, runner CommandRunner) *Extractor {
	t.Helper()
	e := NewWithRunner(runner)
	e.lookPath = foundTool
	e.SetTempDir(t.TempDir())
	return e
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("policy.pdf"))
	assert.True(t, e.Supports("/inbox/POLICY.PDF"))
	assert.False(t, e.Supports("notes.txt"))
}

func TestExtract_SplitsPages(t *testing.T) {
	runner := &mockRunner{output: []byte("Page one\x00text\n\fPage two\n\f\f")}
	e := newTestExtractor(t, runner)

	doc, err := e.Extract(context.Background(), "/inbox/policy.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, ToolName, runner.name)
	require.Len(t, runner.args, 3)
	assert.Equal(t, "-layout", runner.args[0])
	assert.Equal(t, "-", runner.args[2])
	assert.Equal(t, []byte("%PDF-1.4 fake"), runner.staged)

	assert.Equal(t, "policy.pdf", doc.SourceName)
	assert.Equal(t, "pdf", doc.Metadata["format"])
	require.Len(t, doc.Pages, 3)
	assert.Equal(t, domain.Page{Number: 1, Text: "Page one text"}, doc.Pages[0])
	assert.Equal(t, domain.Page{Number: 2, Text: "Page two"}, doc.Pages[1])
	assert.Equal(t, domain.Page{Number: 3, Text: ""}, doc.Pages[2])
}

func TestExtract_RemovesStagedFile(t *testing.T) {
	runner := &mockRunner{output: []byte("x\f")}
	e := newTestExtractor(t, runner)

	_, err := e.Extract(context.Background(), "a.pdf", []byte("%PDF"))
	require.NoError(t, err)

	_, statErr := os.Stat(runner.args[1])
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtract_RunnerError(t *testing.T) {
	e := newTestExtractor(t, &mockRunner{err: errors.New("pdftotext crashed")})

	doc, err := e.Extract(context.Background(), "broken.pdf", []byte("%PDF"))
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtract_ToolMissing(t *testing.T) {
	e := NewWithRunner(&mockRunner{})
	e.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := e.Extract(context.Background(), "a.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestSplitPages_NoFormFeed(t *testing.T) {
	pages := splitPages("  single page  ")
	require.Len(t, pages, 1)
	assert.Equal(t, "single page", pages[0].Text)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
