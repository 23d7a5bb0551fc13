package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, nil))

	log.Warn("пропущено изображение", "src", "a b.png", "count", 2, "error", errors.New("boom"))

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "WARN  пропущено изображение")
	assert.Contains(t, line, `src="a b.png"`)
	assert.Contains(t, line, "count=2")
	assert.Contains(t, line, "error=boom")
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "DEBUG shown")
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, nil)).With("cmd", "tg").WithGroup("page").With("path", "p")

	log.Info("done", "views", 3)
	assert.Contains(t, buf.String(), "cmd=tg page.path=p page.views=3")
}
