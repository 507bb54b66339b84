package gui

import (
	"regexp"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ansiSequence matches the color codes of zerolog's console writer
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// LogBuffer is an io.Writer keeping the most recent log lines, newest
// first. It is safe for concurrent use and can be created before the GUI.
type LogBuffer struct {
	mu       sync.Mutex
	lines    []string
	partial  string
	maxLines int
	onChange func()
}

// NewLogBuffer creates a buffer holding at most maxLines lines
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = 1000
	}
	return &LogBuffer{maxLines: maxLines}
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	text := ansiSequence.ReplaceAllString(string(p), "")

	b.mu.Lock()
	text = b.partial + text
	parts := strings.Split(text, "\n")
	// The last part is incomplete unless text ended with a newline
	b.partial = parts[len(parts)-1]

	added := false
	for _, line := range parts[:len(parts)-1] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.lines = append([]string{line}, b.lines...)
		added = true
	}
	if len(b.lines) > b.maxLines {
		b.lines = b.lines[:b.maxLines]
	}
	onChange := b.onChange
	b.mu.Unlock()

	if added && onChange != nil {
		onChange()
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, newest first
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Clear drops all buffered lines
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.lines = nil
	b.partial = ""
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (b *LogBuffer) setOnChange(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = f
}

// LogViewer is a widget that displays the lines of a LogBuffer
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	buffer     *LogBuffer
}

// NewLogViewer creates a viewer following buffer
func NewLogViewer(buffer *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buffer}

	// Read-only multiline entry
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.Direction = container.ScrollBoth

	clearButton := widget.NewButton("Clear log", buffer.Clear)

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		container.NewHBox(clearButton),
		nil,
		nil,
		v.scrollView,
	)

	buffer.setOnChange(func() {
		// Update UI on main thread
		fyne.Do(v.refreshLines)
	})
	v.refreshLines()

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refreshLines() {
	v.logEntry.SetText(strings.Join(v.buffer.Lines(), "\n"))

	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
