// Package ui - Terminal user interface
// Colored report output and a progress spinner for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out     io.Writer
	noColor bool
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:     out,
		noColor: noColor,
	}
}

// Color applies color if enabled
func (w *Writer) Color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Blank writes an empty line
func (w *Writer) Blank() {
	fmt.Fprintln(w.out)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Blank()
	w.Println("%s", w.Color(Bold+Cyan, "--- "+title+" ---"))
	w.Blank()
}

// Field prints a "label: value" line
func (w *Writer) Field(label string, value interface{}) {
	w.Println("%s: %v", w.Color(Bold, label), value)
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s", w.Color(Green, fmt.Sprintf(format, args...)))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s", w.Color(Yellow, fmt.Sprintf(format, args...)))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s", w.Color(Red, fmt.Sprintf(format, args...)))
}

// Spinner shows a loading spinner
type Spinner struct {
	w       *Writer
	label   string
	frames  []string
	current int
	once    sync.Once
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner
func (w *Writer) NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start starts the spinner
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.current = (s.current + 1) % len(s.frames)
				fmt.Fprintf(s.w.out, "\r%s %s", s.w.Color(Cyan, s.frames[s.current]), s.label)
			}
		}
	}()
}

// Stop stops the spinner and prints the final state. Stop must follow
// Start and is safe to call more than once.
func (s *Spinner) Stop(success bool) {
	s.once.Do(func() {
		close(s.stop)
		<-s.done

		icon := s.w.Color(Green, "✓")
		if !success {
			icon = s.w.Color(Red, "✗")
		}
		fmt.Fprintf(s.w.out, "\r%s %s\n", icon, s.label)
	})
}
