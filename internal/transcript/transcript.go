// Package transcript dumps conversations as YAML for reading after a session.
//
// Messages are written with yaml.v3, which renders multi-line content as block scalars,
// so prompts stay readable. Nothing is truncated.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rickchristie/planact"
	"gopkg.in/yaml.v3"
)

// Entry is the YAML document written for one dump.
type Entry struct {
	Session  string            `yaml:"session"`
	Question string            `yaml:"question,omitempty"`
	Messages []planact.Message `yaml:"messages"`
}

// Writer appends transcript entries to an io.Writer.
type Writer struct {
	out io.Writer
	now func() time.Time
}

// New creates a Writer that writes to w.
func New(w io.Writer) *Writer {
	return &Writer{out: w, now: time.Now}
}

// WithClock sets the clock used for entry headers.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Write appends one entry preceded by a timestamped header.
func (w *Writer) Write(entry Entry) error {
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	timestamp := w.now().Format("2006-01-02 15:04:05.000")
	if _, err := fmt.Fprintf(w.out, "---\n# >>> [%s]: %s\n%s", entry.Session, timestamp, data); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// AppendFile appends entry to the file at path, creating it if needed.
func AppendFile(path string, entry Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	return appendTo(f, entry)
}

func appendTo(f io.WriteCloser, entry Entry) error {
	err := New(f).Write(entry)
	if cerr := f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close transcript: %w", cerr))
	}
	return err
}

// Read decodes every entry in r, in order.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	dec := yaml.NewDecoder(r)
	for {
		var e Entry
		err := dec.Decode(&e)
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("decode transcript: %w", err)
		}
		entries = append(entries, e)
	}
}
