// Package notify delivers short user-facing notifications.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Writer prints one line per notification.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[ok] %s\n", msg)
}

func (n *Writer) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[error] %s\n", msg)
}

type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

type Note struct {
	Kind    Kind
	Message string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Success(msg string) { r.add(Note{KindSuccess, msg}) }
func (r *Recorder) Error(msg string) { r.add(Note{KindError, msg}) }

func (r *Recorder) add(n Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notes returns a copy of what was recorded so far.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// Messages returns the recorded messages of kind k.
func (r *Recorder) Messages(k Kind) []string {
	var out []string
	for _, n := range r.Notes() {
		if n.Kind == k {
			out = append(out, n.Message)
		}
	}
	return out
}
