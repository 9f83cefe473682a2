package console

import (
	"fmt"
	"io"
	"sync"
)

// Button is a terminal stand-in for the submit button. When out is set,
// every change is echoed as a status line.
type Button struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	label   string
}

func NewButton(out io.Writer, label string) *Button {
	return &Button{out: out, label: label, enabled: true}
}

func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *Button) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.enabled == enabled {
		return
	}
	b.enabled = enabled
	b.echo()
}

func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Button) SetLabel(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.label == label {
		return
	}
	b.label = label
	b.echo()
}

func (b *Button) echo() {
	if b.out == nil {
		return
	}
	state := "ready"
	if !b.enabled {
		state = "busy"
	}
	fmt.Fprintf(b.out, "-- [%s] %s\n", b.label, state)
}
