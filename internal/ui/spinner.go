package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var frames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner displays an animated progress indicator.
type Spinner struct {
	w    io.Writer
	mu   sync.Mutex
	msg  string
	done chan struct{}
}

// NewSpinner creates a Spinner drawing on stderr (not yet running).
func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr)
}

func NewSpinnerTo(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Start begins the spinner animation with the given message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		s.msg = msg
		return
	}
	s.msg = msg
	s.done = make(chan struct{})
	go s.run(s.done)
}

// Update changes the spinner message while it's running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}
	close(s.done)
	s.done = nil
	fmt.Fprint(s.w, "\r\033[K")
}

func (s *Spinner) run(done <-chan struct{}) {
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			// Stop may have won the race for the lock.
			select {
			case <-done:
				s.mu.Unlock()
				return
			default:
			}
			fmt.Fprintf(s.w, "\r\033[K%c %s", frames[i%len(frames)], s.msg)
			s.mu.Unlock()
			i++
		}
	}
}
