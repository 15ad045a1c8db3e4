package utils

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const spinnerFrames = `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`

// Spinner is a terminal progress indicator shown while a signature is being composed.
type Spinner struct {
	mu         sync.Mutex
	once       sync.Once
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	StopMsg    string
	hideCursor bool
	stop       chan struct{}
	done       chan struct{}
}

// NewSpinner instantiates a new progress indicator writing into w.
func NewSpinner(w io.Writer, msg string, d time.Duration, hideCursor bool) *Spinner {
	return &Spinner{
		delay:      d,
		writer:     w,
		message:    msg,
		hideCursor: hideCursor,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start starts the progress indicator in a separate goroutine.
func (s *Spinner) Start() {
	if s.hideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(s.writer, "\033[?25l")
	}

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()

		frames := []rune(spinnerFrames)
		for i := 0; ; i = (i + 1) % len(frames) {
			s.mu.Lock()
			s.clear()
			output := fmt.Sprintf("\r%s %s", s.message, DecorateText(string(frames[i]), SuccessMessage))
			fmt.Fprint(s.writer, output)
			s.lastOutput = output
			s.mu.Unlock()

			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the progress indicator and prints the StopMsg, if any.
// It is safe to call Stop more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()

		s.clear()
		s.RestoreCursor()
		if len(s.StopMsg) > 0 {
			fmt.Fprint(s.writer, s.StopMsg)
		}
	})
}

// RestoreCursor restores back the cursor visibility.
func (s *Spinner) RestoreCursor() {
	if s.hideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(s.writer, "\033[?25h")
	}
}

// clear deletes the last line. Caller must hold the locker.
func (s *Spinner) clear() {
	n := utf8.RuneCountInString(s.lastOutput)
	if n == 0 {
		return
	}
	if runtime.GOOS == "windows" {
		fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", n)+"\r")
		s.lastOutput = ""
		return
	}
	fmt.Fprint(s.writer, "\r\033[K")
	s.lastOutput = ""
}
