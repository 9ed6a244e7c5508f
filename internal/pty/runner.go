package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	log "github.com/sirupsen/logrus"
)

const (
	// drainTimeout bounds how long output is read after the command exits
	drainTimeout = 200 * time.Millisecond
	// errorTail is how much output is quoted in a failed run's error
	errorTail = 512
)

// Runner runs a command on a pseudo-terminal each time a sweep completes.
// Commands get a terminal so tools that check isatty behave as they would
// when run by hand.
type Runner struct {
	command    string
	args       []string
	workingDir string

	outputMu     sync.RWMutex
	outputBuffer *RingBuffer
}

// RingBuffer is a simple ring buffer for storing recent output
type RingBuffer struct {
	data  []byte
	size  int
	write int
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the ring buffer, overwriting the oldest bytes
func (rb *RingBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
	}
	return len(p), nil
}

// Reset empties the buffer
func (rb *RingBuffer) Reset() {
	clear(rb.data)
	rb.write = 0
}

// String returns the buffer contents as a string
func (rb *RingBuffer) String() string {
	// Return from oldest to newest
	result := make([]byte, rb.size)
	for i := 0; i < rb.size; i++ {
		result[i] = rb.data[(rb.write+i)%rb.size]
	}
	// Trim null bytes
	start := 0
	for start < len(result) && result[start] == 0 {
		start++
	}
	return string(result[start:])
}

// NewRunner creates a new command runner
func NewRunner(command string, args []string, workingDir string) (*Runner, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Runner{
		command:      command,
		args:         args,
		workingDir:   workingDir,
		outputBuffer: NewRingBuffer(4096), // Keep last 4KB of output
	}, nil
}

// Perform runs the command to completion. Cancelling ctx kills it. A failed
// run's error ends with the last of the command's output.
func (r *Runner) Perform(ctx context.Context) error {
	r.outputMu.Lock()
	r.outputBuffer.Reset()
	r.outputMu.Unlock()

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}
	defer ptmx.Close()

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		r.readOutput(ptmx)
	}()

	waitErr := cmd.Wait()

	// Linux reports EIO on the master once the child side closes; anything
	// still holding the terminal open is cut off after drainTimeout.
	select {
	case <-copied:
	case <-time.After(drainTimeout):
	}

	if waitErr != nil {
		if tail := r.outputTail(errorTail); tail != "" {
			return fmt.Errorf("%s: %w: %s", r.command, waitErr, tail)
		}
		return fmt.Errorf("%s: %w", r.command, waitErr)
	}
	log.WithField("command", r.command).Debug("Command finished")
	return nil
}

// readOutput copies terminal output into the ring buffer until EOF or EIO
func (r *Runner) readOutput(src io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			r.outputMu.Lock()
			r.outputBuffer.Write(buf[:n])
			r.outputMu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				log.WithError(err).Trace("PTY read ended")
			}
			return
		}
	}
}

// GetRecentOutput returns the output of the latest run
func (r *Runner) GetRecentOutput() string {
	r.outputMu.RLock()
	defer r.outputMu.RUnlock()
	return r.outputBuffer.String()
}

// outputTail returns at most n trailing bytes of output on one line
func (r *Runner) outputTail(n int) string {
	out := r.GetRecentOutput()
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return strings.Join(strings.Fields(out), " ")
}
