package pty

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewRingBuffer(t *testing.T) {
	rb := NewRingBuffer(10)
	if rb.size != 10 {
		t.Errorf("size = %d, want 10", rb.size)
	}
	if len(rb.data) != 10 {
		t.Errorf("len(data) = %d, want 10", len(rb.data))
	}
}

func TestRingBufferWrite(t *testing.T) {
	rb := NewRingBuffer(5)

	rb.Write([]byte("abc"))
	result := rb.String()

	if result != "abc" {
		t.Errorf("String() = %q, want %q", result, "abc")
	}
}

func TestRingBufferOverwrite(t *testing.T) {
	rb := NewRingBuffer(5)

	// Write more than buffer size
	rb.Write([]byte("hello world"))

	// Should contain last 5 characters
	result := rb.String()
	if result != "world" {
		t.Errorf("String() = %q, want %q", result, "world")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(5)
	result := rb.String()

	if result != "" {
		t.Errorf("String() on empty buffer = %q, want empty", result)
	}
}

func TestRingBufferExactFit(t *testing.T) {
	rb := NewRingBuffer(5)
	rb.Write([]byte("12345"))

	result := rb.String()
	if result != "12345" {
		t.Errorf("String() = %q, want %q", result, "12345")
	}
}

func TestRingBufferReset(t *testing.T) {
	rb := NewRingBuffer(5)
	rb.Write([]byte("hello world"))
	rb.Reset()
	rb.Write([]byte("ab"))

	if result := rb.String(); result != "ab" {
		t.Errorf("String() after Reset() = %q, want %q", result, "ab")
	}
}

func TestRingBufferMultipleWrites(t *testing.T) {
	rb := NewRingBuffer(10)

	rb.Write([]byte("hello"))
	rb.Write([]byte(" "))
	rb.Write([]byte("world"))

	result := rb.String()
	// 11 chars written to 10-byte buffer, keeps last 10: "ello world"
	if result != "ello world" {
		t.Errorf("String() = %q, want %q", result, "ello world")
	}
}

func TestNewRunnerValidation(t *testing.T) {
	// Empty command should fail
	_, err := NewRunner("", nil, "")
	if err == nil {
		t.Error("NewRunner() with empty command should return error")
	}

	// Valid command should succeed
	r, err := NewRunner("echo", []string{"test"}, "")
	if err != nil {
		t.Errorf("NewRunner() error = %v", err)
	}
	if r == nil {
		t.Error("NewRunner() returned nil")
	}
}

func TestRunnerGetRecentOutputEmpty(t *testing.T) {
	r, _ := NewRunner("echo", []string{"test"}, "")

	output := r.GetRecentOutput()
	if output != "" {
		t.Errorf("GetRecentOutput() = %q, want empty", output)
	}
}

func TestRunnerPerform(t *testing.T) {
	r, _ := NewRunner("sh", []string{"-c", "echo swept"}, t.TempDir())

	if err := r.Perform(context.Background()); err != nil {
		t.Fatalf("Perform() error = %v", err)
	}
	if got := r.GetRecentOutput(); !strings.Contains(got, "swept") {
		t.Errorf("GetRecentOutput() = %q, want it to contain %q", got, "swept")
	}
}

func TestRunnerPerformFailure(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "silent",
			script: "exit 3",
			want:   []string{"exit status 3"},
		},
		{
			name:   "output is quoted",
			script: "echo no screen found; exit 2",
			want:   []string{"exit status 2", "no screen found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := NewRunner("sh", []string{"-c", tt.script}, "")

			err := r.Perform(context.Background())
			if err == nil {
				t.Fatal("Perform() error = nil, want exit status")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("Perform() error = %q, want it to contain %q", err, w)
				}
			}
		})
	}
}

func TestRunnerFailureQuotesOnlyTheTail(t *testing.T) {
	r, _ := NewRunner("sh", []string{"-c", "printf 'x%.0s' $(seq 2000); echo END; exit 1"}, "")

	err := r.Perform(context.Background())
	if err == nil {
		t.Fatal("Perform() error = nil, want exit status")
	}
	if !strings.HasSuffix(err.Error(), "END") {
		t.Errorf("Perform() error does not end with the last output: %q", err)
	}
	if len(err.Error()) > errorTail+64 {
		t.Errorf("Perform() error is %d bytes, want at most the tail", len(err.Error()))
	}
}

func TestRunnerOutputIsPerRun(t *testing.T) {
	r, _ := NewRunner("sh", []string{"-c", "echo $$"}, "")

	if err := r.Perform(context.Background()); err != nil {
		t.Fatalf("Perform() error = %v", err)
	}
	first := r.GetRecentOutput()
	if err := r.Perform(context.Background()); err != nil {
		t.Fatalf("Perform() error = %v", err)
	}
	second := r.GetRecentOutput()

	if strings.Contains(second, strings.TrimSpace(first)) {
		t.Errorf("second run output %q still holds first run %q", second, first)
	}
}

func TestRunnerPerformCancelled(t *testing.T) {
	r, _ := NewRunner("sleep", []string{"30"}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := r.Perform(ctx); err == nil {
		t.Fatal("Perform() error = nil, want killed")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Perform() took %v after cancel", elapsed)
	}
}
