package notify

import (
	"log/slog"
	"sync"
)

// Notifier is the fire-and-forget surface the board uses to tell the user
// about the outcome of a durable update. Rendering (toasts etc.) lives in the
// frontend; this port only carries the message.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Log emits notifications through slog. This is the server-side default.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Success(message string) {
	l.logger().Info("notify", slog.String("kind", "success"), slog.String("message", message))
}

func (l Log) Failure(message string) {
	l.logger().Warn("notify", slog.String("kind", "failure"), slog.String("message", message))
}

func (l Log) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Recorder captures notifications in memory. Used by tests and by callers that
// drain messages into their own delivery channel.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

func (r *Recorder) Failure(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, message)
}

// Successes returns a copy of the recorded success messages.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Failures returns a copy of the recorded failure messages.
func (r *Recorder) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}
