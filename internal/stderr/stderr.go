//go:build !windows

// Package stderr captures stderr output from C libraries (ALSA) that write
// directly to file descriptor 2, bypassing Go's os.Stderr. This keeps raw
// device noise from corrupting the TUI layout; captured lines go to the
// logger instead.
package stderr

import (
	"log/slog"
	"os"
	"syscall"
)

var (
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
	done       chan struct{}
)

// Start begins capturing stderr output and forwards each non-empty line to
// logger at warn level. Must be called early in main(), before the audio
// device is initialised. On error the program can continue without
// capture.
func Start(logger *slog.Logger) error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	err = syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd()))
	if err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true
	done = make(chan struct{})

	go func() {
		defer close(done)
		forward(pipeRead, logger)
	}()

	return nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if the TUI is running.
func WriteOriginal(msg string) {
	if !started {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(origStderr, []byte(msg))
}

// Stop restores the original stderr. Should be called on program exit.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)

	// closing the write end ends the forwarder
	pipeWrite.Close()
	<-done
	pipeRead.Close()

	started = false
}
