// Package proc supervises one external player process at a time: spawning it
// into its own process group, capturing its output through long-lived pipes
// and stopping or suspending the whole group with signals.
package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/cadence-player/cadence/log"
)

var (
	// ErrPlayerNotFound means the player executable is not on PATH.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrSpawnFailure means the executable exists but could not be started.
	ErrSpawnFailure = errors.New("player failed to start")
)

const (
	stopRetries = 20
	stopDelay   = 100 * time.Millisecond
)

// Supervisor owns one pair of pipes for the lifetime of the program and runs
// successive player processes against them. Reader goroutines drain the read
// ends continuously, so a player exiting never loses buffered output and a
// respawn never reopens file descriptors.
type Supervisor struct {
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{}
	started time.Time
	paused  bool
}

// NewSupervisor allocates the supervisor and its pipe pairs.
func NewSupervisor() (*Supervisor, error) {
	s := &Supervisor{}

	var err error
	s.stdoutR, s.stdoutW, err = os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	s.stderrR, s.stderrW, err = os.Pipe()
	if err != nil {
		s.stdoutR.Close()
		s.stdoutW.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	return s, nil
}

// Stdout is the read end every spawned player's stdout feeds into.
func (s *Supervisor) Stdout() *os.File { return s.stdoutR }

// Stderr is the read end every spawned player's stderr feeds into.
func (s *Supervisor) Stderr() *os.File { return s.stderrR }

// Spawn starts argv[0] with the remaining arguments in a fresh process
// group, stopping any player still running first.
func (s *Supervisor) Spawn(argv []string) error {
	s.Stop()

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, argv[0])
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdout = s.stdoutW
	cmd.Stderr = s.stderrW
	cmd.Stdin = nil
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSpawnFailure, argv[0], err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	s.mu.Lock()
	s.cmd = cmd
	s.exited = exited
	s.started = time.Now()
	s.paused = false
	s.mu.Unlock()

	log.Debugf("spawned %s (pid %d)", argv[0], cmd.Process.Pid)
	return nil
}

// Running reports whether the current player process is still alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running()
}

func (s *Supervisor) running() bool {
	if s.cmd == nil {
		return false
	}
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// StartedAt is the time of the most recent successful Spawn.
func (s *Supervisor) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Paused reports whether the current process group is suspended.
func (s *Supervisor) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// TogglePause suspends or resumes the whole process group and returns the
// resulting paused state. Without a live player it does nothing.
func (s *Supervisor) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return false
	}
	if s.paused {
		if err := resumeGroup(s.cmd); err != nil {
			log.Warnf("resume pid %d: %v", s.cmd.Process.Pid, err)
			return s.paused
		}
		s.paused = false
	} else {
		if err := suspendGroup(s.cmd); err != nil {
			log.Warnf("suspend pid %d: %v", s.cmd.Process.Pid, err)
			return s.paused
		}
		s.paused = true
	}
	return s.paused
}

// Stop interrupts the process group repeatedly until the player exits,
// escalating to a kill if it ignores the interrupts. A suspended group is
// resumed first so the signals are delivered. Stop is a no-op when nothing
// is running.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	if cmd != nil && s.paused {
		_ = resumeGroup(cmd)
		s.paused = false
	}
	s.mu.Unlock()

	if cmd == nil {
		return
	}

	for i := 0; i < stopRetries; i++ {
		select {
		case <-exited:
			return
		default:
		}
		_ = interruptGroup(cmd)
		select {
		case <-exited:
			return
		case <-time.After(stopDelay):
		}
	}

	log.Warnf("pid %d ignored interrupts, killing", cmd.Process.Pid)
	_ = killProcess(cmd)
	<-exited
}

// Close stops the player and releases the pipe pairs.
func (s *Supervisor) Close() {
	s.Stop()
	s.stdoutW.Close()
	s.stderrW.Close()
	s.stdoutR.Close()
	s.stderrR.Close()
}
