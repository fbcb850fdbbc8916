//go:build darwin

package inhibit

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// darwinBackend implements Backend by holding a caffeinate child process
// per acquired lock. caffeinate creates the matching IOKit power
// assertion and drops it when the child exits, so locks auto-clear when
// this process (and with it the child) dies.
type darwinBackend struct {
	cfg Config

	mu       sync.Mutex
	children map[uint64]*exec.Cmd // keyed by pid
}

// NewDarwinBackend verifies caffeinate is available and creates the
// backend.
func NewDarwinBackend(cfg Config) (Backend, error) {
	if _, err := exec.LookPath("caffeinate"); err != nil {
		return nil, fmt.Errorf("caffeinate not found: %w", err)
	}
	return &darwinBackend{
		cfg:      cfg,
		children: make(map[uint64]*exec.Cmd),
	}, nil
}

func (b *darwinBackend) Name() string {
	return "darwin"
}

// caffeinateArgs maps an inhibition kind to caffeinate flags: -i asserts
// no idle system sleep, -d additionally keeps the display awake.
func caffeinateArgs(kind Kind) []string {
	if kind == DisplaySleep {
		return []string{"-d", "-i"}
	}
	return []string{"-i"}
}

func (b *darwinBackend) Acquire(ctx context.Context, kind Kind) ([]Token, error) {
	_ = ctx // caffeinate is started, not awaited; no bounded call needed

	cmd := exec.Command("caffeinate", caffeinateArgs(kind)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("inhibit %s: start caffeinate: %w", FacilityCaffeinate, err)
	}
	pid := uint64(cmd.Process.Pid)

	b.mu.Lock()
	b.children[pid] = cmd
	b.mu.Unlock()

	return []Token{{Facility: FacilityCaffeinate, Cookie: pid}}, nil
}

func (b *darwinBackend) Release(ctx context.Context, token Token) error {
	if token.Facility != FacilityCaffeinate {
		return fmt.Errorf("release: unknown facility %q", token.Facility)
	}

	b.mu.Lock()
	cmd, ok := b.children[token.Cookie]
	delete(b.children, token.Cookie)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("release %s: unknown token %d", FacilityCaffeinate, token.Cookie)
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("release %s pid %d: %w", FacilityCaffeinate, token.Cookie, err)
	}
	// Reap the child; a kill-induced exit error is the expected outcome.
	_ = cmd.Wait()
	return nil
}

// Close reaps any children still tracked. Their assertions are released
// as a side effect, which matches the drop-everything semantics callers
// expect from a final Close.
func (b *darwinBackend) Close() error {
	b.mu.Lock()
	children := b.children
	b.children = make(map[uint64]*exec.Cmd)
	b.mu.Unlock()

	var first error
	for pid, cmd := range children {
		if err := cmd.Process.Kill(); err != nil && first == nil {
			first = fmt.Errorf("close: kill caffeinate pid %d: %w", pid, err)
		}
		_ = cmd.Wait()
	}
	return first
}
