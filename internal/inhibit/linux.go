//go:build linux

package inhibit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"

	dbus "github.com/godbus/dbus/v5"
)

// linuxBackend implements Backend for Linux desktops and servers.
//
// Acquisition order mirrors the Chromium power-save blocker: try the
// single org.gnome.SessionManager call first, then the
// org.freedesktop.ScreenSaver + PowerManagement pair. When no session bus
// is reachable at all (headless boxes, non-desktop sessions) it falls
// back to a systemd-logind block lock, paired with an X11 screensaver
// toggle for display inhibition when $DISPLAY is set.
//
// Every lock auto-clears when its carrying connection drops: session-bus
// cookies and the logind fd die with the bus connection, the X11
// screensaver settings are per-connection state only while we hold the
// saved values. None of this survives a SIGKILL mid-session for the X11
// path, which is why the D-Bus tiers are preferred.
type linuxBackend struct {
	cfg Config

	mu      sync.Mutex
	session *dbus.Conn // session bus; nil when unreachable
	system  *dbus.Conn // system bus, connected lazily for logind
	saved   map[uint64]savedScreenSaver
	nextGen uint64

	xmu sync.Mutex
	x   xConn // X connection, established lazily
}

// NewLinuxBackend connects to the session bus, or failing that to the
// system bus so the logind fallback stays available. It errors only when
// neither bus is reachable.
func NewLinuxBackend(cfg Config) (Backend, error) {
	b := &linuxBackend{
		cfg:   cfg,
		saved: make(map[uint64]savedScreenSaver),
	}
	session, sessionErr := dbus.ConnectSessionBus()
	if sessionErr == nil {
		b.session = session
		return b, nil
	}
	system, systemErr := dbus.ConnectSystemBus()
	if systemErr != nil {
		return nil, fmt.Errorf("connect session bus: %v; connect system bus: %w",
			sessionErr, systemErr)
	}
	b.system = system
	return b, nil
}

func (b *linuxBackend) Name() string {
	return "linux"
}

func (b *linuxBackend) Acquire(ctx context.Context, kind Kind) ([]Token, error) {
	if b.sessionConn() != nil {
		return b.acquireSessionBus(ctx, kind)
	}
	return b.acquireHeadless(ctx, kind)
}

// acquireSessionBus runs the desktop-session tiers: the gnome single
// call, then the freedesktop pair with rollback.
func (b *linuxBackend) acquireSessionBus(ctx context.Context, kind Kind) ([]Token, error) {
	token, gnomeErr := b.inhibitSessionBus(ctx, FacilityGnomeSession, kind)
	if gnomeErr == nil {
		return []Token{token}, nil
	}

	var steps []acquireStep
	if kind == DisplaySleep {
		steps = append(steps, b.sessionBusStep(FacilityScreenSaver, kind))
	}
	steps = append(steps, b.sessionBusStep(FacilityPowerManagement, kind))

	tokens, pairErr := acquireSequence(ctx, steps)
	if pairErr != nil {
		return nil, fmt.Errorf("%s: %v; fallback %w", FacilityGnomeSession, gnomeErr, pairErr)
	}
	return tokens, nil
}

// acquireHeadless runs the no-session-bus tier: a logind block lock,
// plus the X11 screensaver toggle for display inhibition when an X
// display is available.
func (b *linuxBackend) acquireHeadless(ctx context.Context, kind Kind) ([]Token, error) {
	steps := []acquireStep{{
		facility: FacilityLogind,
		do:       b.acquireLogind,
		undo:     b.Release,
	}}
	if kind == DisplaySleep && os.Getenv("DISPLAY") != "" {
		steps = append(steps, acquireStep{
			facility: FacilityX11ScreenSaver,
			do:       b.acquireX11,
			undo:     b.Release,
		})
	}
	return acquireSequence(ctx, steps)
}

func (b *linuxBackend) sessionBusStep(facility Facility, kind Kind) acquireStep {
	return acquireStep{
		facility: facility,
		do: func(ctx context.Context) (Token, error) {
			return b.inhibitSessionBus(ctx, facility, kind)
		},
		undo: b.Release,
	}
}

func (b *linuxBackend) Release(ctx context.Context, token Token) error {
	switch token.Facility {
	case FacilityGnomeSession, FacilityScreenSaver, FacilityPowerManagement:
		conn := b.sessionConn()
		if conn == nil {
			return fmt.Errorf("release %s cookie %d: session bus not connected",
				token.Facility, token.Cookie)
		}
		call := uninhibitCall(token.Facility, uint32(token.Cookie))
		if err := b.call(ctx, conn, call, nil); err != nil {
			return fmt.Errorf("release %s cookie %d: %w", token.Facility, token.Cookie, err)
		}
		return nil
	case FacilityLogind:
		if err := syscall.Close(int(token.Cookie)); err != nil {
			return fmt.Errorf("release logind lock fd %d: %w", token.Cookie, err)
		}
		return nil
	case FacilityX11ScreenSaver:
		return b.releaseX11(ctx, token)
	default:
		return fmt.Errorf("release: unknown facility %q", token.Facility)
	}
}

func (b *linuxBackend) Close() error {
	b.mu.Lock()
	session, system := b.session, b.system
	b.session, b.system = nil, nil
	b.mu.Unlock()

	var first error
	if session != nil {
		if err := session.Close(); err != nil && first == nil {
			first = err
		}
	}
	if system != nil {
		if err := system.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := b.closeX(); err != nil && first == nil {
		first = err
	}
	return first
}

// inhibitSessionBus issues a single Inhibit call and wraps the returned
// cookie into a token.
func (b *linuxBackend) inhibitSessionBus(ctx context.Context, facility Facility, kind Kind) (Token, error) {
	conn := b.sessionConn()
	if conn == nil {
		return Token{}, fmt.Errorf("inhibit %s: session bus not connected", facility)
	}
	var cookie uint32
	call := inhibitCall(facility, b.cfg.AppName, b.cfg.Reason, kind)
	if err := b.call(ctx, conn, call, &cookie); err != nil {
		return Token{}, fmt.Errorf("inhibit %s: %w", facility, err)
	}
	return Token{Facility: facility, Cookie: uint64(cookie)}, nil
}

// acquireLogind takes the system-bus block lock. The returned token's
// cookie is the lock's file descriptor.
func (b *linuxBackend) acquireLogind(ctx context.Context) (Token, error) {
	conn, err := b.systemConn()
	if err != nil {
		return Token{}, fmt.Errorf("inhibit logind: %w", err)
	}
	var fd dbus.UnixFD
	if err := b.call(ctx, conn, logindInhibitCall(b.cfg.AppName, b.cfg.Reason), &fd); err != nil {
		return Token{}, fmt.Errorf("inhibit logind: %w", err)
	}
	return Token{Facility: FacilityLogind, Cookie: uint64(fd)}, nil
}

// call issues one bus method call under the configured per-call timeout.
func (b *linuxBackend) call(ctx context.Context, conn *dbus.Conn, c busCall, ret interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()

	call := conn.Object(c.dest, c.path).CallWithContext(callCtx, c.method, 0, c.args...)
	if call.Err != nil {
		return call.Err
	}
	if ret == nil {
		return nil
	}
	return call.Store(ret)
}

func (b *linuxBackend) sessionConn() *dbus.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

func (b *linuxBackend) systemConn() (*dbus.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.system == nil {
		conn, err := dbus.ConnectSystemBus()
		if err != nil {
			return nil, err
		}
		b.system = conn
	}
	return b.system, nil
}
