//go:build linux

package inhibit

import (
	"context"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// xConn aliases the X connection so linuxBackend stays declarable without
// dragging xgb into every file.
type xConn = *xgb.Conn

// savedScreenSaver holds the screensaver settings in effect before a
// display inhibition, so release can restore them exactly.
type savedScreenSaver struct {
	timeout        uint16
	interval       uint16
	preferBlanking byte
	allowExposures byte
}

// acquireX11 disables the X11 core-protocol screensaver by zeroing its
// timeout, after remembering the current settings. The token's cookie
// keys the saved settings; the toggle facility has no OS-side handle.
func (b *linuxBackend) acquireX11(ctx context.Context) (Token, error) {
	_ = ctx // X protocol calls are not context-aware

	conn, err := b.xConnOrDial()
	if err != nil {
		return Token{}, fmt.Errorf("inhibit x11 screensaver: %w", err)
	}
	reply, err := xproto.GetScreenSaver(conn).Reply()
	if err != nil {
		return Token{}, fmt.Errorf("inhibit x11 screensaver: query settings: %w", err)
	}
	err = xproto.SetScreenSaverChecked(conn, 0, int16(reply.Interval),
		reply.PreferBlanking, reply.AllowExposures).Check()
	if err != nil {
		return Token{}, fmt.Errorf("inhibit x11 screensaver: disable timeout: %w", err)
	}

	b.mu.Lock()
	gen := b.nextGen
	b.nextGen++
	b.saved[gen] = savedScreenSaver{
		timeout:        reply.Timeout,
		interval:       reply.Interval,
		preferBlanking: reply.PreferBlanking,
		allowExposures: reply.AllowExposures,
	}
	b.mu.Unlock()

	return Token{Facility: FacilityX11ScreenSaver, Cookie: gen}, nil
}

// releaseX11 restores the screensaver settings remembered at acquire time.
func (b *linuxBackend) releaseX11(ctx context.Context, token Token) error {
	_ = ctx

	b.mu.Lock()
	saved, ok := b.saved[token.Cookie]
	delete(b.saved, token.Cookie)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("release x11 screensaver: unknown token %d", token.Cookie)
	}

	conn, err := b.xConnOrDial()
	if err != nil {
		return fmt.Errorf("release x11 screensaver: %w", err)
	}
	err = xproto.SetScreenSaverChecked(conn, int16(saved.timeout), int16(saved.interval),
		saved.preferBlanking, saved.allowExposures).Check()
	if err != nil {
		return fmt.Errorf("release x11 screensaver: restore settings: %w", err)
	}
	return nil
}

// xConnOrDial returns the X connection, establishing it on first use.
func (b *linuxBackend) xConnOrDial() (*xgb.Conn, error) {
	b.xmu.Lock()
	defer b.xmu.Unlock()
	if b.x == nil {
		conn, err := xgb.NewConn()
		if err != nil {
			return nil, err
		}
		b.x = conn
	}
	return b.x, nil
}

func (b *linuxBackend) closeX() error {
	b.xmu.Lock()
	defer b.xmu.Unlock()
	if b.x != nil {
		b.x.Close()
		b.x = nil
	}
	return nil
}
