//go:build windows

package inhibit

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// POWER_REQUEST_TYPE values understood by PowerSetRequest/PowerClearRequest.
const (
	powerRequestDisplayRequired uintptr = 0
	powerRequestSystemRequired  uintptr = 1
)

// REASON_CONTEXT with the simple-string union member.
const powerRequestContextSimpleString uint32 = 0x1

type reasonContext struct {
	Version            uint32
	Flags              uint32
	SimpleReasonString *uint16
}

var (
	modkernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procPowerCreateRequest = modkernel32.NewProc("PowerCreateRequest")
	procPowerSetRequest    = modkernel32.NewProc("PowerSetRequest")
	procPowerClearRequest  = modkernel32.NewProc("PowerClearRequest")
)

// windowsBackend implements Backend via kernel32 power requests. A system
// request is always taken; display inhibition adds a display request.
// Power requests are tied to their handles, which the kernel closes with
// the process, so outstanding locks auto-clear at process exit.
type windowsBackend struct {
	cfg Config
}

// NewWindowsBackend creates the Windows backend. No persistent OS
// connection is needed; each acquire creates fresh request handles.
func NewWindowsBackend(cfg Config) (Backend, error) {
	return &windowsBackend{cfg: cfg}, nil
}

func (b *windowsBackend) Name() string {
	return "windows"
}

func (b *windowsBackend) Acquire(ctx context.Context, kind Kind) ([]Token, error) {
	steps := []acquireStep{{
		facility: FacilityWinSystem,
		do: func(ctx context.Context) (Token, error) {
			return b.createRequest(FacilityWinSystem, powerRequestSystemRequired)
		},
		undo: b.Release,
	}}
	if kind == DisplaySleep {
		steps = append(steps, acquireStep{
			facility: FacilityWinDisplay,
			do: func(ctx context.Context) (Token, error) {
				return b.createRequest(FacilityWinDisplay, powerRequestDisplayRequired)
			},
			undo: b.Release,
		})
	}
	return acquireSequence(ctx, steps)
}

func (b *windowsBackend) Release(ctx context.Context, token Token) error {
	var requestType uintptr
	switch token.Facility {
	case FacilityWinSystem:
		requestType = powerRequestSystemRequired
	case FacilityWinDisplay:
		requestType = powerRequestDisplayRequired
	default:
		return fmt.Errorf("release: unknown facility %q", token.Facility)
	}

	handle := windows.Handle(token.Cookie)
	ret, _, callErr := procPowerClearRequest.Call(uintptr(handle), requestType)
	closeErr := windows.CloseHandle(handle)
	if ret == 0 {
		return fmt.Errorf("release %s: PowerClearRequest: %w", token.Facility, callErr)
	}
	if closeErr != nil {
		return fmt.Errorf("release %s: CloseHandle: %w", token.Facility, closeErr)
	}
	return nil
}

func (b *windowsBackend) Close() error {
	return nil
}

// createRequest creates a power request handle and activates it for the
// given request type. The handle is closed again if activation fails.
func (b *windowsBackend) createRequest(facility Facility, requestType uintptr) (Token, error) {
	reason, err := windows.UTF16PtrFromString(b.cfg.Reason)
	if err != nil {
		return Token{}, fmt.Errorf("inhibit %s: encode reason: %w", facility, err)
	}
	rc := reasonContext{
		Version:            0,
		Flags:              powerRequestContextSimpleString,
		SimpleReasonString: reason,
	}

	h, _, callErr := procPowerCreateRequest.Call(uintptr(unsafe.Pointer(&rc)))
	if windows.Handle(h) == windows.InvalidHandle {
		return Token{}, fmt.Errorf("inhibit %s: PowerCreateRequest: %w", facility, callErr)
	}
	ret, _, callErr := procPowerSetRequest.Call(h, requestType)
	if ret == 0 {
		_ = windows.CloseHandle(windows.Handle(h))
		return Token{}, fmt.Errorf("inhibit %s: PowerSetRequest: %w", facility, callErr)
	}
	return Token{Facility: facility, Cookie: uint64(h)}, nil
}
