package inhibit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// RemoteConfig specifies connection parameters for remote inhibition.
// The remote host needs no agent installed; inhibition is held by a
// standard long-lived command (systemd-inhibit on Linux, caffeinate on
// macOS) started over SSH.
type RemoteConfig struct {
	// Host is the hostname or IP address of the remote system.
	Host string

	// Port is the SSH port (default: 22).
	Port int

	// User is the SSH username.
	User string

	// Auth specifies how to authenticate.
	Auth AuthMethod

	// TargetOS is the operating system of the remote host: "linux" or
	// "darwin" (default: "linux").
	TargetOS string

	// CommandTimeout is the timeout for connecting and for individual
	// SSH operations (default: DefaultCallTimeout).
	CommandTimeout time.Duration

	// HostKeyCallback verifies the remote host key. If nil, host keys
	// are not verified.
	HostKeyCallback ssh.HostKeyCallback
}

// AuthMethod defines SSH authentication methods.
type AuthMethod interface {
	isAuthMethod()
}

// PasswordAuth authenticates using a password.
type PasswordAuth struct {
	Password string
}

func (PasswordAuth) isAuthMethod() {}

// KeyAuth authenticates using an SSH private key.
type KeyAuth struct {
	PrivateKeyPath string
	Passphrase     string // optional, for encrypted keys
}

func (KeyAuth) isAuthMethod() {}

// remoteBackend holds one SSH session per acquired lock; each session
// runs the remote inhibit command under a pty, so closing the session
// terminates the command and with it the remote lock. Locks auto-clear
// when the SSH connection drops.
type remoteBackend struct {
	cfg    Config
	remote RemoteConfig
	client *ssh.Client

	mu       sync.Mutex
	sessions map[uint64]*ssh.Session
	nextID   uint64
}

// NewRemoteBackend dials the remote host and verifies the connection.
// The backend must be selected explicitly; the GOOS factory never
// returns it.
func NewRemoteBackend(cfg Config, remote RemoteConfig) (Backend, error) {
	cfg = cfg.withDefaults()
	if remote.Host == "" {
		return nil, fmt.Errorf("remote backend: host is required")
	}
	if remote.Port == 0 {
		remote.Port = 22
	}
	if remote.TargetOS == "" {
		remote.TargetOS = "linux"
	}
	if remote.CommandTimeout <= 0 {
		remote.CommandTimeout = DefaultCallTimeout
	}

	authMethods, err := sshAuthMethods(remote.Auth)
	if err != nil {
		return nil, fmt.Errorf("remote backend: %w", err)
	}
	hostKeyCallback := remote.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", remote.Host, remote.Port), &ssh.ClientConfig{
		User:            remote.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         remote.CommandTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("remote backend: dial %s: %w", remote.Host, err)
	}

	return &remoteBackend{
		cfg:      cfg,
		remote:   remote,
		client:   client,
		sessions: make(map[uint64]*ssh.Session),
	}, nil
}

func (b *remoteBackend) Name() string {
	return "remote-" + b.remote.TargetOS
}

func (b *remoteBackend) Acquire(ctx context.Context, kind Kind) ([]Token, error) {
	_ = ctx // session setup is bounded by the dial-time CommandTimeout

	command, err := inhibitCommand(b.remote.TargetOS, kind, b.cfg.AppName, b.cfg.Reason)
	if err != nil {
		return nil, fmt.Errorf("inhibit %s: %w", FacilityRemote, err)
	}

	session, err := b.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("inhibit %s: open session: %w", FacilityRemote, err)
	}
	// A pty ties the remote command's lifetime to the session, so
	// releasing the token reliably kills the command.
	if err := session.RequestPty("xterm", 40, 80, ssh.TerminalModes{}); err != nil {
		session.Close()
		return nil, fmt.Errorf("inhibit %s: request pty: %w", FacilityRemote, err)
	}
	if err := session.Start(command); err != nil {
		session.Close()
		return nil, fmt.Errorf("inhibit %s: start %q: %w", FacilityRemote, command, err)
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.sessions[id] = session
	b.mu.Unlock()

	return []Token{{Facility: FacilityRemote, Cookie: id}}, nil
}

func (b *remoteBackend) Release(ctx context.Context, token Token) error {
	if token.Facility != FacilityRemote {
		return fmt.Errorf("release: unknown facility %q", token.Facility)
	}

	b.mu.Lock()
	session, ok := b.sessions[token.Cookie]
	delete(b.sessions, token.Cookie)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("release %s: unknown token %d", FacilityRemote, token.Cookie)
	}

	_ = session.Signal(ssh.SIGTERM)
	if err := session.Close(); err != nil {
		return fmt.Errorf("release %s token %d: %w", FacilityRemote, token.Cookie, err)
	}
	return nil
}

func (b *remoteBackend) Close() error {
	b.mu.Lock()
	sessions := b.sessions
	b.sessions = make(map[uint64]*ssh.Session)
	b.mu.Unlock()

	for _, session := range sessions {
		_ = session.Signal(ssh.SIGTERM)
		_ = session.Close()
	}
	return b.client.Close()
}

// inhibitCommand builds the long-lived remote command holding the lock.
func inhibitCommand(targetOS string, kind Kind, appName, reason string) (string, error) {
	switch targetOS {
	case "linux":
		what := "sleep:idle"
		return fmt.Sprintf("systemd-inhibit --what=%s --who=%s --why=%s --mode=block sleep infinity",
			what, shellQuote(appName), shellQuote(reason)), nil
	case "darwin":
		if kind == DisplaySleep {
			return "caffeinate -d -i", nil
		}
		return "caffeinate -i", nil
	default:
		return "", fmt.Errorf("unsupported remote target OS: %s", targetOS)
	}
}

// shellQuote single-quotes a string for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sshAuthMethods(auth AuthMethod) ([]ssh.AuthMethod, error) {
	switch a := auth.(type) {
	case PasswordAuth:
		return []ssh.AuthMethod{ssh.Password(a.Password)}, nil
	case KeyAuth:
		key, err := os.ReadFile(a.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		var signer ssh.Signer
		if a.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(a.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	case nil:
		return nil, fmt.Errorf("no authentication method configured")
	default:
		return nil, fmt.Errorf("unsupported authentication method %T", auth)
	}
}
