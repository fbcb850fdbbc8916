// Package main provides the nosleep command, which keeps the system
// awake while a wrapped command runs, while a file is being written, or
// for a fixed duration.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/pevers/nosleep/pkg/nosleep"
)

// Version is the current version of nosleep.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("nosleep", flag.ContinueOnError)
	display := fs.Bool("display", false, "Also keep the display awake (default: system sleep only)")
	duration := fs.Duration("t", 0, "Hold the inhibition for a fixed duration, then exit")
	watch := fs.String("w", "", "Hold the inhibition while this file is being written")
	idle := fs.Duration("idle", nosleep.DefaultActivityIdle, "Idle window for -w before the inhibition is released")
	reason := fs.String("reason", "", "Reason shown by OS power tools")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	version := fs.Bool("version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: nosleep [flags] [command [args...]]\n\n")
		fmt.Fprintf(fs.Output(), "Keeps the system awake until interrupted, for -t, while -w sees file\n")
		fmt.Fprintf(fs.Output(), "activity, or while the given command runs.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Printf("nosleep version %s\n", Version)
		return 0
	}

	logger := nosleep.DefaultLogger()
	if *verbose {
		logger = nosleep.DebugLogger()
	}

	opts := nosleep.DefaultOptions()
	opts.AppName = "nosleep-cli"
	opts.Reason = *reason
	opts.Logger = logger

	ns, err := nosleep.NewWithOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer func() {
		if err := ns.Close(); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	kind := selectKind(*display)

	if fs.NArg() > 0 {
		return runCommand(ns, kind, fs.Args(), logger)
	}
	if *watch != "" {
		return runWatch(ns, kind, *watch, *idle, logger)
	}
	return runHold(ns, kind, *duration, logger)
}

// selectKind maps the -display flag to an inhibition kind.
func selectKind(display bool) nosleep.Kind {
	if display {
		return nosleep.PreventUserIdleDisplaySleep
	}
	return nosleep.PreventUserIdleSystemSleep
}

// runCommand holds the inhibition while a child command runs and exits
// with the child's exit code.
func runCommand(ns *nosleep.NoSleep, kind nosleep.Kind, argv []string, logger nosleep.Logger) int {
	if err := ns.Start(kind); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to inhibit sleep: %v\n", err)
		return 1
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	if stopErr := ns.Stop(); stopErr != nil {
		logger.Warn("release failed", "error", stopErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Failed to run %s: %v\n", argv[0], err)
		return 1
	}
	return 0
}

// runWatch holds the inhibition while the file sees write activity,
// until interrupted.
func runWatch(ns *nosleep.NoSleep, kind nosleep.Kind, path string, idle time.Duration, logger nosleep.Logger) int {
	watcher, err := nosleep.NewActivityWatcher(ns, kind, path, idle, func(err error) {
		logger.Warn("watch error", "error", err)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to watch %s: %v\n", path, err)
		return 1
	}
	watcher.Start()
	defer watcher.Stop()

	logger.Info("watching for file activity", "file", path, "idle", idle.String())
	waitForSignal()
	return 0
}

// runHold starts the inhibition and keeps it until the duration elapses
// or a signal arrives.
func runHold(ns *nosleep.NoSleep, kind nosleep.Kind, duration time.Duration, logger nosleep.Logger) int {
	if err := ns.Start(kind); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to inhibit sleep: %v\n", err)
		return 1
	}

	if duration > 0 {
		logger.Info("holding inhibition", "kind", kind.String(), "for", duration.String())
		select {
		case <-time.After(duration):
		case <-signalChan():
		}
	} else {
		logger.Info("holding inhibition until interrupted", "kind", kind.String())
		waitForSignal()
	}

	if err := ns.Stop(); err != nil {
		logger.Warn("release failed", "error", err)
	}
	return 0
}

func signalChan() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}

func waitForSignal() {
	<-signalChan()
}
