// Package main is the composition-root entry point for textcored, the
// headless core-editing-engine daemon. It wires the managers under
// internal/ together; it does not render, parse config files, or read
// keybindings — those are explicitly out of scope and live
// in a host application built on top of this module.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/corazon/textcore/internal/eventbus"
	"github.com/corazon/textcore/internal/logging"
	"github.com/corazon/textcore/internal/lspsync"
	"github.com/corazon/textcore/internal/shared"
	"github.com/corazon/textcore/internal/supervisor"
	"github.com/corazon/textcore/internal/syntax"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	logLevel  string
	sessionID string
	showVer   bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&o.sessionID, "session", "", "Shared-state session id (defaults to the process PID)")
	flag.BoolVar(&o.showVer, "version", false, "Show version information")
	flag.Parse()
	return o
}

func run() int {
	opts := parseFlags()

	if opts.showVer {
		fmt.Printf("textcored %s (%s)\n", version, commit)
		return 0
	}

	log := logging.New(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
	if lvl, err := zerolog.ParseLevel(opts.logLevel); err == nil {
		log = log.Level(lvl)
	} else {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.logLevel)
		return 1
	}
	logging.Configure(log)

	if opts.sessionID == "" {
		opts.sessionID = fmt.Sprintf("pid-%d", os.Getpid())
	}

	core := newCore(opts.sessionID, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		log.Info().Msg("signal received, shutting down")
		cancel()
	}()

	if err := core.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// core is the daemon's composition root: one instance of every manager,
// wired through a shared event bus and supervisor the way
// dshills-keystorm wires its own subsystems through a central
// bus/dispatcher.
type core struct {
	log    zerolog.Logger
	bus    *eventbus.Bus
	sup    *supervisor.Supervisor
	lsp    *lspsync.Manager
	syn    *syntax.Manager
	broker *shared.Manager
}

func newCore(sessionID string, log zerolog.Logger) *core {
	bus := eventbus.New(log)
	sup := supervisor.New(log, func(supervisor.Report) {})
	return &core{
		log:    log,
		bus:    bus,
		sup:    sup,
		lsp:    lspsync.New(log),
		syn:    syntax.New(syntax.DefaultTierConfigs(), syntax.NewPermitPool(4, 1), nil, log),
		broker: shared.New(shared.SessionId(sessionID), log),
	}
}

// Run drives the daemon's tick loop until ctx is cancelled. A real
// deployment dispatches kicked LSP/syntax tasks onto the supervisor's
// actors; this loop demonstrates the wiring with an errgroup fan-out per
// tick, grounded on the single-main-loop-with-spawned-work scheduling
// model.
func (c *core) Run(ctx context.Context) error {
	ticker := time.NewTicker(30 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (c *core) tick(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, req := range c.broker.DrainPendingEditRequests() {
			c.log.Debug().Str("uri", req.URI).Msg("dispatching queued shared edit")
		}
		for _, req := range c.broker.DrainResyncRequests() {
			c.log.Debug().Str("uri", req.URI).Msg("dispatching resync request")
		}
		return nil
	})
	return g.Wait()
}
