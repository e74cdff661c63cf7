// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stardustxr/launchpad/lib/process"
)

// ErrEmptyServerCommand is returned by NewOrchestrator when no server
// command was given. It is a precondition violation: the coordinator
// refuses to start.
var ErrEmptyServerCommand = errors.New("server launch command is empty")

// DefaultTarget is the session-manager unit representing the active
// session.
const DefaultTarget = "stardust-session.target"

// State is a step of the orchestrator's sequence.
type State int

const (
	AwaitingReady State = iota
	SpawningServer
	AwaitingEnvironment
	PropagatingEnvironment
	SessionActive
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingReady:
		return "awaiting-ready"
	case SpawningServer:
		return "spawning-server"
	case AwaitingEnvironment:
		return "awaiting-environment"
	case PropagatingEnvironment:
		return "propagating-environment"
	case SessionActive:
		return "session-active"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Resolver blocks until the runtime is known to be ready.
type Resolver interface {
	Resolve(ctx context.Context) error
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) error

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context) error { return f(ctx) }

// Manager is the external session manager.
type Manager interface {
	SetEnvironment(ctx context.Context, name, value string) error
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
}

// Config is what the orchestrator runs.
type Config struct {
	// ServerCommand is the server's argv. Required.
	ServerCommand []string

	// Target is the session-manager unit started once the environment
	// has been propagated. Defaults to DefaultTarget.
	Target string

	// BlockedVariables are filtered out of the environment report.
	// Defaults to DefaultBlockedVariables when nil.
	BlockedVariables []string
}

// Orchestrator drives one session from readiness to teardown.
type Orchestrator struct {
	session  *Session
	resolver Resolver
	runner   process.Runner
	manager  Manager
	config   Config
	logger   *slog.Logger

	mutex        sync.Mutex
	state        State
	onTransition func(State)
}

// NewOrchestrator validates config and returns an orchestrator in
// AwaitingReady.
func NewOrchestrator(session *Session, resolver Resolver, runner process.Runner, manager Manager, config Config, logger *slog.Logger) (*Orchestrator, error) {
	if len(config.ServerCommand) == 0 || config.ServerCommand[0] == "" {
		return nil, ErrEmptyServerCommand
	}
	if config.Target == "" {
		config.Target = DefaultTarget
	}
	if config.BlockedVariables == nil {
		config.BlockedVariables = DefaultBlockedVariables
	}
	return &Orchestrator{
		session:  session,
		resolver: resolver,
		runner:   runner,
		manager:  manager,
		config:   config,
		logger:   logger,
		state:    AwaitingReady,
	}, nil
}

// OnTransition registers f to be called on every state entry, from the
// goroutine running Run. Must be called before Run.
func (o *Orchestrator) OnTransition(f func(State)) {
	o.onTransition = f
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.state
}

func (o *Orchestrator) enter(state State) {
	o.mutex.Lock()
	o.state = state
	o.mutex.Unlock()
	o.logger.Info("session state", "state", state.String())
	if o.onTransition != nil {
		o.onTransition(state)
	}
}

// Run executes the sequence. It returns when the session has been torn
// down, or earlier if readiness never resolves before ctx is done.
//
// Once the server has been spawned (or spawning was attempted) the
// target is always stopped before Run returns. A server that exits
// before reporting its environment ends the session without starting
// the target.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.enter(AwaitingReady)
	if err := o.resolver.Resolve(ctx); err != nil {
		o.enter(Terminated)
		return fmt.Errorf("resolving runtime readiness: %w", err)
	}

	o.enter(SpawningServer)
	server, err := o.runner.Start(ctx, o.config.ServerCommand)
	if err != nil {
		o.drain(ctx)
		o.enter(Terminated)
		return fmt.Errorf("spawning server: %w", err)
	}
	o.logger.Info("server spawned", "command", o.config.ServerCommand, "pid", server.Pid())

	exited := make(chan struct{})
	var code int
	var waitErr error
	go func() {
		code, waitErr = server.Wait()
		close(exited)
	}()

	o.enter(AwaitingEnvironment)
	environment, err := o.awaitEnvironment(ctx, exited)
	switch {
	case err == nil:
		o.enter(PropagatingEnvironment)
		o.propagate(ctx, Filter(environment, o.config.BlockedVariables))

		o.enter(SessionActive)
		if err := o.manager.Start(ctx, o.config.Target); err != nil {
			o.logger.Warn("starting session target failed", "target", o.config.Target, "error", err)
		}
	case errors.Is(err, errServerExited):
		o.logger.Warn("server exited before reporting its environment")
	default:
		// Cancelled before the server reported. The server shares ctx
		// and is being torn down; skip straight to waiting for it.
		o.logger.Warn("no environment report received", "error", err)
	}

	<-exited
	if waitErr != nil {
		o.logger.Error("waiting for server failed", "error", waitErr)
	} else {
		o.logger.Info("server exited", "exit_code", code)
	}

	o.drain(ctx)
	o.enter(Terminated)

	if waitErr != nil {
		return fmt.Errorf("waiting for server: %w", waitErr)
	}
	return nil
}

// errServerExited ends the environment wait when the server is gone.
var errServerExited = errors.New("server exited")

// awaitEnvironment receives the environment report, giving up when ctx
// is done or exited is closed. A report already offered when the server
// exits is still returned.
func (o *Orchestrator) awaitEnvironment(ctx context.Context, exited <-chan struct{}) (Environment, error) {
	waitCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-exited:
			cancel(errServerExited)
		case <-waitCtx.Done():
		}
	}()

	environment, err := o.session.Environment.Receive(waitCtx)
	if err == nil {
		return environment, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if environment, ok := o.session.Environment.TryReceive(); ok {
		return environment, nil
	}
	return nil, context.Cause(waitCtx)
}

// propagate pushes every variable concurrently and waits for all of
// them. One failed push does not cancel the others.
func (o *Orchestrator) propagate(ctx context.Context, environment Environment) {
	var group errgroup.Group
	for name, value := range environment {
		group.Go(func() error {
			if err := o.manager.SetEnvironment(ctx, name, value); err != nil {
				o.logger.Warn("propagating environment variable failed", "variable", name, "error", err)
			}
			return nil
		})
	}
	group.Wait()
	o.logger.Info("environment propagated", "variables", len(environment))
}

// drain stops the target. It runs detached from ctx so a cancelled
// session still tears the target down.
func (o *Orchestrator) drain(ctx context.Context) {
	o.enter(Draining)
	if err := o.manager.Stop(context.WithoutCancel(ctx), o.config.Target); err != nil {
		o.logger.Warn("stopping session target failed", "target", o.config.Target, "error", err)
	}
}
