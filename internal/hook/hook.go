// Package hook is the boundary between a build tool and jsveil. A build
// tool registers integrations and fires BuildDone once every output file
// has been written.
package hook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harrison/jsveil/internal/executor"
	"github.com/harrison/jsveil/internal/models"
)

// Logger is what the build tool offers integrations for reporting.
type Logger = executor.Logger

// BuildContext describes one finished build.
type BuildContext struct {
	Dir    string // Output root the build wrote to
	Logger Logger
}

// Integration is a post-build extension.
type Integration interface {
	Name() string
	BuildDone(ctx context.Context, bc BuildContext) error
}

// Runner stands in for the build tool: it owns the registered integrations
// and fires each of them once per completed build.
type Runner struct {
	mu           sync.Mutex
	integrations []Integration
	builds       int
}

// NewRunner creates a Runner with the given integrations registered in order.
func NewRunner(integrations ...Integration) *Runner {
	r := &Runner{}
	for _, i := range integrations {
		r.Register(i)
	}
	return r
}

// Register adds an integration. nil is ignored.
func (r *Runner) Register(i Integration) {
	if i == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.integrations = append(r.integrations, i)
}

// Integrations returns the registered integration names in order.
func (r *Runner) Integrations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.integrations))
	for i, integ := range r.integrations {
		names[i] = integ.Name()
	}
	return names
}

// Builds returns how many builds have been completed through this runner.
func (r *Runner) Builds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds
}

// BuildDone signals a completed build. Integrations run one after another
// in registration order; the first error stops the chain and fails the
// build, as a failing post-build hook does in the build tool.
func (r *Runner) BuildDone(ctx context.Context, bc BuildContext) error {
	if bc.Dir == "" {
		return errors.New("build context has no output directory")
	}

	r.mu.Lock()
	integrations := append([]Integration(nil), r.integrations...)
	r.builds++
	r.mu.Unlock()

	for _, integ := range integrations {
		if err := integ.BuildDone(ctx, bc); err != nil {
			return fmt.Errorf("integration %s: %w", integ.Name(), err)
		}
	}
	return nil
}

// Obfuscator is the integration that rewrites a build's scripts.
type Obfuscator struct {
	orchestrator *executor.Orchestrator

	mu   sync.Mutex
	last *models.RunResult
}

// IntegrationName is the name jsveil registers under.
const IntegrationName = "jsveil"

// NewObfuscator wraps an orchestrator as an Integration.
func NewObfuscator(o *executor.Orchestrator) *Obfuscator {
	return &Obfuscator{orchestrator: o}
}

// Name implements Integration.
func (ob *Obfuscator) Name() string {
	return IntegrationName
}

// BuildDone implements Integration by running the orchestrator on the
// build's output directory.
func (ob *Obfuscator) BuildDone(ctx context.Context, bc BuildContext) error {
	run, err := ob.orchestrator.Run(ctx, bc.Dir, bc.Logger)

	ob.mu.Lock()
	ob.last = run
	ob.mu.Unlock()

	return err
}

// LastRun returns the result of the most recent build, nil before the first.
func (ob *Obfuscator) LastRun() *models.RunResult {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.last
}
