package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/sectiongrid/internal/bridge"
	"github.com/vk/sectiongrid/internal/document"
	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/session"
)

// Load reads the configured documents and builds a session from them.
func (a *App) Load(ctx context.Context) (*session.Session, error) {
	ctx = a.context(ctx)
	if len(a.config.Documents) == 0 {
		return nil, errors.New("no document paths given")
	}
	doc, err := document.Load(ctx, a.config.Documents...)
	if err != nil {
		return nil, err
	}
	s := a.config.Settings
	sess, err := session.Build(ctx, a.registry, doc, s.Units(), s.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	return sess, nil
}

// Eval loads the configured documents and solves them once.
func (a *App) Eval(ctx context.Context) (*session.Session, error) {
	sess, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Info("🚀 Solving document...", "components", len(sess.Nodes()), "system", sess.System())
	if err := sess.Solve(a.context(ctx)); err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	failed := 0
	for _, r := range sess.Results() {
		for _, m := range r.Messages {
			if m.Severity == host.Error {
				failed++
				break
			}
		}
	}
	a.logger.Info("🏁 Solve finished.", "failed_components", failed)
	return sess, nil
}

// Serve loads the configured documents and serves them to the remote editor
// until ctx is done. The health check server runs alongside when a port is
// configured.
func (a *App) Serve(ctx context.Context) error {
	sess, err := a.Load(ctx)
	if err != nil {
		return err
	}
	ctx = a.context(ctx)

	if a.config.Settings.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.Settings.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}
	return bridge.Serve(ctx, sess, a.config.Settings.Bridge)
}
