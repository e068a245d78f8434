// Package server runs the components of a conquest session under one
// context and releases their resources on the way out.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a unit of work run by a Lifecycle.
type Service interface {
	// Run blocks until the work is finished or ctx is cancelled.
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function into the Service interface.
type ServiceFunc func(ctx context.Context) error

// Run calls f.
func (f ServiceFunc) Run(ctx context.Context) error { return f(ctx) }

// Lifecycle runs services concurrently and closes registered resources
// in reverse registration order once every service has returned.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	closers  []namedCloser
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

type namedCloser struct {
	name  string
	close func()
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
	}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// AddCloser registers a resource to release after all services return.
func (l *Lifecycle) AddCloser(name string, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closers = append(l.closers, namedCloser{name: name, close: fn})
}

// Run starts every service and blocks until all of them return. A service
// error or SIGINT/SIGTERM cancels the context shared by the others.
//
// Postcondition: every closer has run; returns the first service error.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, ns := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Run(ctx); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errOnce.Do(func() { firstErr = fmt.Errorf("service %s: %w", ns.name, err) })
				cancel()
				return
			}
			l.logger.Info("service finished",
				zap.String("service", ns.name),
				zap.Duration("elapsed", time.Since(svcStart)),
			)
		}()
	}
	wg.Wait()

	l.shutdown()

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return firstErr
}

func (l *Lifecycle) shutdown() {
	l.mu.Lock()
	closers := append([]namedCloser(nil), l.closers...)
	l.mu.Unlock()

	shutdownStart := time.Now()
	for i := len(closers) - 1; i >= 0; i-- {
		nc := closers[i]
		l.logger.Info("closing resource", zap.String("resource", nc.name))
		nc.close()
	}
	l.logger.Info("all resources closed",
		zap.Int("count", len(closers)),
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}
