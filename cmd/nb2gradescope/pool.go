package main

import (
	"context"
	"runtime"
	"sync"

	gradescope "github.com/DS-100/nb-to-gradescope"
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input gradescope.Input) (*gradescope.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*gradescope.Service)(nil)

// ServicePool manages gradescope.Service instances for batch conversion.
// With the chrome backend each service holds its own browser, enabling true
// parallelism across notebooks. Services are created lazily on first
// acquire to avoid startup delay.
type ServicePool struct {
	size    int
	factory func() (*gradescope.Service, error)

	sem      chan Converter
	mu       sync.Mutex
	services []*gradescope.Service
	created  int
	closed   bool
}

// NewServicePool creates a pool with capacity for n service instances.
// Services are created lazily when acquired, not at pool creation.
func NewServicePool(n int, factory func() (*gradescope.Service, error)) *ServicePool {
	if n < 1 {
		n = 1
	}

	return &ServicePool{
		size:    n,
		factory: factory,
		sem:     make(chan Converter, n),
	}
}

// Acquire gets a service from the pool, creating one if needed.
// Blocks if all services are in use.
func (p *ServicePool) Acquire() (Converter, error) {
	// Try to get an existing service (non-blocking)
	select {
	case svc := <-p.sem:
		return svc, nil
	default:
	}

	// Check if we can create a new service
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create the service outside the lock
		svc, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.services = append(p.services, svc)
		p.mu.Unlock()

		return svc, nil
	}
	p.mu.Unlock()

	// All services created, wait for one to be released
	return <-p.sem, nil
}

// Release returns a service to the pool.
func (p *ServicePool) Release(svc Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- svc
	}
}

// Close releases all service resources.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	services := p.services
	p.mu.Unlock()

	var lastErr error
	for _, svc := range services {
		if err := svc.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.size
}

// resolvePoolSize determines the pool size.
// Priority: explicit flag > GOMAXPROCS-based calculation, never more than
// the number of notebooks.
func resolvePoolSize(flagWorkers, files int) int {
	n := flagWorkers
	if n == 0 {
		// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for
		// containers)
		n = runtime.GOMAXPROCS(0) / 2
		if n > 8 {
			n = 8
		}
	}
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}
