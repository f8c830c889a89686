package core

import (
	"context"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/discovery"
	"github.com/robgonnella/portwatch/internal/logger"
)

// Core represents our scanning agent. It owns the discovery service and
// every resource the service depends on.
type Core struct {
	ctx       context.Context
	cancel    context.CancelFunc
	conf      config.Config
	discovery discovery.Service
	closers   []func()
	log       logger.Logger
}

// New returns new core module for given configuration. Closers run in
// reverse order when Close is called.
func New(
	conf config.Config,
	discovery discovery.Service,
	closers ...func(),
) *Core {
	ctx, cancel := context.WithCancel(context.Background())

	return &Core{
		ctx:       ctx,
		cancel:    cancel,
		conf:      conf,
		discovery: discovery,
		closers:   closers,
		log:       logger.Named("core"),
	}
}

func (c *Core) Conf() config.Config {
	return c.conf
}

// RunOnce performs a single scan and report cycle
func (c *Core) RunOnce() bool {
	return c.discovery.RunOnce()
}

func (c *Core) Stop() error {
	c.discovery.Stop()
	c.cancel()
	return c.ctx.Err()
}

// Close releases sinks and clients created for this core
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}

	c.closers = nil
}
