package adapter

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopNotSupported is returned by connections that cannot be stopped.
var ErrStopNotSupported = errors.New("adapter connection stop not supported")

// Connection is a live receive session with a platform.
type Connection interface {
	AdapterType() Type
	Stop(ctx context.Context) error
	Running() bool
}

// BaseConnection is the common Connection implementation adapters wrap
// around their stop function.
type BaseConnection struct {
	adapterType Type
	stop        func(ctx context.Context) error
	running     atomic.Bool
}

// NewConnection builds a running connection for the adapter type.
func NewConnection(t Type, stop func(ctx context.Context) error) *BaseConnection {
	conn := &BaseConnection{adapterType: t, stop: stop}
	conn.running.Store(true)
	return conn
}

func (c *BaseConnection) AdapterType() Type { return c.adapterType }

func (c *BaseConnection) Stop(ctx context.Context) error {
	if c.stop == nil {
		return ErrStopNotSupported
	}
	err := c.stop(ctx)
	if err == nil {
		c.running.Store(false)
	}
	return err
}

func (c *BaseConnection) Running() bool { return c.running.Load() }
