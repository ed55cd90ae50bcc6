// Package notify provides the notify extension: it forwards service events
// to Redis when notify.redis_url is configured and does nothing otherwise.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/notify"
	"github.com/spf13/cobra"
)

// publishTimeout bounds a single publish so a slow Redis cannot stall a
// request.
const publishTimeout = 2 * time.Second

func init() {
	extension.Register(&Extension{})
}

// Extension publishes events through a notify.Publisher.
type Extension struct {
	mu  sync.Mutex
	pub *notify.Publisher
}

func (e *Extension) Name() string                  { return "notify" }
func (e *Extension) Commands() []*cobra.Command    { return nil }
func (e *Extension) MCPTools() []extension.MCPTool { return nil }

// Init connects to Redis when configured. An unreachable server is logged
// and leaves the extension inert.
func (e *Extension) Init(ctx extension.Context) error {
	cfg := ctx.Config()
	if cfg == nil || cfg.RedisURL() == "" {
		return nil
	}

	cctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	pub, err := notify.Connect(cctx, cfg.RedisURL(), cfg.Channel())
	if err != nil {
		log.Event("notify:init", "connect").
			Detail("url", cfg.RedisURL()).
			Write(err)
		return nil
	}

	e.mu.Lock()
	e.pub = pub
	e.mu.Unlock()
	return nil
}

// HandleEvent publishes e. Failures are returned for the service to log.
func (e *Extension) HandleEvent(_ extension.Context, ev extension.Event) error {
	e.mu.Lock()
	pub := e.pub
	e.mu.Unlock()
	if pub == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	_, err := pub.Publish(ctx, string(ev.EventType()), ev)
	return err
}

// Close closes the Redis connection.
func (e *Extension) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pub == nil {
		return nil
	}
	err := e.pub.Close()
	e.pub = nil
	return err
}
