// Package broadcast pushes compiled pipeline DAGs to a socket.io viewer.
package broadcast

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/export"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event is the socket.io event every update is emitted as.
const Event = "dag:update"

// Update is the payload of one broadcast.
type Update struct {
	Pipeline string           `json:"pipeline"`
	Dag      *export.DagNode  `json:"dag"`
	ForkTree map[string][]int `json:"forkTree"`
	Compiled time.Time        `json:"compiled"`
}

// Publisher delivers updates to a viewer.
type Publisher interface {
	Publish(ctx context.Context, update *Update) error
}

// Options configures a SocketIO publisher.
type Options struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO publishes each update over a fresh socket.io connection.
type SocketIO struct {
	opts Options
}

// NewSocketIO validates opts and returns a publisher.
func NewSocketIO(opts Options) (*SocketIO, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse broadcast URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("broadcast URL %q must include a scheme and host", opts.URL)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &SocketIO{opts: opts}, nil
}

// Publish connects, emits the update and disconnects. It fails when no
// connection is made within the configured timeout.
func (s *SocketIO) Publish(ctx context.Context, update *Update) error {
	logger := ctxlog.FromContext(ctx).With("url", s.opts.URL, "namespace", s.opts.Namespace, "event", Event)
	logger.Debug("Publishing pipeline update")

	var isConnected atomic.Bool
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}
	opCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	parsedURL, err := url.Parse(s.opts.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if s.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.opts.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Connected to viewer", "sid", io.Id())
		io.Emit(Event, update)
		finish(nil)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(fmt.Errorf("failed to connect to viewer: %w", err))
				return
			}
		}
		finish(fmt.Errorf("failed to connect to viewer"))
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while emitting %s", Event)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		return err
	}
}
