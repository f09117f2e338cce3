package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/sectiongrid/internal/config"
	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/session"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const connectTimeout = 15 * time.Second

// Dial connects to the editor described by cfg and waits for the socket.io
// handshake.
func Dial(ctx context.Context, cfg config.BridgeSettings) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace)
	if cfg.URL == "" {
		return nil, errors.New("bridge URL is not configured")
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("bridge URL %q must be absolute", cfg.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(cfg.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	io := manager.Socket(cfg.Namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	logger.Debug("Connecting to editor...")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}

// Serve dials the editor and serves sess until ctx is done.
func Serve(ctx context.Context, sess *session.Session, cfg config.BridgeSettings) error {
	logger := ctxlog.FromContext(ctx)
	io, err := Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Disconnecting from editor.", "sid", io.Id())
		io.Disconnect()
	}()

	io.On(types.EventName("disconnect"), func(args ...any) {
		logger.Warn("Editor connection lost.", "reason", args)
	})

	b := New(ctx, sess, io)
	if err := b.Listen(); err != nil {
		return err
	}
	b.Announce()

	<-ctx.Done()
	return nil
}
