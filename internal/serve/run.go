package serve

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/asciibrot/internal/config"
	"golang.org/x/sync/errgroup"
)

var ErrNothingToServe = errors.New("serve: no listener configured")

// Options selects which servers Run starts. An empty WSAddr or a nil SSH
// disables that server.
type Options struct {
	WSAddr  string
	Origins []string
	SSH     *SSHConfig
}

// Run builds every configured server and then serves them until ctx is done
// or one fails. A server that cannot be built fails Run before anything
// listens.
func Run(ctx context.Context, opts Options, base *config.Config, logger *log.Logger) error {
	if opts.WSAddr == "" && opts.SSH == nil {
		return ErrNothingToServe
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var sshSrv *SSHServer
	if opts.SSH != nil {
		srv, err := NewSSHServer(*opts.SSH, base, logger)
		if err != nil {
			return err
		}
		sshSrv = srv
	}

	var stream *StreamServer
	if opts.WSAddr != "" {
		var so []StreamOption
		if len(opts.Origins) > 0 {
			so = append(so, WithOrigins(opts.Origins...))
		}
		stream = NewStreamServer(base, logger, so...)
	}

	g, ctx := errgroup.WithContext(ctx)
	if stream != nil {
		g.Go(func() error {
			return ListenAndServe(ctx, opts.WSAddr, stream.Handler(), logger)
		})
	}
	if sshSrv != nil {
		g.Go(func() error {
			return sshSrv.ListenAndServe(ctx)
		})
	}
	return g.Wait()
}
