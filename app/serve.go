package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/andromeda/focus/internal/pathutil"
	"github.com/andromeda/focus/server"
	"github.com/andromeda/focus/store"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// runServe serves handler on ln until ctx is cancelled, then shuts the
// server down gracefully.
func runServe(
	ctx context.Context,
	ln net.Listener,
	handler http.Handler,
	logger *slog.Logger,
) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down session API server")

		shutdownCtx, cancel := context.WithTimeout(
			context.WithoutCancel(gctx),
			shutdownTimeout,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}

		return nil
	})

	return g.Wait()
}

// serveAction runs the session API server on top of the local database.
func serveAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	srv, err := server.New(
		db,
		server.WithToken(e.cfg.Server.Token),
		server.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}

	// Closing the hub ends the websocket connections, which Shutdown does
	// not wait for.
	defer srv.Close()

	addr := fmt.Sprintf(":%d", e.cfg.Server.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("Session API listening on %s", ln.Addr())
	e.logger.Info("session API server started", slog.String("addr", ln.Addr().String()))

	return runServe(sigCtx, ln, srv.Handler(), e.logger)
}
