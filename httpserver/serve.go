package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// ShutdownTimeout bounds how long Serve waits for in-flight invocations
// once its context is done
var ShutdownTimeout = 5 * time.Second

// Serve runs an Engine built from opts until ctx is done, then shuts it down
// gracefully. It returns nil after a clean shutdown and the listen error
// otherwise.
func Serve(ctx context.Context, opts ...Option) error {
	e := NewEngine(opts...)
	srv := &http.Server{
		Addr:    e.Address,
		Handler: e,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "httpserver: listen on %s", e.Address)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "httpserver: shutdown")
	}
	<-errCh
	return nil
}
