// Package httpserver wires the RPC frontends, the download/upload
// handlers, and static file serving onto one net/http.Server, and owns
// the single mutex standing in for §5's one-event-loop-owns-everything
// model: every synchronous dispatch invocation runs under it, and it is
// released before a Delayed outcome's holding goroutine blocks on its
// sender channel.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arung-agamani/aimpctl/config"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/download"
	"github.com/arung-agamani/aimpctl/internal/frontend"
	"github.com/arung-agamani/aimpctl/internal/frontend/compat"
	"github.com/arung-agamani/aimpctl/internal/frontend/jsonrpc"
	"github.com/arung-agamani/aimpctl/internal/frontend/xmlrpc"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/upload"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// Server bundles the method registry and the transport surface around it.
type Server struct {
	cfg       *config.Config
	registry  *dispatch.Registry
	frontends *frontend.Registry
	download  *download.Handler
	upload    *upload.Handler

	loopMu sync.Mutex

	httpServer *http.Server
}

// New builds the HTTP transport for reg, with download/upload handlers
// backed by s. The upload route is gated on cfg's
// misc.enable_track_upload.
func New(cfg *config.Config, reg *dispatch.Registry, s *store.Store, supportedExts []string) *Server {
	frontends := frontend.NewRegistry()
	// XML-RPC's narrow /RPC_XML predicate must be tried before JSON-RPC's
	// catch-all "any POST", and the compat frontend's GET-with-query-string
	// predicate is independent of either.
	frontends.Add(xmlrpc.New())
	frontends.Add(compat.New())
	frontends.Add(jsonrpc.New())

	writer := newStorePlaylistWriter(s)
	uploadHandler := upload.New(writer, cfg.MusicDir, supportedExts, func() bool { return cfg.Misc.EnableTrackUpload })
	downloadHandler := download.New(&storeResolver{store: s})

	srv := &Server{
		cfg:       cfg,
		registry:  reg,
		frontends: frontends,
		download:  downloadHandler,
		upload:    uploadHandler,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.route)

	srv.httpServer = &http.Server{
		Addr:         cfg.HTTPServer.ListenAddr,
		Handler:      initCookies(cfg.HTTPServer.InitCookies, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // long-poll subscriptions may hold a response open indefinitely
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// route dispatches to the download/upload handlers, a frontend, or static
// file serving, per §6's "HTTP surface" table.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/downloadTrack/"):
		s.download.ServeHTTP(w, r)
		return
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/uploadTrack/"):
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		s.upload.ServeHTTP(w, r)
		return
	}

	if f := s.frontends.Select(r); f != nil {
		s.serveRPC(w, r, f)
		return
	}

	if r.Method == http.MethodGet {
		s.serveStatic(w, r)
		return
	}

	http.NotFound(w, r)
}

// serveRPC parses the envelope, invokes the method under the event-loop
// mutex, and either writes an immediate reply or — for a Delayed outcome —
// releases the mutex and blocks on the delayed-sender until a later Fire
// (or client disconnect) resolves it.
func (s *Server) serveRPC(w http.ResponseWriter, r *http.Request, f frontend.Frontend) {
	envelope, err := f.Parse(r)
	if err != nil {
		body, mime := f.SerializeFault(value.Null(), int(dispatch.FaultParsing), err.Error())
		writeBody(w, mime, http.StatusOK, body)
		return
	}

	root := value.Object()
	root.Set("method", value.String(envelope.Method))
	root.Set("params", envelope.Params)
	root.Set("id", envelope.ID)

	sender := newDelayedSender()
	ctx := dispatch.NewContext(r.Context(), root, sender)

	s.loopMu.Lock()
	outcome, fault := s.registry.Invoke(ctx, envelope.Method, envelope.Params)
	s.loopMu.Unlock()

	if fault != nil {
		body, mime := f.SerializeFault(envelope.ID, int(fault.Code), fault.Message)
		writeBody(w, mime, http.StatusOK, body)
		return
	}

	if outcome.Kind == dispatch.Immediate {
		body, mime, err := f.SerializeSuccess(envelope.ID, outcome.Result)
		if err != nil {
			body, mime = f.SerializeFault(envelope.ID, int(dispatch.FaultInternal), err.Error())
		}
		writeBody(w, mime, http.StatusOK, body)
		return
	}

	select {
	case result := <-sender.ch:
		if result.fault != nil {
			body, mime := f.SerializeFault(envelope.ID, int(result.fault.Code), result.fault.Message)
			writeBody(w, mime, http.StatusOK, body)
			return
		}
		body, mime, err := f.SerializeSuccess(envelope.ID, result.value)
		if err != nil {
			body, mime = f.SerializeFault(envelope.ID, int(dispatch.FaultInternal), err.Error())
		}
		writeBody(w, mime, http.StatusOK, body)
	case <-r.Context().Done():
		sender.invalidate()
	}
}

func writeBody(w http.ResponseWriter, mime string, status int, body []byte) {
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(status)
	w.Write(body)
}

// serveStatic serves a file under the document root, inferring index.htm
// for directories; ".." anywhere in the request path is rejected outright
// per §6 rather than relying on path.Clean's containment to catch it.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.URL.Path, "..") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	rel := filepath.FromSlash(strings.TrimPrefix(r.URL.Path, "/"))
	full := filepath.Join(s.cfg.DocumentRoot, rel)

	info, err := os.Stat(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.htm")
	}
	http.ServeFile(w, r, full)
}

// initCookies seeds a configurable list of Set-Cookie headers on every
// response to a request that arrived without a Cookie header, per §6.
func initCookies(cookies []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			for _, c := range cookies {
				w.Header().Add("Set-Cookie", c)
			}
		}
		next.ServeHTTP(w, r)
	})
}
