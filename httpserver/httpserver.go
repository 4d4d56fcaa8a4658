package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/metric"
)

const CName = "push.httpserver"

var log = logger.NewNamed(CName)

const (
	defaultListenAddr     = ":8080"
	defaultRequestTimeout = 30 * time.Second
)

func New() HTTPServer {
	return new(httpServer)
}

type configSource interface {
	GetHTTP() Config
}

type Config struct {
	ListenAddr     string        `yaml:"listenAddr"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

type HTTPServer interface {
	Router() *mux.Router
	// Addr is the bound address, available after Run.
	Addr() string
	app.ComponentRunnable
}

type httpServer struct {
	conf     Config
	router   *mux.Router
	server   *http.Server
	listener net.Listener
}

func (s *httpServer) Init(a *app.App) (err error) {
	if cs, ok := a.Component("config").(configSource); ok {
		s.conf = cs.GetHTTP()
	}
	if s.conf.ListenAddr == "" {
		s.conf.ListenAddr = defaultListenAddr
	}
	if s.conf.RequestTimeout <= 0 {
		s.conf.RequestTimeout = defaultRequestTimeout
	}
	s.router = mux.NewRouter()
	s.router.Use(recoverMiddleware, requestIdMiddleware, accessLogMiddleware, timeoutMiddleware(s.conf.RequestTimeout))
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	reg := a.MustComponent(metric.CName).(metric.Metric).Registry()
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, ErrNotFound)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, ErrMethod)
	})
	return
}

func (s *httpServer) Name() (name string) {
	return CName
}

func (s *httpServer) Router() *mux.Router {
	return s.router
}

func (s *httpServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *httpServer) Run(ctx context.Context) (err error) {
	if s.listener, err = net.Listen("tcp", s.conf.ListenAddr); err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if sErr := s.server.Serve(s.listener); sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(sErr))
		}
	}()
	log.Info("http server started", zap.String("addr", s.Addr()))
	return nil
}

func (s *httpServer) Close(ctx context.Context) (err error) {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
