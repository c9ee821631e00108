package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	conf "github.com/webitel/video-exporter/config"
	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/registry"
	"github.com/webitel/video-exporter/registry/consul"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Server   *http.Server
	listener net.Listener
	exitChan chan error
	registry registry.ServiceRegistrator
}

// BuildServer opens the listener for handler and, when consul is configured,
// prepares the service registration.
func BuildServer(httpConfig *conf.HTTPConfig, consulConfig *conf.ConsulConfig, handler http.Handler, exitChan chan error) (*Server, error) {
	listener, err := net.Listen("tcp", httpConfig.Addr)
	if err != nil {
		return nil, errors.Internal(
			err.Error(),
			errors.WithID("server.build.listen.error"),
		)
	}

	var reg registry.ServiceRegistrator = registry.Noop{}
	if consulConfig != nil && consulConfig.Address != "" {
		reg, err = consul.NewConsulRegistry(consulConfig)
		if err != nil {
			_ = listener.Close()
			return nil, errors.Internal(
				err.Error(),
				errors.WithID("server.build.consul_registry.error"),
			)
		}
	}

	return &Server{
		Server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: listener,
		exitChan: exitChan,
		registry: reg,
	}, nil
}

// Addr is the address the server is listening on.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Start registers the service and serves until Stop is called.
func (s *Server) Start() {
	if err := s.registry.Register(); err != nil {
		s.exitChan <- err
		return
	}
	if err := s.Server.Serve(s.listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		s.exitChan <- errors.Internal(
			err.Error(),
			errors.WithID("server.start.serve.error"),
		)
	}
}

// Stop deregisters the service and drains in-flight requests.
func (s *Server) Stop() error {
	if err := s.registry.Deregister(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		return errors.Internal(err.Error(), errors.WithID("server.stop.shutdown.error"))
	}
	return nil
}
