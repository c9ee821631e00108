package consul

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	consulapi "github.com/hashicorp/consul/api"

	conf "github.com/webitel/video-exporter/config"
	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/registry"
)

type ConsulRegistry struct {
	registration *consulapi.AgentServiceRegistration
	agent        agent
	checkID      string
	stop         chan struct{}
	stopOnce     sync.Once
}

// agent is the part of the consul agent API the registry uses.
type agent interface {
	ServiceRegister(*consulapi.AgentServiceRegistration) error
	ServiceDeregister(string) error
	Checks() (map[string]*consulapi.AgentCheck, error)
	UpdateTTL(checkID, output, status string) error
}

// NewConsulRegistry creates a new Consul registry instance.
func NewConsulRegistry(config *conf.ConsulConfig) (*ConsulRegistry, error) {
	registration, err := newRegistration(config)
	if err != nil {
		return nil, err
	}

	consulConfig := consulapi.DefaultConfig()
	consulConfig.Address = config.Address
	client, err := consulapi.NewClient(consulConfig)
	if err != nil {
		return nil, errors.Internal(
			err.Error(),
			errors.WithID("consul.registry.new_consul_registry.consulapi_creation.error"),
		)
	}

	return newWithAgent(registration, client.Agent()), nil
}

func newWithAgent(registration *consulapi.AgentServiceRegistration, a agent) *ConsulRegistry {
	return &ConsulRegistry{
		registration: registration,
		agent:        a,
		stop:         make(chan struct{}),
	}
}

func newRegistration(config *conf.ConsulConfig) (*consulapi.AgentServiceRegistration, error) {
	if config.Id == "" {
		return nil, errors.Internal(
			"service id is empty! (set it by '-id' flag)",
			errors.WithID("consul.registry.new_consul.check_args.service_id"),
		)
	}
	ip, port, err := net.SplitHostPort(config.PublicAddress)
	if err != nil {
		return nil, errors.Internal(
			"unable to parse address",
			errors.WithID("consul.registry.new_consul.parse_address.error"),
			errors.WithCause(err),
		)
	}
	parsedPort, err := strconv.Atoi(port)
	if err != nil {
		return nil, errors.Internal(
			"unable to parse port",
			errors.WithID("consul.registry.new_consul.parse_port.error"),
			errors.WithCause(err),
		)
	}

	return &consulapi.AgentServiceRegistration{
		ID:      config.Id,
		Name:    registry.ServiceName,
		Port:    parsedPort,
		Address: ip,
		Tags:    []string{"http"},
		Meta:    map[string]string{"version": model.CurrentVersion},
		Check: &consulapi.AgentServiceCheck{
			DeregisterCriticalServiceAfter: registry.DeregisterCriticalServiceAfter.String(),
			TTL:                            registry.CheckInterval.String(),
		},
	}, nil
}

// Register registers the service with Consul and starts the TTL check-in loop.
func (c *ConsulRegistry) Register() error {
	if err := c.agent.ServiceRegister(c.registration); err != nil {
		return errors.Internal(
			err.Error(),
			errors.WithID("consul.registry.consul.register.error"),
		)
	}
	checks, err := c.agent.Checks()
	if err != nil {
		return errors.Internal(
			err.Error(),
			errors.WithID("consul.registry.consul.register.get_checks.error"),
		)
	}

	for _, check := range checks {
		if check.ServiceID == c.registration.ID {
			c.checkID = check.CheckID
			break
		}
	}
	if c.checkID == "" {
		return errors.Internal(
			"service check not found",
			errors.WithID("consul.registry.consul.register.check_not_found"),
		)
	}

	go c.runServiceCheck(registry.CheckInterval / 2)
	return nil
}

func (c *ConsulRegistry) Deregister() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if err := c.agent.ServiceDeregister(c.registration.ID); err != nil {
		return errors.Internal(
			err.Error(),
			errors.WithID("consul.registry.consul.deregister.error"),
		)
	}
	slog.Info(fmtConsulLog("service was deregistered"))
	return nil
}

func (c *ConsulRegistry) doUpdateTTL() error {
	if err := c.agent.UpdateTTL(c.checkID, "success", consulapi.HealthPassing); err != nil {
		slog.Error("consul: failed to complete regular check-in", "error", fmtConsulLog(err.Error()))
		return err
	}
	return nil
}

func (c *ConsulRegistry) runServiceCheck(interval time.Duration) {
	if err := c.doUpdateTTL(); err == nil {
		slog.Info(fmtConsulLog("service was registered"))
	}
	defer slog.Info(fmtConsulLog("stopped service checker"))
	slog.Info(fmtConsulLog("started service checker"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			_ = c.doUpdateTTL()
		}
	}
}

func fmtConsulLog(s string) string {
	return fmt.Sprintf("consul: %s", s)
}
