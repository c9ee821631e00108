package consul

import (
	stderrors "errors"
	"sync"
	"testing"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conf "github.com/webitel/video-exporter/config"
	"github.com/webitel/video-exporter/registry"
)

type fakeAgent struct {
	mu           sync.Mutex
	registered   *consulapi.AgentServiceRegistration
	deregistered string
	checks       map[string]*consulapi.AgentCheck
	ttlUpdates   int
	registerErr  error
}

func (a *fakeAgent) ServiceRegister(r *consulapi.AgentServiceRegistration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registered = r
	return a.registerErr
}

func (a *fakeAgent) ServiceDeregister(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deregistered = id
	return nil
}

func (a *fakeAgent) Checks() (map[string]*consulapi.AgentCheck, error) {
	return a.checks, nil
}

func (a *fakeAgent) UpdateTTL(string, string, string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ttlUpdates++
	return nil
}

func TestNewRegistration(t *testing.T) {
	r, err := newRegistration(&conf.ConsulConfig{Id: "video-1", PublicAddress: "10.0.0.5:8080"})
	require.NoError(t, err)

	assert.Equal(t, "video-1", r.ID)
	assert.Equal(t, registry.ServiceName, r.Name)
	assert.Equal(t, "10.0.0.5", r.Address)
	assert.Equal(t, 8080, r.Port)
	assert.Equal(t, registry.CheckInterval.String(), r.Check.TTL)
}

func TestNewRegistrationValidates(t *testing.T) {
	_, err := newRegistration(&conf.ConsulConfig{PublicAddress: "10.0.0.5:8080"})
	assert.Error(t, err)

	_, err = newRegistration(&conf.ConsulConfig{Id: "x", PublicAddress: "10.0.0.5"})
	assert.Error(t, err)

	_, err = newRegistration(&conf.ConsulConfig{Id: "x", PublicAddress: "10.0.0.5:http"})
	assert.Error(t, err)
}

func TestRegisterAndDeregister(t *testing.T) {
	reg, err := newRegistration(&conf.ConsulConfig{Id: "video-1", PublicAddress: "10.0.0.5:8080"})
	require.NoError(t, err)
	a := &fakeAgent{checks: map[string]*consulapi.AgentCheck{
		"other":   {CheckID: "other", ServiceID: "other"},
		"service": {CheckID: "service:video-1", ServiceID: "video-1"},
	}}
	c := newWithAgent(reg, a)

	require.NoError(t, c.Register())
	assert.Equal(t, "service:video-1", c.checkID)

	require.NoError(t, c.Deregister())
	require.NoError(t, c.Deregister())

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.Equal(t, "video-1", a.deregistered)
}

func TestRegisterFailsWithoutCheck(t *testing.T) {
	reg, err := newRegistration(&conf.ConsulConfig{Id: "video-1", PublicAddress: "10.0.0.5:8080"})
	require.NoError(t, err)

	c := newWithAgent(reg, &fakeAgent{checks: map[string]*consulapi.AgentCheck{}})
	assert.Error(t, c.Register())

	c = newWithAgent(reg, &fakeAgent{registerErr: stderrors.New("agent unavailable")})
	assert.Error(t, c.Register())
}
