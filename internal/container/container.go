package container

import (
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	definitions "github.com/ZilDuck/lazy-marketplace/internal/config/di"
	"github.com/ZilDuck/lazy-marketplace/internal/daemon"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/marketplace"
	"github.com/ZilDuck/lazy-marketplace/internal/messenger"
	"github.com/ZilDuck/lazy-marketplace/internal/registry"
	"github.com/ZilDuck/lazy-marketplace/internal/rpc"
	"github.com/sarulabs/di/v2"
)

// Container gives typed access to the application definitions. The Get
// methods panic when a definition fails to build, SafeGet returns the error.
type Container struct {
	ctn di.Container
}

func NewContainer() (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(definitions.Definitions...); err != nil {
		return nil, err
	}

	return &Container{ctn: builder.Build()}, nil
}

func (c *Container) SafeGet(name string) (interface{}, error) {
	return c.ctn.SafeGet(name)
}

// Delete closes every built definition.
func (c *Container) Delete() error {
	return c.ctn.Delete()
}

func (c *Container) GetConfig() *config.Config {
	return c.ctn.Get("config").(*config.Config)
}

func (c *Container) GetEvents() *event.Manager {
	return c.ctn.Get("events").(*event.Manager)
}

func (c *Container) GetLedger() *ledger.Ledger {
	return c.ctn.Get("ledger").(*ledger.Ledger)
}

func (c *Container) GetMarketplace() *marketplace.Engine {
	return c.ctn.Get("marketplace").(*marketplace.Engine)
}

func (c *Container) GetStaff() *registry.Registry {
	return c.ctn.Get("staff").(*registry.Registry)
}

func (c *Container) GetMessenger() messenger.MessageService {
	return c.ctn.Get("messenger").(messenger.MessageService)
}

func (c *Container) GetRpcServer() *rpc.Server {
	return c.ctn.Get("rpc.server").(*rpc.Server)
}

func (c *Container) GetRpcClient() *rpc.Client {
	return c.ctn.Get("rpc.client").(*rpc.Client)
}

func (c *Container) GetDaemon() *daemon.Daemon {
	return c.ctn.Get("daemon").(*daemon.Daemon)
}

func (c *Container) SafeGetDaemon() (*daemon.Daemon, error) {
	obj, err := c.ctn.SafeGet("daemon")
	if err != nil {
		return nil, err
	}

	return obj.(*daemon.Daemon), nil
}
