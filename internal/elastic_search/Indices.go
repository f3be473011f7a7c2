package elastic_search

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
)

type Indices string

var (
	EventIndex Indices = "event"
)

// Sets the network and returns the full string
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}
