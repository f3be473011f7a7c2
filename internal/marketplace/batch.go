package marketplace

import (
	"github.com/ZilDuck/lazy-marketplace/internal/dev"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
)

// Result is the outcome of one element of a batch. Every element is settled in
// its own unit of work, so a failed element leaves its siblings untouched.
type Result struct {
	Receipt *ledger.Receipt `json:"receipt,omitempty"`
	Err     error           `json:"-"`
}

type BatchResult []Result

func (r BatchResult) Succeeded() int {
	count := 0
	for _, res := range r {
		if res.Err == nil {
			count++
		}
	}
	return count
}

// Failures reports each failed element as a dev.Error carrying its index.
func (r BatchResult) Failures(name string) []dev.Error {
	failures := make([]dev.Error, 0)
	for i, res := range r {
		if res.Err != nil {
			failures = append(failures, dev.NewError("marketplace", name, res.Err, map[string]interface{}{"index": i}))
		}
	}
	return failures
}
