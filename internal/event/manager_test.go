package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_DeliversOnlyMatchingType(t *testing.T) {
	m := NewManager()
	defer m.Close()

	var mu sync.Mutex
	received := make([]interface{}, 0)
	m.AddEventListener(ItemBoughtEvent, func(msg interface{}) {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
	})

	m.EmitEvent(ItemListedEvent, "listed")
	m.EmitEvent(ItemBoughtEvent, "bought-1")
	m.EmitEvent(ItemBoughtEvent, "bought-2")
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []interface{}{"bought-1", "bought-2"}, received)
}

func TestManager_EmitAfterCloseIsDropped(t *testing.T) {
	m := NewManager()
	calls := 0
	m.AddEventListener(ItemBoughtEvent, func(msg interface{}) { calls++ })
	m.Close()

	m.EmitEvent(ItemBoughtEvent, "late")
	m.Wait()

	assert.Equal(t, 0, calls)
}
