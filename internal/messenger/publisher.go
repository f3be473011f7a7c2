package messenger

import (
	"encoding/json"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"go.uber.org/zap"
)

// Notification is the body published for every committed settlement event.
type Notification struct {
	Type  event.Type      `json:"type"`
	Slug  string          `json:"slug"`
	Event json.RawMessage `json:"event"`
}

type Publisher struct {
	service MessageService
	item    Item
}

func NewPublisher(service MessageService, item Item) *Publisher {
	return &Publisher{service: service, item: item}
}

func (p *Publisher) Subscribe(manager *event.Manager) {
	for _, eventType := range event.SettlementEvents {
		manager.AddEventListener(eventType, p.handle)
	}
}

func (p *Publisher) Publish(e entity.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	body, err := json.Marshal(Notification{Type: e.Type(), Slug: e.Slug(), Event: payload})
	if err != nil {
		return err
	}

	return p.service.SendMessage(p.item, body)
}

func (p *Publisher) handle(msg interface{}) {
	e, ok := msg.(entity.Event)
	if !ok {
		zap.L().Warn("Publisher: Unexpected message")
		return
	}

	if err := p.Publish(e); err != nil {
		zap.L().With(zap.Error(err), zap.String("slug", e.Slug())).Error("Publisher: Failed to publish event")
	}
}
