package network

import (
	"sync"

	"github.com/sirupsen/logrus"

	"aether-server/internal/core/types"
	"aether-server/pkg/api"
	"aether-server/pkg/logger"
)

// Broadcaster раздает снимки мира подписчикам. Подписка ключуется
// сущностью-наблюдателем: повторная подписка на ту же сущность
// перехватывает управление, старый канал закрывается.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[types.EntityID]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[types.EntityID]chan api.ServerResponse),
	}
}

// Register подписывает наблюдателя и возвращает его канал. Канал
// буферизован: медленный клиент теряет промежуточные снимки, но не
// тормозит симуляцию.
func (b *Broadcaster) Register(id types.EntityID) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
		logger.Log.WithFields(logrus.Fields{
			"component": "hub",
			"entity":    id.String(),
		}).Warn("Subscriber replaced")
	}

	ch := make(chan api.ServerResponse, 16)
	b.subscribers[id] = ch
	return ch
}

// Unregister снимает подписку и закрывает канал. Канал сверяется:
// перехваченную подписку отключившийся старый клиент не уносит.
func (b *Broadcaster) Unregister(id types.EntityID, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if current, ok := b.subscribers[id]; ok && current == ch {
		delete(b.subscribers, id)
		close(current)
	}
}

// SendTo доставляет снимок одному наблюдателю. Переполненный буфер -
// снимок молча пропущен: следующий всё равно будет полнее.
func (b *Broadcaster) SendTo(id types.EntityID, resp api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return
	}
	select {
	case ch <- resp:
	default:
	}
}

// Broadcast доставляет снимок всем наблюдателям.
func (b *Broadcaster) Broadcast(resp api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- resp:
		default:
		}
	}
}

// HasSubscriber - есть ли подписка на сущность.
func (b *Broadcaster) HasSubscriber(id types.EntityID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount - сколько наблюдателей подключено.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
