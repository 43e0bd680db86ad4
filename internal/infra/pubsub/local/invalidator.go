package local

import (
	"context"
	"sync"
)

// Invalidator внутрипроцессная рассылка уведомлений для запуска в одном экземпляре
type Invalidator struct {
	mu          sync.Mutex
	subscribers map[chan string]struct{}
}

// NewInvalidator создает внутрипроцессный инвалидатор
func NewInvalidator() *Invalidator {
	return &Invalidator{subscribers: make(map[chan string]struct{})}
}

// Publish доставляет payload всем текущим подписчикам, не блокируясь на медленных
func (i *Invalidator) Publish(_ context.Context, payload string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for ch := range i.subscribers {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe возвращает канал уведомлений, который закрывается при отмене ctx
func (i *Invalidator) Subscribe(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 8)

	i.mu.Lock()
	i.subscribers[ch] = struct{}{}
	i.mu.Unlock()

	go func() {
		<-ctx.Done()
		i.mu.Lock()
		delete(i.subscribers, ch)
		close(ch)
		i.mu.Unlock()
	}()

	return ch, nil
}
