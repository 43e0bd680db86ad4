package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

var (
	// ErrPublish возвращается при ошибке публикации уведомления
	ErrPublish = errors.New("pubsub.redis: failed to publish")

	// ErrSubscribe возвращается при ошибке подписки на канал
	ErrSubscribe = errors.New("pubsub.redis: failed to subscribe")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Invalidator рассылает уведомления об изменении расписания через Redis Pub/Sub
type Invalidator struct {
	client  goredis.UniversalClient
	channel string
	logger  Logger
}

// NewInvalidator создает Redis-инвалидатор для канала channel
func NewInvalidator(client goredis.UniversalClient, channel string, logger Logger) *Invalidator {
	return &Invalidator{client: client, channel: channel, logger: logger}
}

// Publish отправляет payload всем подписчикам канала
func (i *Invalidator) Publish(ctx context.Context, payload string) error {
	if err := i.client.Publish(ctx, i.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, i.channel, err)
	}
	return nil
}

// Subscribe подписывается на канал. Канал результата закрывается при отмене ctx
func (i *Invalidator) Subscribe(ctx context.Context) (<-chan string, error) {
	sub := i.client.Subscribe(ctx, i.channel)

	// Дожидаемся подтверждения подписки, чтобы не потерять первые сообщения
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: channel=%s: %v", ErrSubscribe, i.channel, err)
	}

	i.logger.Info("Redis invalidator subscribed to channel %s", i.channel)

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					i.logger.Warn("Redis invalidator: channel %s closed", i.channel)
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
