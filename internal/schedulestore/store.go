package schedulestore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Listener вызывается после каждого изменения снимка расписания
type Listener func(snapshot domain.ScheduleSnapshot)

// Store хранит текущий снимок часов работы и отпуска.
// Читатели получают неизменяемую копию, подписчики узнают об изменениях.
type Store struct {
	hours       HoursRepository
	vacation    VacationRepository
	invalidator Invalidator
	metrics     Metrics
	logger      Logger

	instanceID      string
	refreshInterval time.Duration
	now             func() time.Time

	// reloadMu упорядочивает перезагрузки: чтение из БД и запись снимка выполняются
	// целиком, поэтому более раннее чтение не перезапишет более поздний снимок
	reloadMu sync.Mutex

	mu       sync.RWMutex
	snapshot domain.ScheduleSnapshot
	loaded   bool

	subMu       sync.Mutex
	subscribers map[int]Listener
	nextSubID   int
}

// NewStore создает хранилище. invalidator и metrics могут быть nil
func NewStore(
	hours HoursRepository,
	vacation VacationRepository,
	invalidator Invalidator,
	metrics Metrics,
	logger Logger,
	refreshInterval time.Duration,
) *Store {
	return &Store{
		hours:           hours,
		vacation:        vacation,
		invalidator:     invalidator,
		metrics:         metrics,
		logger:          logger,
		instanceID:      uuid.NewString(),
		refreshInterval: refreshInterval,
		now:             time.Now,
		subscribers:     make(map[int]Listener),
	}
}

// Snapshot возвращает текущий снимок; false, пока расписание ни разу не загружено
func (s *Store) Snapshot() (domain.ScheduleSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.loaded
}

// Subscribe регистрирует слушателя изменений и возвращает функцию отписки.
// Слушатель вызывается синхронно и не должен блокироваться
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Reload перечитывает часы работы и отпуск. Слушатели уведомляются, только если расписание изменилось.
// Одновременные вызовы выполняются по очереди; слушатель не должен вызывать Reload
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	hours, err := s.hours.GetWeekly(ctx)
	if err != nil {
		s.incReload("error")
		return fmt.Errorf("%w: %v", ErrLoadHours, err)
	}

	vacation, err := s.vacation.Get(ctx)
	if err != nil {
		s.incReload("error")
		return fmt.Errorf("%w: %v", ErrLoadVacation, err)
	}

	next := domain.ScheduleSnapshot{Hours: hours, Vacation: vacation, LoadedAt: s.now()}

	s.mu.Lock()
	changed := !s.loaded || !sameSchedule(s.snapshot, next)
	s.snapshot = next
	s.loaded = true
	s.mu.Unlock()

	s.incReload("ok")

	if changed {
		s.notify(next)
	}
	return nil
}

// Invalidate перезагружает расписание локально и оповещает остальные экземпляры
func (s *Store) Invalidate(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}

	if s.invalidator != nil {
		if err := s.invalidator.Publish(ctx, s.instanceID); err != nil {
			// Остальные экземпляры подхватят изменение по периодическому обновлению
			s.logger.Warn("ScheduleStore: failed to publish invalidation: %v", err)
		}
	}
	return nil
}

// Run обрабатывает уведомления об изменениях и периодически перечитывает расписание до отмены ctx
func (s *Store) Run(ctx context.Context) error {
	var messages <-chan string
	if s.invalidator != nil {
		ch, err := s.invalidator.Subscribe(ctx)
		if err != nil {
			s.logger.Error("ScheduleStore: failed to subscribe to invalidations: %v", err)
		} else {
			messages = ch
		}
	}

	var tick <-chan time.Time
	if s.refreshInterval > 0 {
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case payload, ok := <-messages:
			if !ok {
				s.logger.Warn("ScheduleStore: invalidation channel closed, relying on periodic refresh")
				messages = nil
				continue
			}
			// Собственные уведомления уже применены в Invalidate
			if payload == s.instanceID {
				continue
			}
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("ScheduleStore: reload after invalidation failed: %v", err)
			}

		case <-tick:
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("ScheduleStore: periodic reload failed: %v", err)
			}
		}
	}
}

func (s *Store) notify(snapshot domain.ScheduleSnapshot) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) incReload(status string) {
	if s.metrics != nil {
		s.metrics.IncScheduleReload(status)
	}
}

// sameSchedule сравнивает расписания без учета времени загрузки
func sameSchedule(a, b domain.ScheduleSnapshot) bool {
	a.LoadedAt, b.LoadedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(a, b)
}
