package schedule_events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	eventName         = "schedule.changed"
	heartbeatInterval = 25 * time.Second
)

// ChangedEvent тело события об изменении расписания
type ChangedEvent struct {
	LoadedAt string `json:"loadedAt"`
}

type Handler struct {
	notifier  ScheduleNotifier
	logger    Logger
	heartbeat time.Duration
}

func NewHandler(notifier ScheduleNotifier, logger Logger) *Handler {
	return &Handler{
		notifier:  notifier,
		logger:    logger,
		heartbeat: heartbeatInterval,
	}
}

// Handle GET /api/v1/schedule/events
// Server-Sent Events: клиент получает schedule.changed после каждого изменения часов работы или отпуска
// и перезапрашивает слоты и календарь
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /schedule/events - ResponseWriter does not support flushing")
		handlers.RespondInternalError(w)
		return
	}

	// поток живет дольше WriteTimeout сервера
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// слушатель вызывается синхронно из хранилища, поэтому не блокируется:
	// если предыдущее событие еще не отправлено, новое схлопывается с ним
	changes := make(chan domain.ScheduleSnapshot, 1)
	unsubscribe := h.notifier.Subscribe(func(snapshot domain.ScheduleSnapshot) {
		select {
		case changes <- snapshot:
		default:
		}
	})
	defer unsubscribe()

	h.logger.Info("GET /schedule/events - Client subscribed")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /schedule/events - Client disconnected")
			return

		case snapshot := <-changes:
			payload, err := json.Marshal(ChangedEvent{LoadedAt: snapshot.LoadedAt.Format(time.RFC3339)})
			if err != nil {
				h.logger.Error("GET /schedule/events - Failed to encode event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName, payload); err != nil {
				h.logger.Warn("GET /schedule/events - Write failed: %v", err)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
