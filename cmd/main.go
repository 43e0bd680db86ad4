package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	clearVacationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/clear_vacation"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_calendar"
	getDayFullnessHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_day_fullness"
	getOpeningHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_opening_hours"
	getVacationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_vacation"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	scheduleEventsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/schedule_events"
	setVacationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_vacation"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateOpeningHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_opening_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	kafkaEvents "github.com/m04kA/SMC-AppointmentService/internal/infra/events/kafka"
	localPubSub "github.com/m04kA/SMC-AppointmentService/internal/infra/pubsub/local"
	redisPubSub "github.com/m04kA/SMC-AppointmentService/internal/infra/pubsub/redis"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/hours"
	vacationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/vacation"
	"github.com/m04kA/SMC-AppointmentService/internal/schedulestore"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	getCalendarUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar"
	getDayFullnessUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_fullness"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// eventPublisher Kafka или заглушка, если Kafka выключена
type eventPublisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
	Close() error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Schedule.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var dbCollector dbmetrics.Collector
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, dbCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	hoursRepository := hoursRepo.NewRepository(wrappedDB)
	vacationRepository := vacationRepo.NewRepository(wrappedDB)

	// Канал инвалидации расписания: Redis между экземплярами или локальный
	var invalidator schedulestore.Invalidator
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		pingCancel()
		invalidator = redisPubSub.NewInvalidator(redisClient, cfg.Redis.Channel, log)
		log.Info("Schedule invalidation via redis channel %q", cfg.Redis.Channel)
	} else {
		invalidator = localPubSub.NewInvalidator()
		log.Info("Redis disabled, schedule invalidation is local to this instance")
	}

	// Публикация событий жизненного цикла записей
	var publisher eventPublisher = kafkaEvents.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafkaEvents.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("Appointment events published to kafka topic %q", cfg.Kafka.Topic)
	}

	// Хранилище расписания: первичная загрузка и фоновое обновление
	store := schedulestore.NewStore(
		hoursRepository,
		vacationRepository,
		invalidator,
		metricsCollector,
		log,
		cfg.Schedule.RefreshInterval(),
	)

	storeCtx, stopStore := context.WithCancel(context.Background())
	defer stopStore()

	if err := store.Reload(storeCtx); err != nil {
		// Сервис стартует, запросы слотов получат 503 до успешной загрузки
		log.Error("Initial schedule load failed: %v", err)
	}
	go func() {
		if err := store.Run(storeCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Schedule store stopped: %v", err)
		}
	}()

	engine := scheduling.NewEngine(store, location)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		txMgr,
		location,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		hoursRepository,
		vacationRepository,
		store,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		engine,
		metricsCollector,
		cfg.Schedule.MaxRangeDays,
		log,
	)
	getDayFullnessUseCase := getDayFullnessUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		engine,
		cfg.Schedule.MaxRangeDays,
		log,
	)
	getCalendarUseCase := getCalendarUC.NewUseCase(
		appointmentRepository,
		engine,
		metricsCollector,
		cfg.Schedule.MaxRangeDays,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		engine,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		engine,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getDayFullness := getDayFullnessHandler.NewHandler(getDayFullnessUseCase, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, location, cfg.Schedule.MaxRangeDays, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getOpeningHours := getOpeningHoursHandler.NewHandler(scheduleSvc, log)
	updateOpeningHours := updateOpeningHoursHandler.NewHandler(scheduleSvc, log)
	getVacation := getVacationHandler.NewHandler(scheduleSvc, log)
	setVacation := setVacationHandler.NewHandler(scheduleSvc, log)
	clearVacation := clearVacationHandler.NewHandler(scheduleSvc, log)
	scheduleEvents := scheduleEventsHandler.NewHandler(store, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность ---
	api.HandleFunc("/staff/{staffId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/fullness", getDayFullness.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание ---
	api.HandleFunc("/opening-hours", getOpeningHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/opening-hours/{dayOfWeek}", updateOpeningHours.Handle).Methods(http.MethodPut)
	api.HandleFunc("/vacation", getVacation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/vacation", setVacation.Handle).Methods(http.MethodPut)
	api.HandleFunc("/vacation", clearVacation.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/schedule/events", scheduleEvents.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновое обновление расписания; открытые SSE-потоки закрываются вместе с сервером
	stopStore()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
