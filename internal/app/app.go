package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/adapters/consumers"
	"github.com/LaibaFaraz/HealMind/internal/adapters/handlers"
	"github.com/LaibaFaraz/HealMind/internal/adapters/producers"
	"github.com/LaibaFaraz/HealMind/internal/adapters/repositories/datastore"
	"github.com/LaibaFaraz/HealMind/internal/adapters/repositories/dynamo"
	"github.com/LaibaFaraz/HealMind/internal/config"
	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/healthtracking"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/logging"
	"github.com/LaibaFaraz/HealMind/internal/pkg/metrics"
	"github.com/LaibaFaraz/HealMind/internal/presentation"
	"github.com/LaibaFaraz/HealMind/internal/services"
	"github.com/LaibaFaraz/HealMind/internal/usecases"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		Modules(),
	)
}

// Modules регистрирует все модули приложения
func Modules() fx.Option {
	return fx.Options(
		ConfigModule,
		LoggerModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		StressModule,
		UsecaseModule,
		PresentationModule,
		HttpServerModule,
	)
}

// RunStressBatch поднимает только хранилище и предиктор и выполняет одну пакетную обработку.
func RunStressBatch(ctx context.Context, hours int) (entities.StressSummary, error) {
	var stress interfaces.StressService
	app := fx.New(
		fx.NopLogger,
		ConfigModule,
		LoggerModule,
		RepositoryModule,
		StressModule,
		fx.Populate(&stress),
	)
	if err := app.Start(ctx); err != nil {
		return entities.StressSummary{}, err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()
	return stress.RunBatch(ctx, hours)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(
		// Загрузчик конфигурации
		config.LoadConfiguration,
	),
)

var LoggerModule = fx.Module("logger_module",
	fx.Provide(
		func(cfg *config.AppConfig) *zap.Logger {
			return logging.NewLogger(cfg.LoggingOptions())
		},
		metrics.New,
	),
	fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
		lc.Append(fx.StopHook(func() {
			_ = logger.Sync()
		}))
	}),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(
		// Хранилище выбирается по storage.driver
		ProvideRepository,
		func(repo interfaces.Repository) interfaces.SampleRepository { return repo },
		func(repo interfaces.Repository) interfaces.PredictionRepository { return repo },
	),
)

// ProvideRepository создает in-memory или DynamoDB хранилище
func ProvideRepository(cfg *config.AppConfig, logger *zap.Logger) (interfaces.Repository, error) {
	if cfg.Storage.Driver != config.StorageDynamoDB {
		logger.Info("используется in-memory хранилище")
		return datastore.NewDataStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := dynamo.NewClient(ctx, cfg.Storage.AWSRegion, cfg.Storage.DynamoDBEndpoint)
	if err != nil {
		return nil, err
	}
	logger.Info("используется DynamoDB",
		zap.String("region", cfg.Storage.AWSRegion),
		zap.String("samples_table", cfg.Storage.SamplesTable),
		zap.String("predictions_table", cfg.Storage.PredictionsTable),
	)
	return dynamo.NewRepository(client, cfg.Storage.SamplesTable, cfg.Storage.PredictionsTable, logger), nil
}

var ProducerModule = fx.Module("producer_module",
	fx.Provide(
		fx.Annotate(producers.NewKafkaProducer, fx.As(new(interfaces.DataProducer))),
		fx.Annotate(consumers.NewKafkaConsumer, fx.As(new(interfaces.MessageConsumer))),
	),
	fx.Invoke(func(lc fx.Lifecycle, producer interfaces.DataProducer) {
		lc.Append(fx.StopHook(producer.Close))
	}),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		// Клиент сервиса трекинга на часах
		fx.Annotate(
			func(cfg *config.AppConfig) *healthtracking.Client {
				return healthtracking.NewClient(cfg.Tracking.RequestTimeout)
			},
			fx.As(new(interfaces.HealthTrackingClient)),
		),
		fx.Annotate(
			func(client interfaces.HealthTrackingClient, m *metrics.Metrics, cfg *config.AppConfig, logger *zap.Logger) *services.TrackingService {
				return services.NewTrackingService(client, m, cfg.Tracking.MaxValues, logger)
			},
			fx.As(new(interfaces.TrackingService)),
		),
		fx.Annotate(
			func(client interfaces.HealthTrackingClient, tracking interfaces.TrackingService, cfg *config.AppConfig, logger *zap.Logger) *services.ConnectionService {
				return services.NewConnectionService(client, tracking, cfg.Tracking.CapabilityTTL, logger)
			},
			fx.As(new(interfaces.ConnectionService)),
		),
		fx.Annotate(
			func(producer interfaces.DataProducer, cfg *config.AppConfig, m *metrics.Metrics, logger *zap.Logger) *services.MessageService {
				return services.NewMessageService(producer, cfg.Kafka.NodeID, m, logger)
			},
			fx.As(new(interfaces.MessageSender)),
		),
		services.NewDataListener,
	),
	fx.Invoke(InvokeTrackingService, InvokeDataListener),
)

var StressModule = fx.Module("stress_module",
	fx.Provide(
		func(cfg *config.AppConfig) (*services.StressModel, error) {
			return services.LoadStressModel(cfg.Stress.ModelPath)
		},
		fx.Annotate(
			func(samples interfaces.SampleRepository, predictions interfaces.PredictionRepository, model *services.StressModel,
				cfg *config.AppConfig, m *metrics.Metrics, logger *zap.Logger) *services.StressPredictor {
				return services.NewStressPredictor(samples, predictions, model, cfg.Stress.WindowMinutes, m, logger)
			},
			fx.As(new(interfaces.StressService)),
		),
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(
		// Пять зависимостей view-model
		fx.Annotate(usecases.NewMakeConnectionUsecase, fx.As(new(interfaces.MakeConnectionUsecase))),
		fx.Annotate(usecases.NewSendMessageUsecase, fx.As(new(interfaces.SendMessageUsecase))),
		fx.Annotate(usecases.NewStopTrackingUsecase, fx.As(new(interfaces.StopTrackingUsecase))),
		fx.Annotate(usecases.NewCapabilitiesUsecase, fx.As(new(interfaces.CapabilitiesUsecase))),
		fx.Annotate(
			func(conns interfaces.ConnectionService, tracking interfaces.TrackingService, cfg *config.AppConfig) *usecases.TrackHeartRateUsecase {
				return usecases.NewTrackHeartRateUsecase(conns, tracking, cfg.Tracking.Interval)
			},
			fx.As(new(interfaces.TrackHeartRateUsecase)),
		),
		// Use cases HTTP API
		fx.Annotate(usecases.NewUsecases, fx.As(new(interfaces.Usecases))),
	),
)

var PresentationModule = fx.Module("presentation_module",
	fx.Provide(
		fx.Annotate(ProvideViewModel, fx.As(new(interfaces.TrackingViewModel))),
	),
	fx.Invoke(InvokeViewModel),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		// Обработчики HTTP-запросов
		handlers.NewHandler,
		// Роутер
		handlers.ProvideRouter,
	),
	// Запускаем сервер и расписание оценки стресса при старте приложения
	fx.Invoke(InvokeHttpServer, InvokeStressScheduler),
)

// ProvideViewModel собирает view-model через фабрику. Неразрешённая зависимость прерывает старт.
func ProvideViewModel(
	makeConnection interfaces.MakeConnectionUsecase,
	sendMessage interfaces.SendMessageUsecase,
	stopTracking interfaces.StopTrackingUsecase,
	capabilities interfaces.CapabilitiesUsecase,
	trackHeartRate interfaces.TrackHeartRateUsecase,
) (*presentation.MainViewModel, error) {
	factory := presentation.CreateMainViewModelFactory(
		presentation.Instance(makeConnection),
		presentation.Instance(sendMessage),
		presentation.Instance(stopTracking),
		presentation.Instance(capabilities),
		presentation.Instance(trackHeartRate),
	)
	return factory.Get()
}

// InvokeViewModel подключается к эндпоинту по умолчанию и останавливает трекинг при выходе
func InvokeViewModel(lc fx.Lifecycle, cfg *config.AppConfig, vm interfaces.TrackingViewModel, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Tracking.DefaultEndpoint == "" {
				return nil
			}
			state, err := vm.SetUpTracking(ctx, entities.ConnectionRequest{EndpointURL: cfg.Tracking.DefaultEndpoint})
			if err != nil {
				// часы могут быть ещё недоступны, подключение повторяется через API
				logger.Warn("не удалось подключиться к эндпоинту по умолчанию",
					zap.String("endpoint", cfg.Tracking.DefaultEndpoint), zap.Error(err))
				return nil
			}
			logger.Info("view-model подключена", zap.Bool("capable", state.Capable))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return vm.StopTracking()
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *zap.Logger) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("сервер запущен", zap.String("addr", "http://localhost"+serverAddr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("не удалось запустить сервер", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("остановка HTTP-сервера")
			return server.Shutdown(ctx)
		},
	})
}

// InvokeTrackingService останавливает все процессы трекинга при выходе
func InvokeTrackingService(lc fx.Lifecycle, tracking interfaces.TrackingService) {
	lc.Append(fx.StopHook(tracking.StopAll))
}

// InvokeDataListener запускает приём сообщений /msg, если он включён
func InvokeDataListener(lc fx.Lifecycle, cfg *config.AppConfig, listener *services.DataListener, consumer interfaces.MessageConsumer, logger *zap.Logger) {
	if !cfg.Kafka.EnableListen {
		logger.Info("слушатель сообщений отключён")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				_ = listener.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return consumer.Close()
		},
	})
}

// InvokeStressScheduler запускает периодическую оценку стресса
func InvokeStressScheduler(lc fx.Lifecycle, cfg *config.AppConfig, stress interfaces.StressService, logger *zap.Logger) {
	if !cfg.Stress.Enabled {
		logger.Info("оценка стресса по расписанию отключена")
		return
	}

	scheduler := services.NewStressScheduler(stress, cfg.Stress.Interval, cfg.Stress.LookbackHours, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
