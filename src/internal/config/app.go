package config

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/delivery/http"
	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/delivery/http/route"
	"dispatch-service/src/internal/gateway/geo"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/policy"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	Geoservice  *GeoService
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

const (
	TypeSweepExpired = "assignment:sweep-expired"
)

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	orderRepository := repository.NewOrderRepository(config.DB)
	assignmentRepository := repository.NewAssignmentRepository(config.DB)
	tripRepository := repository.NewTripRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	driverRepository := repository.NewDriverRepository(config.DB)

	// setup gateways
	orderProducer := messaging.NewOrderProducer(config.Producer, config.Log)
	tripProducer := messaging.NewTripProducer(config.Producer, config.Log)
	geolocator := geo.NewGeolocator(config.Geoservice.Client)

	policyProvider := policy.NewProvider(config.Config)

	// setup use cases
	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		config.DB,
		orderRepository,
		assignmentRepository,
		geolocator,
		config.Redis,
		policyProvider,
		orderProducer,
	)
	assignmentUseCase := usecase.NewAssignmentUseCase(
		config.Log,
		config.Validate,
		config.DB,
		orderRepository,
		assignmentRepository,
		walletRepository,
		driverRepository,
		orderProducer,
	)
	tripUseCase := usecase.NewTripUseCase(
		config.Log,
		config.Validate,
		config.DB,
		orderRepository,
		assignmentRepository,
		tripRepository,
		walletRepository,
		driverRepository,
		tripProducer,
	)
	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		config.DB,
		walletRepository,
	)

	// setup controllers
	vendorController := http.NewVendorController(orderUseCase, config.Log)
	ownerController := http.NewOwnerController(orderUseCase, assignmentUseCase, config.Log)
	driverController := http.NewDriverController(tripUseCase, config.Log)
	walletController := http.NewWalletController(walletUseCase, config.Log)
	adminController := http.NewAdminController(policyProvider, assignmentUseCase, config.Log)

	// scheduled jobs
	config.Async.HandleFunc(TypeSweepExpired, func(ctx context.Context, t *asynq.Task) error {
		if result := assignmentUseCase.SweepExpired(ctx); result.Error != nil {
			return result.Error
		}
		return nil
	})

	authMiddleware := middleware.VerifyBearer(config.Config)
	routeConfig := route.RouteConfig{
		App:              config.App,
		VendorController: vendorController,
		OwnerController:  ownerController,
		DriverController: driverController,
		WalletController: walletController,
		AdminController:  adminController,
		AuthMiddleware:   authMiddleware,
	}
	routeConfig.Setup()
}
