//go:build wireinject
// +build wireinject

package di

import (
	"terras/config"
	"terras/infras/jwt"
	"terras/infras/kafka"
	"terras/infras/otel"
	"terras/infras/postgres"
	"terras/infras/redis"
	"terras/infras/s3"
	"terras/internal/events"
	"terras/permissions"
	"terras/shared/cache"
	"terras/transport/http"
	"terras/transport/http/middleware"
	"terras/transport/http/router"

	activityConsumer "terras/internal/domains/activity/consumer"
	activityRepository "terras/internal/domains/activity/repository"
	activityService "terras/internal/domains/activity/service"
	authService "terras/internal/domains/auth/service"
	bookingRepository "terras/internal/domains/booking/repository"
	bookingService "terras/internal/domains/booking/service"
	roomRepository "terras/internal/domains/room/repository"
	roomService "terras/internal/domains/room/service"
	userRepository "terras/internal/domains/user/repository"

	activityHandler "terras/internal/handlers/activity"
	authHandler "terras/internal/handlers/auth"
	bookingHandler "terras/internal/handlers/booking"
	roomHandler "terras/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var messaging = wire.NewSet(
	events.NewPublisher,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var activityDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	bookingDomain,
	activityDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	activityHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		messaging,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeActivityConsumer() *activityConsumer.Consumer {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		activityDomain,
		activityConsumer.New,
	)

	return &activityConsumer.Consumer{}
}
