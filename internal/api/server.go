package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventhub-io/eventhub/docs"
	v1 "github.com/eventhub-io/eventhub/internal/api/handler/v1"
	"github.com/eventhub-io/eventhub/internal/api/middleware"
	"github.com/eventhub-io/eventhub/internal/config"
	"github.com/eventhub-io/eventhub/internal/repository"
	"github.com/eventhub-io/eventhub/internal/repository/dao"
	"github.com/eventhub-io/eventhub/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	reservationHandler := s.initReservationHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, reservationHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)

	reservationRepo := repository.NewReservationRepository(dao.NewReservationDAO(db))
	statsSvc := service.NewReservationService(reservationRepo, repo)

	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, statsSvc, uSvc)

	return handler
}

func (s *Server) initReservationHandler(db *gorm.DB) *v1.ReservationHandler {
	reservationDAO := dao.NewReservationDAO(db)
	repo := repository.NewReservationRepository(reservationDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewReservationService(repo, eventRepo)

	eventSvc := service.NewEventService(eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewReservationHandler(svc, eventSvc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, reservationHandler *v1.ReservationHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Public catalog browsing needs no authentication.
	public := s.Router.Group(basePath)
	{
		public.GET("/events/search", eventHandler.HandleSearchEvents)
	}

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/users", userHandler.HandleListUsers)
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.PUT("/users/:userID/active", userHandler.HandleSetUserActive)
		users.DELETE("/users/:userID", userHandler.HandleDeleteUser)
	}

	events := s.Router.Group(basePath, verifyJWT)
	{
		events.GET("/events", eventHandler.HandleListEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
		events.GET("/events/:eventID/stats", eventHandler.HandleGetEventStats)
		events.POST("/events", eventHandler.HandleCreateEvent)
		events.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		events.PUT("/events/:eventID/status", eventHandler.HandleUpdateEventStatus)
		events.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
	}

	reservations := s.Router.Group(basePath, verifyJWT)
	{
		reservations.GET("/reservations", reservationHandler.HandleListReservations)
		reservations.GET("/reservations/export", reservationHandler.HandleExportReservations)
		reservations.GET("/reservations/code/:code", reservationHandler.HandleGetReservationByCode)
		reservations.GET("/reservations/:reservationID", reservationHandler.HandleGetReservation)
		reservations.POST("/reservations", reservationHandler.HandleCreateReservation)
		reservations.POST("/reservations/:reservationID/confirm", reservationHandler.HandleConfirmReservation)
		reservations.POST("/reservations/:reservationID/cancel", reservationHandler.HandleCancelReservation)
		reservations.DELETE("/reservations/:reservationID", reservationHandler.HandleDeleteReservation)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventHub API"
	docs.SwaggerInfo.Description = "Event reservation API with seat accounting."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
