package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/challenger-asso/challenger-api/docs"
	v1 "github.com/challenger-asso/challenger-api/internal/api/handler/v1"
	"github.com/challenger-asso/challenger-api/internal/api/middleware"
	"github.com/challenger-asso/challenger-api/internal/config"
	"github.com/challenger-asso/challenger-api/internal/repository"
	"github.com/challenger-asso/challenger-api/internal/repository/dao"
	"github.com/challenger-asso/challenger-api/internal/service"
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

	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(userSvc)
	registrationHandler := s.initRegistrationHandler(db, userSvc)
	adminHandler := s.initAdminHandler(db, userSvc)
	purchaseHandler := s.initPurchaseHandler(db, userSvc)
	competitionHandler := s.initCompetitionHandler(db)
	s.MountHandlers(authHandler, userHandler, registrationHandler, adminHandler, purchaseHandler, competitionHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB, userSvc *service.UserService) *v1.RegistrationHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	svc := service.NewRegistrationService(userRepo, compRepo, purchaseRepo)
	handler := v1.NewRegistrationHandler(svc, userSvc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB, userSvc *service.UserService) *v1.AdminHandler {
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	svc := service.NewValidationService(compRepo, purchaseRepo)
	handler := v1.NewAdminHandler(svc, userSvc)

	return handler
}

func (s *Server) initPurchaseHandler(db *gorm.DB, userSvc *service.UserService) *v1.PurchaseHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	svc := service.NewPurchaseService(purchaseRepo, compRepo, s.Config.Stripe)
	handler := v1.NewPurchaseHandler(svc, userSvc)

	return handler
}

func (s *Server) initCompetitionHandler(db *gorm.DB) *v1.CompetitionHandler {
	compRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	svc := service.NewCompetitionService(compRepo)
	handler := v1.NewCompetitionHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	registrationHandler *v1.RegistrationHandler,
	adminHandler *v1.AdminHandler,
	purchaseHandler *v1.PurchaseHandler,
	competitionHandler *v1.CompetitionHandler,
) {
	s.Router.GET("/healthcheck", v1.HandleHealthcheck)

	docs.SwaggerInfo.BasePath = "/api/v1"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	apiV1 := s.Router.Group("/api/v1")

	auth := apiV1.Group("/auth")
	{
		auth.POST("/signup", authHandler.HandleSignup)
		auth.POST("/login", authHandler.HandleLogin)
	}

	apiV1.GET("/sports", competitionHandler.HandleListSports)
	apiV1.GET("/sports/:sportID/teams", competitionHandler.HandleListTeams)
	apiV1.GET("/schools", competitionHandler.HandleListSchools)
	apiV1.GET("/teams/:teamID", competitionHandler.HandleGetTeam)

	authed := apiV1.Group("")
	authed.Use(authenticator.VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		registration := authed.Group("/registration")
		{
			registration.POST("/start", registrationHandler.HandleStart)
			registration.GET("", registrationHandler.HandleCurrentStep)
			registration.POST("/advance", registrationHandler.HandleAdvance)
			registration.POST("/back", registrationHandler.HandleBack)
			registration.DELETE("", registrationHandler.HandleAbandon)
		}

		authed.GET("/products", purchaseHandler.HandleListProducts)
		authed.GET("/purchases", purchaseHandler.HandleListPurchases)
		authed.POST("/purchases", purchaseHandler.HandleCreatePurchase)
		authed.PUT("/purchases/:purchaseID", purchaseHandler.HandleUpdatePurchase)
		authed.DELETE("/purchases/:purchaseID", purchaseHandler.HandleDeletePurchase)
	}

	admin := apiV1.Group("/admin")
	admin.Use(authenticator.VerifyJWT(), adminHandler.RequireAdmin())
	{
		admin.GET("/participants/:userID/eligibility", adminHandler.HandleEligibility)
		admin.POST("/participants/:userID/validate", adminHandler.HandleValidate)
		admin.POST("/participants/:userID/invalidate", adminHandler.HandleInvalidate)
		admin.DELETE("/participants/:userID", adminHandler.HandleRemove)

		admin.GET("/quotas/sport", adminHandler.HandleSportQuota)
		admin.PUT("/quotas/sport", competitionHandler.HandleSaveSportQuota)
		admin.GET("/quotas/general", adminHandler.HandleGeneralQuota)

		admin.PUT("/enrollments/license", competitionHandler.HandleSetLicenseValid)
		admin.PUT("/enrollments/team", competitionHandler.HandleChangeTeam)

		admin.POST("/sports", competitionHandler.HandleCreateSport)
		admin.POST("/schools", competitionHandler.HandleCreateSchool)

		admin.POST("/products", purchaseHandler.HandleCreateProduct)
		admin.POST("/purchases/:purchaseID/acquit", purchaseHandler.HandleAcquitPurchase)
	}
}
