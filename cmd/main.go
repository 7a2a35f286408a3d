package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/app"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/controllers"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/middleware"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/routes"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	accountRepo := repositories.NewAccountRepository(application.DB)
	progressRepo := repositories.NewOnboardingProgressRepository(application.DB)
	emailRepo := repositories.NewEmailVerificationRepository(application.DB)
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	pmsRepo := repositories.NewPMSProviderRepository(application.DB)
	contactSalesRepo := repositories.NewContactSalesRepository(application.DB)
	competitorRepo := repositories.NewCompetitorRepository(application.DB)
	mspRepo := repositories.NewMSPEntryRepository(application.DB)

	if err := app.SeedPMSProviders(pmsRepo); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to seed PMS providers")
	}
	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedTestAccount(accountRepo, progressRepo); err != nil {
			utils.Logger.WithError(err).Error("Failed to seed test account")
		}
	}

	//----------------------------------------------------------------------
	// Onboarding orchestration
	//----------------------------------------------------------------------
	cache := utils.NewMemoryCache(constants.CacheDefaultTTL, constants.CacheCleanupInterval)
	progressStore := services.NewProgressStore(progressRepo, accountRepo, propertyRepo, mspRepo)
	orchestrator := onboarding.NewOrchestrator(
		onboarding.DefaultRouteTable().WithOverrides(cfg.LDFlag_OnboardingRoutes),
		progressStore,
		progressStore,
		cache,
	)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	mailer := services.NewSendgridMailer(cfg)
	smsSender := services.NewTwilioSMSSender(cfg)

	verificationService := services.NewEmailVerificationService(cfg, accountRepo, emailRepo, mailer, orchestrator)
	registrationService := services.NewRegistrationService(accountRepo, progressRepo, verificationService, orchestrator, cfg.RSAPrivateKey)
	geocoder, err := services.NewGoogleGeocoder(cfg.GMapsGeocodingAPIKey)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create geocoder")
	}
	hotelService := services.NewHotelService(propertyRepo, pmsRepo, geocoder, orchestrator)
	planService := services.NewPlanService(cfg, accountRepo, propertyRepo, contactSalesRepo, mailer, smsSender, orchestrator)
	paymentService := services.NewPaymentService(cfg, accountRepo, propertyRepo, orchestrator)
	competitorService := services.NewCompetitorService(propertyRepo, competitorRepo)
	mspService := services.NewMSPService(propertyRepo, mspRepo, cache, orchestrator)
	verificationCleanupService := services.NewVerificationCleanupService(emailRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	healthController := controllers.NewHealthController(application.DB)
	registrationController := controllers.NewRegistrationController(registrationService, verificationService)
	onboardingController := controllers.NewOnboardingController(orchestrator)
	hotelController := controllers.NewHotelController(hotelService)
	planController := controllers.NewPlanController(planService)
	paymentController := controllers.NewPaymentController(paymentService)
	competitorController := controllers.NewCompetitorController(competitorService)
	mspController := controllers.NewMSPController(mspService)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods("GET")
	router.HandleFunc(routes.Register, registrationController.RegisterHandler).Methods("POST")
	router.HandleFunc(routes.StripeWebhook, paymentController.StripeWebhookHandler).Methods("POST")

	// Protected
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.VerifyEmailRequest, registrationController.RequestEmailCodeHandler).Methods("POST")
	secured.HandleFunc(routes.VerifyEmailConfirm, registrationController.ConfirmEmailCodeHandler).Methods("POST")

	secured.HandleFunc(routes.Progress, onboardingController.GetProgressHandler).Methods("GET")
	secured.HandleFunc(routes.ProgressLanding, onboardingController.LandingHandler).Methods("GET")
	secured.HandleFunc(routes.ProgressAdvance, onboardingController.AdvanceHandler).Methods("POST")

	secured.HandleFunc(routes.Hotel, hotelController.GetHotelHandler).Methods("GET")
	secured.HandleFunc(routes.Hotel, hotelController.SaveHotelHandler).Methods("PUT")
	secured.HandleFunc(routes.PMSProviders, hotelController.ListPMSProvidersHandler).Methods("GET")
	secured.HandleFunc(routes.PMS, hotelController.SavePMSHandler).Methods("PUT")

	secured.HandleFunc(routes.Plans, planController.ListPlansHandler).Methods("GET")
	secured.HandleFunc(routes.Plan, planController.SelectPlanHandler).Methods("PUT")
	secured.HandleFunc(routes.ContactSalesContinue, planController.ContinueAfterContactSalesHandler).Methods("POST")

	secured.HandleFunc(routes.PaymentCheckout, paymentController.CheckoutHandler).Methods("POST")

	secured.HandleFunc(routes.Competitors, competitorController.ListHandler).Methods("GET")
	secured.HandleFunc(routes.Competitors, competitorController.AddHandler).Methods("POST")
	secured.HandleFunc(routes.CompetitorByID, competitorController.RemoveHandler).Methods("DELETE")

	secured.HandleFunc(routes.MSPBatch, mspController.SubmitBatchHandler).Methods("POST")
	secured.HandleFunc(routes.MSPBatch, mspController.ListEntriesHandler).Methods("GET")
	secured.HandleFunc(routes.MSPDraft, mspController.GetDraftHandler).Methods("GET")
	secured.HandleFunc(routes.MSPDraftPeriods, mspController.AddPeriodHandler).Methods("POST")
	secured.HandleFunc(routes.MSPDraftPeriodByID, mspController.UpdatePeriodHandler).Methods("PATCH")
	secured.HandleFunc(routes.MSPDraftPeriodByID, mspController.RemovePeriodHandler).Methods("DELETE")
	secured.HandleFunc(routes.MSPDraftValidate, mspController.ValidateDraftHandler).Methods("POST")
	secured.HandleFunc(routes.MSPDraftSubmit, mspController.SubmitDraftHandler).Methods("POST")

	//----------------------------------------------------------------------
	// Scheduled jobs
	//----------------------------------------------------------------------
	c := cron.New()

	_, schErr1 := c.AddFunc(constants.VerificationCleanupCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.VerificationCleanupLimit)
		defer cancel()
		if e := verificationCleanupService.CleanupDaily(ctx); e != nil {
			utils.Logger.WithError(e).Error("Scheduled verification-codes cleanup failed")
		}
	})
	if schErr1 != nil {
		utils.Logger.WithError(schErr1).Fatal("Failed to schedule verification-codes cleanup job")
	}

	_, schErr2 := c.AddFunc(constants.CacheSweepCron, func() {
		remaining := cache.Sweep()
		utils.Logger.Debugf("Cache sweep done, %d entries remain", remaining)
	})
	if schErr2 != nil {
		utils.Logger.WithError(schErr2).Fatal("Failed to schedule cache sweep job")
	}

	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
