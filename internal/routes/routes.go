package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Toshiki-Isokawa/Trainora/internal/backend"
	"github.com/Toshiki-Isokawa/Trainora/internal/config"
	"github.com/Toshiki-Isokawa/Trainora/internal/handlers"
	"github.com/Toshiki-Isokawa/Trainora/internal/middleware"
	"github.com/Toshiki-Isokawa/Trainora/internal/onboarding"
	"github.com/Toshiki-Isokawa/Trainora/internal/repository"
	"github.com/Toshiki-Isokawa/Trainora/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	var draftStore onboarding.DraftStore
	if db != nil {
		draftStore = repository.NewDraftRepository(db)
	} else {
		logrus.Warn("no database configured, onboarding drafts are held in memory only")
		draftStore = onboarding.NewMemoryStore()
	}

	backendClient := backend.NewClient(cfg.APIBaseURL)

	var storageService services.StorageService
	var uploader onboarding.Uploader
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		supabase := services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
		storageService = supabase
		uploader = services.NewSignedURLUploader(supabase)
	}

	onboardingHandler := handlers.NewOnboardingHandler(draftStore, backendClient, uploader)
	profileHandler := handlers.NewProfileHandler(backendClient)
	weightHandler := handlers.NewWeightHandler(backendClient)
	workoutHandler := handlers.NewWorkoutHandler(backendClient)
	uploadHandler := handlers.NewUploadHandler(storageService)

	api := app.Group("/api")

	// Pass-through routes consumed by the logged-in pages.
	api.Get("/user/profile", profileHandler.GetProfile)

	weight := api.Group("/weight")
	weight.Post("/record", weightHandler.Record)
	weight.Get("/receive", weightHandler.History)

	workout := api.Group("/workout")
	workout.Post("/record", workoutHandler.Record)
	workout.Put("/update", workoutHandler.Update)
	workout.Delete("/delete", workoutHandler.Delete)
	workout.Get("/fetch/date", workoutHandler.FetchByDate)
	workout.Get("/fetch/month", workoutHandler.FetchByMonth)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Post("/upload-url", uploadHandler.CreateUploadURL)

	ob := authProtected.Group("/onboarding")
	ob.Get("/context", onboardingHandler.Context)
	ob.Post("/summary", onboardingHandler.Summary)
	ob.Get("/:step", onboardingHandler.GetStep)
	ob.Patch("/:step", onboardingHandler.UpdateStep)
	ob.Post("/:step/next", onboardingHandler.NextStep)
	ob.Post("/:step/back", onboardingHandler.BackStep)
}
