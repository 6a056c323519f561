package routes

import (
	"tms/backend/cache"
	"tms/backend/config"
	"tms/backend/controllers"
	"tms/backend/middleware"
	"tms/backend/models"
	"tms/backend/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, st store.RemoteStore, tokens *cache.TokenCache, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, tokens)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/refresh", authController.Refresh)
	app.Post("/api/auth/logout", authController.Logout)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	staffOnly := middleware.RoleMiddleware(cfg,
		string(models.RoleTrainer), string(models.RoleAdmin), string(models.RoleTrainingProvider))
	adminOnly := middleware.RoleMiddleware(cfg, string(models.RoleAdmin))

	// Courses routes
	coursesController := controllers.NewCoursesController(st, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Post("/", staffOnly, coursesController.CreateCourse)
	courses.Put("/:id", staffOnly, coursesController.ReplaceCourse)
	courses.Delete("/:id", staffOnly, coursesController.DeleteCourse)
	courses.Post("/:id/bookmarks/:subtopicId", coursesController.ToggleBookmark)
	courses.Post("/:id/learners/:email/completions/:subtopicId", coursesController.ToggleCompletion)
	courses.Put("/:id/learners/:email/assessments/:assessmentId/grade", staffOnly, coursesController.SetGrade)
	courses.Put("/:id/learners/:email/grades", staffOnly, coursesController.SetAllGrades)
	courses.Put("/:id/assessments/:assessmentId/state", staffOnly, coursesController.SetAssessmentState)
	courses.Post("/:id/learners/:email/assessments/:assessmentId/submission", coursesController.RecordSubmission)
	courses.Put("/:id/learners/:email", staffOnly, coursesController.ReplaceLearner)

	// Calendar routes
	eventsController := controllers.NewEventsController(st, cfg)
	events := app.Group("/api/events", authMiddleware)
	events.Get("/", eventsController.ListEvents)
	events.Post("/", staffOnly, eventsController.CreateEvent)
	events.Put("/:id", staffOnly, eventsController.ReplaceEvent)
	events.Delete("/:id", staffOnly, eventsController.DeleteEvent)

	// Grant routes
	grantsController := controllers.NewGrantsController(st, cfg)
	grants := app.Group("/api/grants", authMiddleware)
	grants.Get("/", grantsController.ListGrants)
	grants.Post("/", staffOnly, grantsController.CreateGrant)
	grants.Put("/:id/status", adminOnly, grantsController.SetGrantStatus)

	// Learner registry and job board
	learnersController := controllers.NewLearnersController(st, cfg)
	app.Get("/api/learners", authMiddleware, learnersController.ListLearners)
	app.Post("/api/learners", authMiddleware, staffOnly, learnersController.CreateLearner)
	app.Get("/api/jobs", authMiddleware, learnersController.ListJobs)
}
