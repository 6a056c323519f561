package controllers

import (
	"tms/backend/config"
	"tms/backend/models"
	"tms/backend/store"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// LearnersController serves the global learner registry and the job board.
type LearnersController struct {
	Store store.RemoteStore
	Cfg   *config.Config
}

func NewLearnersController(st store.RemoteStore, cfg *config.Config) *LearnersController {
	return &LearnersController{Store: st, Cfg: cfg}
}

func (lc *LearnersController) ListLearners(c *fiber.Ctx) error {
	learners, err := lc.Store.ListLearners(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(learners)
}

func (lc *LearnersController) CreateLearner(c *fiber.Ctx) error {
	var profile models.LearnerProfile
	if err := c.BodyParser(&profile); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if profile.Email == "" {
		return utils.BadRequest(c, "Missing email")
	}

	created, err := lc.Store.CreateLearner(c.Context(), profile)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (lc *LearnersController) ListJobs(c *fiber.Ctx) error {
	jobs, err := lc.Store.ListJobs(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(jobs)
}
