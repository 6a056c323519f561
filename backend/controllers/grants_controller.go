package controllers

import (
	"tms/backend/config"
	"tms/backend/models"
	"tms/backend/store"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type GrantsController struct {
	Store store.RemoteStore
	Cfg   *config.Config
}

func NewGrantsController(st store.RemoteStore, cfg *config.Config) *GrantsController {
	return &GrantsController{Store: st, Cfg: cfg}
}

func (gc *GrantsController) ListGrants(c *fiber.Ctx) error {
	grants, err := gc.Store.ListGrants(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(grants)
}

func (gc *GrantsController) CreateGrant(c *fiber.Ctx) error {
	var draft models.GrantApplication
	if err := c.BodyParser(&draft); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	created, err := gc.Store.CreateGrant(c.Context(), draft)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// SetGrantStatus approves or rejects one application.
func (gc *GrantsController) SetGrantStatus(c *fiber.Ctx) error {
	var input struct {
		Status models.ClaimStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	grant, err := gc.Store.SetGrantStatus(c.Context(), c.Params("id"), input.Status)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(grant)
}
