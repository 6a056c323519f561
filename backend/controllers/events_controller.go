package controllers

import (
	"tms/backend/config"
	"tms/backend/models"
	"tms/backend/store"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type EventsController struct {
	Store store.RemoteStore
	Cfg   *config.Config
}

func NewEventsController(st store.RemoteStore, cfg *config.Config) *EventsController {
	return &EventsController{Store: st, Cfg: cfg}
}

func (ec *EventsController) ListEvents(c *fiber.Ctx) error {
	events, err := ec.Store.ListEvents(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(events)
}

func (ec *EventsController) CreateEvent(c *fiber.Ctx) error {
	var draft models.CalendarEvent
	if err := c.BodyParser(&draft); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	created, err := ec.Store.CreateEvent(c.Context(), draft)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ec *EventsController) ReplaceEvent(c *fiber.Ctx) error {
	var event models.CalendarEvent
	if err := c.BodyParser(&event); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	event.ID = c.Params("id")

	updated, err := ec.Store.ReplaceEvent(c.Context(), event)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(updated)
}

func (ec *EventsController) DeleteEvent(c *fiber.Ctx) error {
	if err := ec.Store.DeleteEvent(c.Context(), c.Params("id")); err != nil {
		return storeError(c, err)
	}
	return utils.NoContent(c)
}
