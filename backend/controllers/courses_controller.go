package controllers

import (
	"errors"

	"tms/backend/config"
	"tms/backend/models"
	"tms/backend/store"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Store store.RemoteStore
	Cfg   *config.Config
}

func NewCoursesController(st store.RemoteStore, cfg *config.Config) *CoursesController {
	return &CoursesController{Store: st, Cfg: cfg}
}

// storeError maps store failures to HTTP responses: missing ids and nested
// keys become 404, everything else 500.
func storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFound(c, err.Error())
	}
	return utils.InternalServerError(c, err.Error())
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Store.ListCourses(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(courses)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var draft models.Course
	if err := c.BodyParser(&draft); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	created, err := cc.Store.CreateCourse(c.Context(), draft)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (cc *CoursesController) ReplaceCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course.ID = c.Params("id")

	updated, err := cc.Store.ReplaceCourse(c.Context(), course)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(updated)
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	if err := cc.Store.DeleteCourse(c.Context(), c.Params("id")); err != nil {
		return storeError(c, err)
	}
	return utils.NoContent(c)
}

func (cc *CoursesController) ToggleBookmark(c *fiber.Ctx) error {
	course, err := cc.Store.ToggleBookmark(c.Context(), c.Params("id"), c.Params("subtopicId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) ToggleCompletion(c *fiber.Ctx) error {
	email, err := decodeParam(c, "email")
	if err != nil {
		return utils.BadRequest(c, "Invalid email parameter")
	}
	course, err := cc.Store.ToggleCompletion(c.Context(), c.Params("id"), email, c.Params("subtopicId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) SetGrade(c *fiber.Ctx) error {
	email, err := decodeParam(c, "email")
	if err != nil {
		return utils.BadRequest(c, "Invalid email parameter")
	}

	var input struct {
		Status models.GradeStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := cc.Store.SetGrade(c.Context(), c.Params("id"), email, c.Params("assessmentId"), input.Status)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) SetAllGrades(c *fiber.Ctx) error {
	email, err := decodeParam(c, "email")
	if err != nil {
		return utils.BadRequest(c, "Invalid email parameter")
	}

	var input struct {
		Status models.GradeStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := cc.Store.SetAllGrades(c.Context(), c.Params("id"), email, input.Status)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) SetAssessmentState(c *fiber.Ctx) error {
	var input struct {
		Status     models.AssessmentState `json:"status"`
		AccessCode string                 `json:"access_code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := cc.Store.SetAssessmentState(c.Context(), c.Params("id"), c.Params("assessmentId"), input.Status, input.AccessCode)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) RecordSubmission(c *fiber.Ctx) error {
	email, err := decodeParam(c, "email")
	if err != nil {
		return utils.BadRequest(c, "Invalid email parameter")
	}

	var input struct {
		Filename string `json:"filename"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Filename == "" {
		return utils.BadRequest(c, "Missing filename")
	}

	course, err := cc.Store.RecordSubmission(c.Context(), c.Params("id"), email, c.Params("assessmentId"), input.Filename)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) ReplaceLearner(c *fiber.Ctx) error {
	email, err := decodeParam(c, "email")
	if err != nil {
		return utils.BadRequest(c, "Invalid email parameter")
	}

	var rec models.LearnerEnrollment
	if err := c.BodyParser(&rec); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := cc.Store.ReplaceLearner(c.Context(), c.Params("id"), email, rec)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(course)
}
