package controllers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// decodeParam returns the unescaped path parameter. Learner emails arrive
// percent-encoded in the URL.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
