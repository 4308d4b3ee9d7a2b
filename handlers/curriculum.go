// handlers/curriculum.go - Curriculum Catalog Endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetModules lists active modules with their topics
// GET /api/modules
func GetModules(c *fiber.Ctx) error {
	modules, err := curriculumService.ListModules()
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"modules": modules,
	})
}

// GetModuleTopics lists one module's topics
// GET /api/modules/:id/topics
func GetModuleTopics(c *fiber.Ctx) error {
	module, err := curriculumService.GetModule(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	topics, err := curriculumService.TopicsForModule(module.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"module":  module,
		"topics":  topics,
	})
}
