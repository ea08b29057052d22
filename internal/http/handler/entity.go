package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"repoapi/internal/appstate"
	"repoapi/internal/repository"
)

// GetByID serves one entity kind by the numeric :id path parameter.
//
// A malformed id is a 400, an absent record a 404, and a found record is rendered
// in full as JSON. The handler only knows the Repository capability, never the backend.
func GetByID[E any](repo repository.Repository[E], kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		e, ok := repo.Find(c.UserContext(), repository.ID(id))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", kind+" not found")
		}
		return c.JSON(e)
	}
}

// Mount resolves the repository for one kind from st through bind and
// registers GET /:id on r.
func Mount[E any](r fiber.Router, st *appstate.State, bind appstate.Binding[E], kind string) {
	r.Get("/:id", GetByID(bind(st), kind))
}
