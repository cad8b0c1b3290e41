package reply

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
)

// Error writes err with the status matching its failure kind.
func Error(c *fiber.Ctx, err error) error {
	kind := service.KindOf(err)

	return c.Status(Status(kind)).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  kind,
	})
}

func Status(kind models.FailureKind) int {
	switch kind {
	case models.KindValidation:
		return fiber.StatusBadRequest
	case models.KindAuthorizationDenied:
		return fiber.StatusUnauthorized
	case models.KindNotFound:
		return fiber.StatusNotFound
	case models.KindNoSession:
		return fiber.StatusConflict
	case models.KindNetworkRead, models.KindTransaction:
		return fiber.StatusBadGateway
	case models.KindProviderUnavailable:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
