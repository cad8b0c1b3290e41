package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/video-baker/internal/models"
)

// New returns an fiber.App exposing the view-state.
// Clients long-poll "/wait" to follow changes.
func New(pollTimeout time.Duration, st State) *fiber.App {
	stateCtr := stateController{
		pollTimeout: pollTimeout,
		state:       st,
	}

	app := fiber.New()

	app.Get("/", stateCtr.current)
	app.Get("/wait", stateCtr.wait)

	return app
}

// NewAdmin returns an fiber.App with the registry admin.
func NewAdmin(st State) *fiber.App {
	stateCtr := stateController{
		state: st,
	}

	app := fiber.New()

	app.Get("/", stateCtr.admin)

	return app
}

type stateController struct {
	pollTimeout time.Duration
	state       State
}

type State interface {
	State() models.ViewState
	WaitAfter(ctx context.Context, revision uint64) (models.ViewState, error)
}

func (stateCtr *stateController) current(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"state": stateCtr.state.State(),
	})
}

// wait blocks until the state revision exceeds "after".
// No change within the poll timeout gives 204.
func (stateCtr *stateController) wait(c *fiber.Ctx) error {
	after, err := strconv.ParseUint(c.Query("after", "0"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad revision",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), stateCtr.pollTimeout)
	defer cancel()

	st, err := stateCtr.state.WaitAfter(ctx, after)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"state": st,
	})
}

func (stateCtr *stateController) admin(c *fiber.Ctx) error {
	st := stateCtr.state.State()

	if !st.Bound {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "registry is not bound",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"admin":   st.Admin,
		"isAdmin": st.IsAdmin(),
	})
}
