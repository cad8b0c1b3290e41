package txs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"

	jwtController "github.com/GintGld/video-baker/internal/controller/jwt"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/storage"
)

const defaultLimit = 50

// New returns an fiber.App with the transaction journal
// of the connected account.
func New(
	timeout time.Duration,
	journal Journal,
	sessions jwtController.SessionReader,
	jwtC *jwtController.JWT,
) *fiber.App {
	txsCtr := txsController{
		timeout:  timeout,
		journal:  journal,
		sessions: sessions,
	}

	app := fiber.New()

	app.Get("/", jwtC.AuthRequired(), txsCtr.txs)
	app.Get("/dangling", jwtC.AuthRequired(), txsCtr.dangling)
	app.Get("/:id", jwtC.AuthRequired(), txsCtr.tx)

	return app
}

type txsController struct {
	timeout  time.Duration
	journal  Journal
	sessions jwtController.SessionReader
}

type Journal interface {
	Txs(ctx context.Context, account common.Address, limit int) ([]models.TxRecord, error)
	Tx(ctx context.Context, id int64) (models.TxRecord, error)
	Dangling(ctx context.Context) ([]models.TxRecord, error)
}

func (txsCtr *txsController) txs(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), txsCtr.timeout)
	defer cancel()

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad limit",
		})
	}

	txs, err := txsCtr.journal.Txs(ctx, txsCtr.sessions.Current().Address, limit)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"txs": txs,
	})
}

// dangling returns approvals of the connected
// account that were never spent by a vote.
func (txsCtr *txsController) dangling(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), txsCtr.timeout)
	defer cancel()

	all, err := txsCtr.journal.Dangling(ctx)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	account := txsCtr.sessions.Current().Address

	txs := make([]models.TxRecord, 0, len(all))
	for _, tx := range all {
		if tx.Account == account {
			txs = append(txs, tx)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"txs": txs,
	})
}

// tx returns single journal entry. Entries of other
// accounts are reported as missing.
func (txsCtr *txsController) tx(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), txsCtr.timeout)
	defer cancel()

	tx, err := txsCtr.journal.Tx(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrTxNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "tx not found",
			})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if tx.Account != txsCtr.sessions.Current().Address {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "tx not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tx": tx,
	})
}
