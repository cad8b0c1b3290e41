package session

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	jwtController "github.com/GintGld/video-baker/internal/controller/jwt"
	"github.com/GintGld/video-baker/internal/controller/reply"
	"github.com/GintGld/video-baker/internal/models"
)

// New returns an fiber.App that connects
// the wallet and issues JWT for its account.
func New(
	timeout time.Duration,
	tokenTTL time.Duration,
	srv Session,
	state StateReader,
	tokens TokenIssuer,
	jwtC *jwtController.JWT,
) *fiber.App {
	sessionCtr := sessionController{
		timeout:  timeout,
		tokenTTL: tokenTTL,
		srv:      srv,
		state:    state,
		tokens:   tokens,
	}

	app := fiber.New()

	app.Post("/connect", sessionCtr.connect)
	app.Post("/disconnect", jwtC.AuthRequired(), sessionCtr.disconnect)
	app.Get("/", sessionCtr.session)

	return app
}

type sessionController struct {
	timeout  time.Duration
	tokenTTL time.Duration
	srv      Session
	state    StateReader
	tokens   TokenIssuer
}

type Session interface {
	Connect(ctx context.Context, passphrase string) (models.Session, error)
	Disconnect(ctx context.Context) error
}

type StateReader interface {
	State() models.ViewState
}

type TokenIssuer interface {
	NewToken(session models.Session, duration time.Duration) (string, error)
}

// connect authorizes the wallet. If the session was
// established but the initial load failed the token
// is still returned along with a warning.
func (sessionCtr *sessionController) connect(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCtr.timeout)
	defer cancel()

	form := new(struct {
		Passphrase string `json:"passphrase"`
	})

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	sess, err := sessionCtr.srv.Connect(ctx, form.Passphrase)
	if err != nil && !sess.Connected {
		return reply.Error(c, err)
	}

	token, tokenErr := sessionCtr.tokens.NewToken(sess, sessionCtr.tokenTTL)
	if tokenErr != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	resp := fiber.Map{
		"token":   token,
		"session": sess,
	}
	if err != nil {
		resp["warning"] = err.Error()
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (sessionCtr *sessionController) disconnect(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCtr.timeout)
	defer cancel()

	if err := sessionCtr.srv.Disconnect(ctx); err != nil {
		return reply.Error(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// session returns session with its balance and admin flag.
func (sessionCtr *sessionController) session(c *fiber.Ctx) error {
	st := sessionCtr.state.State()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"session": st.Session,
		"balance": st.Balance,
		"isAdmin": st.IsAdmin(),
	})
}
