package router

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/video-baker/internal/client/chain"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/storage/sqlite"
	"github.com/GintGld/video-baker/internal/store"
	"github.com/GintGld/video-baker/internal/wallet"

	actionsSrv "github.com/GintGld/video-baker/internal/service/actions"
	jwtSrv "github.com/GintGld/video-baker/internal/service/jwt"
	probeSrv "github.com/GintGld/video-baker/internal/service/probe"
	sessionSrv "github.com/GintGld/video-baker/internal/service/session"
	videosSrv "github.com/GintGld/video-baker/internal/service/videos"

	jwtCtr "github.com/GintGld/video-baker/internal/controller/jwt"
	sessionCtr "github.com/GintGld/video-baker/internal/controller/session"
	stateCtr "github.com/GintGld/video-baker/internal/controller/state"
	txsCtr "github.com/GintGld/video-baker/internal/controller/txs"
	videosCtr "github.com/GintGld/video-baker/internal/controller/videos"
)

type App struct {
	log     *slog.Logger
	address string
	app     *fiber.App
	session *sessionSrv.Session
}

// New returns configured router.App
func New(
	log *slog.Logger,
	storage *sqlite.Storage,
	registry *chain.Registry,
	token *chain.Token,
	keystore *wallet.Keystore,
	address string,
	timeout time.Duration,
	idleTimeout time.Duration,
	txTimeout time.Duration,
	voteTimeout time.Duration,
	tokenTTL time.Duration,
	secret []byte,
	decimals int,
	voteFee *big.Int,
	maxInFlight int,
	maxVideos uint64,
	partial bool,
	probeEnabled bool,
	probeTimeout time.Duration,
) *App {
	st := store.New(models.ViewState{})

	// Create sevices
	jwt := jwtSrv.New(secret)

	videos := videosSrv.New(
		log,
		registry,
		st,
		maxInFlight,
		maxVideos,
		partial,
	)

	session := sessionSrv.New(
		log,
		keystore,
		token,
		videos,
		st,
		registry.Address(),
		token.Address(),
		decimals,
	)

	probe := probeSrv.New(
		log,
		probeEnabled,
		probeTimeout,
	)

	actions := actionsSrv.New(
		log,
		registry,
		token,
		session,
		videos,
		session,
		storage,
		probe,
		st,
		registry.Address(),
		voteFee,
	)

	// Create controller helper
	jwtCtr := jwtCtr.New(secret, session)

	app := fiber.New(fiber.Config{
		IdleTimeout: idleTimeout,
	})

	// Mount controllers to an app
	app.Mount("/session", sessionCtr.New(timeout, tokenTTL, session, st, jwt, jwtCtr))
	app.Mount("/state", stateCtr.New(timeout, st))
	app.Mount("/admin", stateCtr.NewAdmin(st))
	app.Mount("/videos", videosCtr.New(timeout, txTimeout, voteTimeout, videos, actions, jwtCtr))
	app.Mount("/txs", txsCtr.New(timeout, storage, session, jwtCtr))

	return &App{
		log:     log,
		address: address,
		app:     app,
		session: session,
	}
}

// Connect establishes wallet session on start.
func (a *App) Connect(ctx context.Context, passphrase string) error {
	_, err := a.session.Connect(ctx, passphrase)
	return err
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	return a.app.Listen(a.address)
}

func (a *App) Stop() {
	a.app.Shutdown()
}
