package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	routerApp "github.com/GintGld/video-baker/internal/app/router"
	"github.com/GintGld/video-baker/internal/client/chain"
	"github.com/GintGld/video-baker/internal/config"
	"github.com/GintGld/video-baker/internal/lib/logger/sl"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/storage/sqlite"
	"github.com/GintGld/video-baker/internal/wallet"
)

type App struct {
	Router  routerApp.App
	storage *sqlite.Storage
	client  *ethclient.Client
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	secret []byte,
) *App {
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancel()

	client, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		log.Error("failed to dial rpc", slog.String("url", cfg.RPCURL), sl.Err(err))
		os.Exit(1)
	}

	if !common.IsHexAddress(cfg.RegistryAddress) || !common.IsHexAddress(cfg.TokenAddress) {
		log.Error("invalid contract address",
			slog.String("registry", cfg.RegistryAddress),
			slog.String("token", cfg.TokenAddress),
		)
		os.Exit(1)
	}

	registry, err := chain.NewRegistry(common.HexToAddress(cfg.RegistryAddress), client, cfg.ReceiptTimeout)
	if err != nil {
		log.Error("failed to bind registry", sl.Err(err))
		os.Exit(1)
	}

	token, err := chain.NewToken(common.HexToAddress(cfg.TokenAddress), client, cfg.ReceiptTimeout)
	if err != nil {
		log.Error("failed to bind token", sl.Err(err))
		os.Exit(1)
	}

	voteFee, err := models.ParseUnits(cfg.VoteFee, cfg.Decimals)
	if err != nil {
		log.Error("invalid vote fee", slog.String("fee", cfg.VoteFee), sl.Err(err))
		os.Exit(1)
	}

	keystore := wallet.New(
		log,
		cfg.KeystoreDir,
		cfg.Account,
		cfg.ChainID,
	)

	routerApp := routerApp.New(
		log,
		storage,
		registry,
		token,
		keystore,
		cfg.HTTPServer.Address,
		cfg.HTTPServer.Timeout,
		cfg.HTTPServer.IddleTimeout,
		cfg.HTTPServer.Timeout+cfg.ReceiptTimeout,
		cfg.HTTPServer.Timeout+2*cfg.ReceiptTimeout,
		cfg.TokenTTL,
		secret,
		cfg.Decimals,
		voteFee,
		cfg.MaxInFlight,
		cfg.MaxVideos,
		cfg.Partial,
		cfg.Probe.Enabled,
		cfg.Probe.Timeout,
	)

	return &App{
		Router:  *routerApp,
		storage: storage,
		client:  client,
	}
}

// Connect opens wallet session with passphrase.
// The bounded context covers the initial list load.
func (a *App) Connect(passphrase string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return a.Router.Connect(ctx, passphrase)
}

func (a *App) Stop() {
	a.Router.Stop()
	a.client.Close()
	a.storage.Stop()
}
