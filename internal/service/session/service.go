package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/lib/logger/sl"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
	"github.com/GintGld/video-baker/internal/store"
	"github.com/GintGld/video-baker/internal/wallet"
)

type Session struct {
	log      *slog.Logger
	wallet   Wallet
	balances BalanceReader
	loader   Loader
	store    *store.Store
	registry common.Address
	token    common.Address
	decimals int
}

type Wallet interface {
	Detect() error
	Enable(ctx context.Context, passphrase string) ([]common.Address, error)
	TransactOpts(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	Lock(account common.Address) error
}

type BalanceReader interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
}

// Loader reads contract state once the registry is bound.
type Loader interface {
	Refresh(ctx context.Context) error
	LoadAdmin(ctx context.Context) error
}

func New(
	log *slog.Logger,
	wallet Wallet,
	balances BalanceReader,
	loader Loader,
	store *store.Store,
	registry common.Address,
	token common.Address,
	decimals int,
) *Session {
	return &Session{
		log:      log,
		wallet:   wallet,
		balances: balances,
		loader:   loader,
		store:    store,
		registry: registry,
		token:    token,
		decimals: decimals,
	}
}

// Connect authorizes wallet account, binds it as the signing
// account and loads balance, videos and admin.
//
// If the session was established but loading failed,
// returns the session together with the load error.
func (s *Session) Connect(ctx context.Context, passphrase string) (models.Session, error) {
	const op = "Session.Connect"

	log := s.log.With(
		slog.String("op", op),
	)

	log.Info("connecting wallet")

	if err := s.wallet.Detect(); err != nil {
		log.Error("wallet provider not found", sl.Err(err))
		return models.Session{}, s.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrProviderUnavailable, err))
	}

	accounts, err := s.wallet.Enable(ctx, passphrase)
	if err != nil {
		if errors.Is(err, wallet.ErrDecrypt) || errors.Is(err, wallet.ErrAccountNotFound) {
			log.Warn("authorization denied", sl.Err(err))
			return models.Session{}, s.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrAuthorizationDenied, err))
		}
		log.Error("failed to enable wallet", sl.Err(err))
		return models.Session{}, s.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrProviderUnavailable, err))
	}
	if len(accounts) == 0 {
		log.Error("wallet returned no accounts")
		return models.Session{}, s.fail(op, fmt.Errorf("%s: %w", op, service.ErrAuthorizationDenied))
	}

	sess := models.Session{
		Address:   accounts[0],
		Connected: true,
	}

	s.store.Dispatch(store.SessionEstablished{Session: sess})
	s.store.Dispatch(store.FailureCleared{})

	log.Info("session established", slog.String("address", sess.Address.Hex()))

	if err := s.load(ctx); err != nil {
		return sess, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

// Disconnect locks the account and drops the session.
func (s *Session) Disconnect(_ context.Context) error {
	const op = "Session.Disconnect"

	log := s.log.With(
		slog.String("op", op),
	)

	st := s.store.State()
	if !st.Session.Connected {
		return fmt.Errorf("%s: %w", op, service.ErrNoSession)
	}

	if err := s.wallet.Lock(st.Session.Address); err != nil {
		log.Error("failed to lock account", sl.Err(err))
	}

	s.store.Dispatch(store.SessionClosed{})

	log.Info("session closed", slog.String("address", st.Session.Address.Hex()))

	return nil
}

// Current returns current session.
func (s *Session) Current() models.Session {
	return s.store.State().Session
}

// TransactOpts returns signer of the session account.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	const op = "Session.TransactOpts"

	sess := s.Current()
	if !sess.Connected {
		return nil, fmt.Errorf("%s: %w", op, service.ErrNoSession)
	}

	opts, err := s.wallet.TransactOpts(ctx, sess.Address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, service.ErrNoSession, err)
	}

	return opts, nil
}

// RefreshBalance reads the token balance of the session account.
func (s *Session) RefreshBalance(ctx context.Context) error {
	const op = "Session.RefreshBalance"

	log := s.log.With(
		slog.String("op", op),
	)

	sess := s.Current()
	if !sess.Connected {
		return fmt.Errorf("%s: %w", op, service.ErrNoSession)
	}

	raw, err := s.balances.BalanceOf(ctx, sess.Address)
	if err != nil {
		log.Error("failed to read balance", sl.Err(err))
		return s.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrNetworkRead, err))
	}

	balance := models.NewBalance(raw, s.decimals)
	s.store.Dispatch(store.BalanceLoaded{Balance: balance})

	log.Debug("balance loaded", slog.String("balance", balance.String()))

	return nil
}

// load reads balance, binds registry and
// loads registry state.
func (s *Session) load(ctx context.Context) error {
	const op = "Session.load"

	log := s.log.With(
		slog.String("op", op),
	)

	balanceErr := s.RefreshBalance(ctx)

	s.store.Dispatch(store.ContractBound{
		Registry: s.registry,
		Token:    s.token,
	})

	log.Info("registry bound", slog.String("registry", s.registry.Hex()))

	return errors.Join(
		balanceErr,
		s.loader.Refresh(ctx),
		s.loader.LoadAdmin(ctx),
	)
}

func (s *Session) fail(op string, err error) error {
	s.store.Dispatch(store.Failed{Failure: service.Failure(op, err)})
	return err
}
