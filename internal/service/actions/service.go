package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/lib/logger/sl"
	ptr "github.com/GintGld/video-baker/internal/lib/utils/pointers"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
	"github.com/GintGld/video-baker/internal/store"
)

type Actions struct {
	log      *slog.Logger
	registry Registry
	token    Token
	signer   Signer
	videos   Refresher
	balance  BalanceRefresher
	journal  Journal
	prober   Prober
	store    *store.Store
	spender  common.Address
	fee      *big.Int
}

type Registry interface {
	AddVideo(ctx context.Context, opts *bind.TransactOpts, link, title, description string) (models.Receipt, error)
	LikeVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error)
	DislikeVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error)
	VerifyVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error)
}

type Token interface {
	Approve(ctx context.Context, opts *bind.TransactOpts, spender common.Address, amount *big.Int) (models.Receipt, error)
}

type Signer interface {
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type BalanceRefresher interface {
	RefreshBalance(ctx context.Context) error
}

type Journal interface {
	SaveTx(ctx context.Context, tx models.TxRecord) (int64, error)
	UpdateTx(ctx context.Context, id int64, status models.TxStatus, hash *common.Hash, errMsg string) error
}

type Prober interface {
	Probe(ctx context.Context, link string) error
}

// New returns actions service. Votes approve fee
// tokens to spender before voting.
func New(
	log *slog.Logger,
	registry Registry,
	token Token,
	signer Signer,
	videos Refresher,
	balance BalanceRefresher,
	journal Journal,
	prober Prober,
	store *store.Store,
	spender common.Address,
	fee *big.Int,
) *Actions {
	return &Actions{
		log:      log,
		registry: registry,
		token:    token,
		signer:   signer,
		videos:   videos,
		balance:  balance,
		journal:  journal,
		prober:   prober,
		store:    store,
		spender:  spender,
		fee:      new(big.Int).Set(fee),
	}
}

// SubmitVideo adds video to the registry.
func (a *Actions) SubmitVideo(ctx context.Context, video models.VideoIn) (models.Receipt, error) {
	const op = "Actions.SubmitVideo"

	log := a.log.With(
		slog.String("op", op),
	)

	// fields are sent as entered, blank ones are rejected
	link := strings.TrimSpace(video.Link)

	if link == "" || strings.TrimSpace(video.Title) == "" || strings.TrimSpace(video.Description) == "" {
		log.Debug("empty video fields")
		return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w: all fields are required", op, service.ErrValidation))
	}

	opts, err := a.signer.TransactOpts(ctx)
	if err != nil {
		log.Warn("no signer", sl.Err(err))
		return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w", op, err))
	}

	if a.prober != nil {
		if err := a.prober.Probe(ctx, link); err != nil {
			log.Warn("link probe failed", slog.String("link", link), sl.Err(err))
			return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w", op, err))
		}
	}

	_, receipt, err := a.send(ctx, opts, models.TxAdd, nil, func() (models.Receipt, error) {
		return a.registry.AddVideo(ctx, opts, video.Link, video.Title, video.Description)
	})
	if err != nil {
		log.Error("failed to add video", sl.Err(err))
		return receipt, a.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrTransaction, err))
	}

	log.Info("video added", slog.String("tx", receipt.TxHash.Hex()))

	a.afterSuccess(ctx)

	return receipt, nil
}

// LikeVideo approves vote fee and likes video.
func (a *Actions) LikeVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	return a.vote(ctx, "Actions.LikeVideo", models.TxLike, index, a.registry.LikeVideo)
}

// DislikeVideo approves vote fee and dislikes video.
func (a *Actions) DislikeVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	return a.vote(ctx, "Actions.DislikeVideo", models.TxDislike, index, a.registry.DislikeVideo)
}

// VerifyVideo marks video verified. Only the registry
// owner succeeds, the check is left to the contract.
func (a *Actions) VerifyVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	const op = "Actions.VerifyVideo"

	log := a.log.With(
		slog.String("op", op),
		slog.Uint64("index", index),
	)

	opts, err := a.signer.TransactOpts(ctx)
	if err != nil {
		log.Warn("no signer", sl.Err(err))
		return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w", op, err))
	}

	_, receipt, err := a.send(ctx, opts, models.TxVerify, ptr.Pointer(index), func() (models.Receipt, error) {
		return a.registry.VerifyVideo(ctx, opts, index)
	})
	if err != nil {
		log.Error("failed to verify video", sl.Err(err))
		return receipt, a.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrTransaction, err))
	}

	log.Info("video verified", slog.String("tx", receipt.TxHash.Hex()))

	a.afterSuccess(ctx)

	return receipt, nil
}

type voteFunc func(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error)

func (a *Actions) vote(ctx context.Context, op string, kind models.TxKind, index uint64, fn voteFunc) (models.Receipt, error) {
	log := a.log.With(
		slog.String("op", op),
		slog.Uint64("index", index),
	)

	opts, err := a.signer.TransactOpts(ctx)
	if err != nil {
		log.Warn("no signer", sl.Err(err))
		return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w", op, err))
	}

	approveID, _, err := a.send(ctx, opts, models.TxApprove, ptr.Pointer(index), func() (models.Receipt, error) {
		return a.token.Approve(ctx, opts, a.spender, a.fee)
	})
	if err != nil {
		log.Error("failed to approve vote fee", sl.Err(err))
		return models.Receipt{}, a.fail(op, fmt.Errorf("%s: %w: approve: %w", op, service.ErrTransaction, err))
	}

	_, receipt, err := a.send(ctx, opts, kind, ptr.Pointer(index), func() (models.Receipt, error) {
		return fn(ctx, opts, index)
	})
	if err != nil {
		log.Warn("vote failed after approval, allowance left granted", slog.Int64("approve_tx", approveID), sl.Err(err))
		if approveID != 0 {
			if jerr := a.journal.UpdateTx(ctx, approveID, models.TxDangling, nil, err.Error()); jerr != nil {
				log.Error("failed to mark approval dangling", sl.Err(jerr))
			}
		}
		return receipt, a.fail(op, fmt.Errorf("%s: %w: %w", op, service.ErrTransaction, err))
	}

	log.Info("vote sent", slog.String("kind", string(kind)), slog.String("tx", receipt.TxHash.Hex()))

	a.afterSuccess(ctx)

	return receipt, nil
}

// send journals transaction as pending, runs it and records
// the outcome. Journal errors are only logged, zero id means
// the transaction was not journaled.
func (a *Actions) send(
	ctx context.Context,
	opts *bind.TransactOpts,
	kind models.TxKind,
	index *uint64,
	fn func() (models.Receipt, error),
) (int64, models.Receipt, error) {
	const op = "Actions.send"

	log := a.log.With(
		slog.String("op", op),
		slog.String("kind", string(kind)),
	)

	txID, err := a.journal.SaveTx(ctx, models.TxRecord{
		Account:    opts.From,
		Kind:       kind,
		VideoIndex: index,
		Status:     models.TxPending,
	})
	if err != nil {
		log.Error("failed to journal transaction", sl.Err(err))
	}

	receipt, txErr := fn()

	var hash *common.Hash
	if receipt.TxHash != (common.Hash{}) {
		hash = ptr.Pointer(receipt.TxHash)
	}

	status, msg := models.TxConfirmed, ""
	if txErr != nil {
		status, msg = models.TxFailed, txErr.Error()
	}

	if txID != 0 {
		if err := a.journal.UpdateTx(ctx, txID, status, hash, msg); err != nil {
			log.Error("failed to update journal", sl.Err(err))
		}
	}

	return txID, receipt, txErr
}

// afterSuccess clears the previous failure, then reloads
// the list once and the balance. Their failures are
// recorded in the view-state again.
func (a *Actions) afterSuccess(ctx context.Context) {
	const op = "Actions.afterSuccess"

	log := a.log.With(
		slog.String("op", op),
	)

	a.store.Dispatch(store.FailureCleared{})

	if err := a.videos.Refresh(ctx); err != nil {
		log.Warn("failed to refresh videos", sl.Err(err))
	}
	if err := a.balance.RefreshBalance(ctx); err != nil && !errors.Is(err, service.ErrNoSession) {
		log.Warn("failed to refresh balance", sl.Err(err))
	}
}

func (a *Actions) fail(op string, err error) error {
	a.store.Dispatch(store.Failed{Failure: service.Failure(op, err)})
	return err
}
