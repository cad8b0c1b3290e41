package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/models"
)

// Registry is a handle to the video registry contract.
type Registry struct {
	binding
}

func NewRegistry(address common.Address, backend Backend, receiptTimeout time.Duration) (*Registry, error) {
	return newRegistry(address, backend, backend, backend, receiptTimeout)
}

func newRegistry(
	address common.Address,
	caller bind.ContractCaller,
	transactor bind.ContractTransactor,
	deployer bind.DeployBackend,
	receiptTimeout time.Duration,
) (*Registry, error) {
	const op = "chain.NewRegistry"

	b, err := newBinding(address, registryABI, caller, transactor, deployer, receiptTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Registry{binding: b}, nil
}

// VideosLength returns number of stored videos.
func (r *Registry) VideosLength(ctx context.Context) (uint64, error) {
	const op = "chain.Registry.VideosLength"

	out, err := r.call(ctx, "getVideosLength")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := uint64Out(out, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// Video reads video record with given index.
func (r *Registry) Video(ctx context.Context, index uint64) (models.Video, error) {
	const op = "chain.Registry.Video"

	out, err := r.call(ctx, "getVideos", new(big.Int).SetUint64(index))
	if err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	video, err := decodeVideo(index, out)
	if err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

// ContractOwner returns registry admin address.
func (r *Registry) ContractOwner(ctx context.Context) (common.Address, error) {
	const op = "chain.Registry.ContractOwner"

	out, err := r.call(ctx, "getContractOwner")
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	owner, err := addressOut(out, 0)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	return owner, nil
}

func (r *Registry) AddVideo(ctx context.Context, opts *bind.TransactOpts, link, title, description string) (models.Receipt, error) {
	const op = "chain.Registry.AddVideo"

	receipt, err := r.transact(ctx, opts, "addVideo", link, title, description)
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", op, err)
	}

	return receipt, nil
}

func (r *Registry) LikeVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error) {
	return r.indexed(ctx, opts, "chain.Registry.LikeVideo", "likeVideo", index)
}

func (r *Registry) DislikeVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error) {
	return r.indexed(ctx, opts, "chain.Registry.DislikeVideo", "dislikeVideo", index)
}

func (r *Registry) VerifyVideo(ctx context.Context, opts *bind.TransactOpts, index uint64) (models.Receipt, error) {
	return r.indexed(ctx, opts, "chain.Registry.VerifyVideo", "verifyVideo", index)
}

func (r *Registry) indexed(ctx context.Context, opts *bind.TransactOpts, op, method string, index uint64) (models.Receipt, error) {
	receipt, err := r.transact(ctx, opts, method, new(big.Int).SetUint64(index))
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", op, err)
	}

	return receipt, nil
}

// decodeVideo converts positional getVideos output:
// owner, link, title, description, likes, dislikes, verified, timestamp.
func decodeVideo(index uint64, out []any) (models.Video, error) {
	if len(out) != 8 {
		return models.Video{}, ErrUnexpectedOutput
	}

	owner, err := addressOut(out, 0)
	if err != nil {
		return models.Video{}, err
	}

	var texts [3]string
	for i := range texts {
		s, ok := out[i+1].(string)
		if !ok {
			return models.Video{}, ErrUnexpectedOutput
		}
		texts[i] = s
	}

	likes, err := uint64Out(out, 4)
	if err != nil {
		return models.Video{}, err
	}
	dislikes, err := uint64Out(out, 5)
	if err != nil {
		return models.Video{}, err
	}

	verified, ok := out[6].(bool)
	if !ok {
		return models.Video{}, ErrUnexpectedOutput
	}

	ts, err := bigOut(out, 7)
	if err != nil {
		return models.Video{}, err
	}
	if !ts.IsInt64() {
		return models.Video{}, ErrUnexpectedOutput
	}

	return models.Video{
		Index:       index,
		Owner:       owner,
		Link:        texts[0],
		Title:       texts[1],
		Description: texts[2],
		Likes:       likes,
		Dislikes:    dislikes,
		Verified:    verified,
		CreatedAt:   time.Unix(ts.Int64(), 0).UTC(),
	}, nil
}
