package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/GintGld/video-baker/internal/models"
)

var (
	ErrReverted         = errors.New("transaction reverted")
	ErrUnexpectedOutput = errors.New("unexpected contract output")
)

// Backend is an RPC connection able to call,
// send and confirm transactions.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	const op = "chain.Dial"

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

// binding is a contract handle shared by Registry and Token.
type binding struct {
	address        common.Address
	contract       *bind.BoundContract
	deployer       bind.DeployBackend
	receiptTimeout time.Duration
}

func newBinding(
	address common.Address,
	rawABI string,
	caller bind.ContractCaller,
	transactor bind.ContractTransactor,
	deployer bind.DeployBackend,
	receiptTimeout time.Duration,
) (binding, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return binding{}, err
	}

	return binding{
		address:        address,
		contract:       bind.NewBoundContract(address, parsed, caller, transactor, nil),
		deployer:       deployer,
		receiptTimeout: receiptTimeout,
	}, nil
}

// Address returns contract address.
func (b binding) Address() common.Address {
	return b.address
}

func (b binding) call(ctx context.Context, method string, params ...any) ([]any, error) {
	var out []any
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, err
	}
	return out, nil
}

// transact sends transaction and waits until it is mined.
func (b binding) transact(ctx context.Context, opts *bind.TransactOpts, method string, params ...any) (models.Receipt, error) {
	tx, err := b.contract.Transact(opts, method, params...)
	if err != nil {
		return models.Receipt{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, b.deployer, tx)
	if err != nil {
		return models.Receipt{TxHash: tx.Hash()}, err
	}

	out := models.Receipt{
		TxHash:  receipt.TxHash,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return out, ErrReverted
	}

	return out, nil
}

func bigOut(out []any, i int) (*big.Int, error) {
	if len(out) <= i {
		return nil, ErrUnexpectedOutput
	}
	v, ok := out[i].(*big.Int)
	if !ok || v == nil {
		return nil, ErrUnexpectedOutput
	}
	return v, nil
}

func uint64Out(out []any, i int) (uint64, error) {
	v, err := bigOut(out, i)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, ErrUnexpectedOutput
	}
	return v.Uint64(), nil
}

func addressOut(out []any, i int) (common.Address, error) {
	if len(out) <= i {
		return common.Address{}, ErrUnexpectedOutput
	}
	v, ok := out[i].(common.Address)
	if !ok {
		return common.Address{}, ErrUnexpectedOutput
	}
	return v, nil
}
