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

// Token is a handle to the ERC-20 fee token.
type Token struct {
	binding
}

func NewToken(address common.Address, backend Backend, receiptTimeout time.Duration) (*Token, error) {
	return newToken(address, backend, backend, backend, receiptTimeout)
}

func newToken(
	address common.Address,
	caller bind.ContractCaller,
	transactor bind.ContractTransactor,
	deployer bind.DeployBackend,
	receiptTimeout time.Duration,
) (*Token, error) {
	const op = "chain.NewToken"

	b, err := newBinding(address, tokenABI, caller, transactor, deployer, receiptTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Token{binding: b}, nil
}

// BalanceOf returns owner balance in the smallest unit.
func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	const op = "chain.Token.BalanceOf"

	out, err := t.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	balance, err := bigOut(out, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return balance, nil
}

// Approve allows spender to transfer amount from the signer account.
func (t *Token) Approve(ctx context.Context, opts *bind.TransactOpts, spender common.Address, amount *big.Int) (models.Receipt, error) {
	const op = "chain.Token.Approve"

	receipt, err := t.transact(ctx, opts, "approve", spender, amount)
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", op, err)
	}

	return receipt, nil
}
