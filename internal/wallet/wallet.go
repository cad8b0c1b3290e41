package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/lib/logger/sl"
)

var (
	ErrNoKeystore      = errors.New("keystore not found")
	ErrNoAccounts      = errors.New("keystore has no accounts")
	ErrAccountNotFound = errors.New("account not found")
	ErrDecrypt         = errors.New("could not decrypt key with given passphrase")
	ErrLocked          = errors.New("account locked")
)

// Keystore is a wallet provider backed by
// a Web3 Secret Storage directory.
type Keystore struct {
	log     *slog.Logger
	dir     string
	account string
	chainID *big.Int
	ks      *keystore.KeyStore
}

// New returns keystore wallet. Account selects
// the signing account (hex), empty means the first one.
func New(
	log *slog.Logger,
	dir string,
	account string,
	chainID int64,
) *Keystore {
	return &Keystore{
		log:     log,
		dir:     dir,
		account: account,
		chainID: big.NewInt(chainID),
		ks:      keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP),
	}
}

// Detect checks that keystore directory exists and holds accounts.
func (k *Keystore) Detect() error {
	const op = "wallet.Keystore.Detect"

	info, err := os.Stat(k.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", op, ErrNoKeystore)
	}

	if len(k.ks.Accounts()) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoAccounts)
	}

	return nil
}

// Enable unlocks selected account and returns account list
// with the selected account first.
func (k *Keystore) Enable(_ context.Context, passphrase string) ([]common.Address, error) {
	const op = "wallet.Keystore.Enable"

	log := k.log.With(
		slog.String("op", op),
	)

	if err := k.Detect(); err != nil {
		return nil, err
	}

	acc, err := k.selected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := k.ks.Unlock(acc, passphrase); err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			log.Warn("wrong passphrase", slog.String("account", acc.Address.Hex()))
			return nil, fmt.Errorf("%s: %w", op, ErrDecrypt)
		}
		log.Error("failed to unlock account", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := []common.Address{acc.Address}
	for _, a := range k.ks.Accounts() {
		if a.Address != acc.Address {
			out = append(out, a.Address)
		}
	}

	log.Info("account unlocked", slog.String("account", acc.Address.Hex()))

	return out, nil
}

// TransactOpts returns signer for unlocked account.
func (k *Keystore) TransactOpts(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	const op = "wallet.Keystore.TransactOpts"

	acc, err := k.ks.Find(accounts.Account{Address: account})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}

	opts, err := bind.NewKeyStoreTransactorWithChainID(k.ks, acc, k.chainID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts.Context = ctx

	// Signing with a locked key fails only at send time,
	// so probe the key with a zero hash here.
	if _, err := k.ks.SignHash(acc, make([]byte, 32)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrLocked)
	}

	return opts, nil
}

// Lock drops decrypted key of account from memory.
func (k *Keystore) Lock(account common.Address) error {
	const op = "wallet.Keystore.Lock"

	if err := k.ks.Lock(account); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (k *Keystore) selected() (accounts.Account, error) {
	list := k.ks.Accounts()

	if k.account == "" {
		return list[0], nil
	}

	if !common.IsHexAddress(k.account) {
		return accounts.Account{}, ErrAccountNotFound
	}

	acc, err := k.ks.Find(accounts.Account{Address: common.HexToAddress(k.account)})
	if err != nil {
		return accounts.Account{}, ErrAccountNotFound
	}

	return acc, nil
}
