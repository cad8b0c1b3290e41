package wallet_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/video-baker/internal/lib/logger/slogdiscard"
	"github.com/GintGld/video-baker/internal/wallet"
)

const pass = "correct horse"

func newKeystore(t *testing.T, accounts int) string {
	t.Helper()

	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	for i := 0; i < accounts; i++ {
		_, err := ks.NewAccount(pass)
		require.NoError(t, err)
	}

	return dir
}

func TestDetect(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()

	w := wallet.New(log, filepath.Join(t.TempDir(), "missing"), "", 44787)
	require.ErrorIs(t, w.Detect(), wallet.ErrNoKeystore)

	w = wallet.New(log, newKeystore(t, 0), "", 44787)
	require.ErrorIs(t, w.Detect(), wallet.ErrNoAccounts)

	w = wallet.New(log, newKeystore(t, 1), "", 44787)
	require.NoError(t, w.Detect())
}

func TestEnable(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()
	ctx := context.Background()

	w := wallet.New(log, newKeystore(t, 2), "", 44787)

	_, err := w.Enable(ctx, "wrong")
	require.ErrorIs(t, err, wallet.ErrDecrypt)

	accounts, err := w.Enable(ctx, pass)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	opts, err := w.TransactOpts(ctx, accounts[0])
	require.NoError(t, err)
	assert.Equal(t, accounts[0], opts.From)

	_, err = w.TransactOpts(ctx, accounts[1])
	require.ErrorIs(t, err, wallet.ErrLocked)

	require.NoError(t, w.Lock(accounts[0]))
	_, err = w.TransactOpts(ctx, accounts[0])
	require.ErrorIs(t, err, wallet.ErrLocked)
}

func TestEnableUnknownAccount(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()

	w := wallet.New(log, newKeystore(t, 1), "0x00000000000000000000000000000000000000ff", 44787)

	_, err := w.Enable(context.Background(), pass)
	require.ErrorIs(t, err, wallet.ErrAccountNotFound)
}
