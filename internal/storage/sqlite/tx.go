package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	ptr "github.com/GintGld/video-baker/internal/lib/utils/pointers"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/storage"
)

const txColumns = "id, account, kind, video_index, hash, status, error, created_at, updated_at"

// SaveTx journals new transaction and returns its id.
func (s *Storage) SaveTx(ctx context.Context, tx models.TxRecord) (int64, error) {
	const op = "storage.sqlite.SaveTx"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO txs(account, kind, video_index, hash, status, error, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var hash *string
	if tx.Hash != nil {
		hash = ptr.Pointer(tx.Hash.Hex())
	}

	now := time.Now().UnixMilli()

	res, err := stmt.ExecContext(ctx,
		tx.Account.Hex(),
		string(tx.Kind),
		tx.VideoIndex,
		hash,
		string(tx.Status),
		tx.Error,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateTx sets transaction status. Nil hash keeps the stored one.
func (s *Storage) UpdateTx(ctx context.Context, id int64, status models.TxStatus, hash *common.Hash, errMsg string) error {
	const op = "storage.sqlite.UpdateTx"

	var h *string
	if hash != nil {
		h = ptr.Pointer(hash.Hex())
	}

	stmt, err := s.db.PrepareContext(ctx, `
		UPDATE txs SET status = ?, hash = COALESCE(?, hash), error = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, string(status), h, errMsg, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affectedRows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affectedRows == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTxNotFound)
	}

	return nil
}

// Tx returns transaction by id.
func (s *Storage) Tx(ctx context.Context, id int64) (models.TxRecord, error) {
	const op = "storage.sqlite.Tx"

	stmt, err := s.db.PrepareContext(ctx, "SELECT "+txColumns+" FROM txs WHERE id = ?")
	if err != nil {
		return models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	tx, err := scanTx(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TxRecord{}, fmt.Errorf("%s: %w", op, storage.ErrTxNotFound)
		}

		return models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return tx, nil
}

// Txs returns account transactions, newest first.
func (s *Storage) Txs(ctx context.Context, account common.Address, limit int) ([]models.TxRecord, error) {
	const op = "storage.sqlite.Txs"

	if limit <= 0 {
		limit = -1
	}

	return s.queryTxs(ctx, op,
		"SELECT "+txColumns+" FROM txs WHERE account = ? ORDER BY id DESC LIMIT ?",
		account.Hex(), limit,
	)
}

// Dangling returns approvals whose vote never went through.
func (s *Storage) Dangling(ctx context.Context) ([]models.TxRecord, error) {
	const op = "storage.sqlite.Dangling"

	return s.queryTxs(ctx, op,
		"SELECT "+txColumns+" FROM txs WHERE status = ? ORDER BY id DESC",
		string(models.TxDangling),
	)
}

func (s *Storage) queryTxs(ctx context.Context, op, query string, args ...any) ([]models.TxRecord, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return []models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return []models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]models.TxRecord, 0)
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return []models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, tx)
	}
	if err := rows.Err(); err != nil {
		return []models.TxRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTx(row scanner) (models.TxRecord, error) {
	var (
		tx                   models.TxRecord
		account, kind        string
		status               string
		index                sql.NullInt64
		hash                 sql.NullString
		createdMs, updatedMs int64
	)

	if err := row.Scan(&tx.ID, &account, &kind, &index, &hash, &status, &tx.Error, &createdMs, &updatedMs); err != nil {
		return models.TxRecord{}, err
	}

	tx.Account = common.HexToAddress(account)
	tx.Kind = models.TxKind(kind)
	tx.Status = models.TxStatus(status)
	if index.Valid {
		tx.VideoIndex = ptr.Pointer(uint64(index.Int64))
	}
	if hash.Valid {
		tx.Hash = ptr.Pointer(common.HexToHash(hash.String))
	}
	tx.CreatedAt = time.UnixMilli(createdMs)
	tx.UpdatedAt = time.UnixMilli(updatedMs)

	return tx, nil
}
