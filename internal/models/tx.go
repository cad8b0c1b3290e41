package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type TxKind string

const (
	TxApprove TxKind = "approve"
	TxAdd     TxKind = "add"
	TxLike    TxKind = "like"
	TxDislike TxKind = "dislike"
	TxVerify  TxKind = "verify"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
	// TxDangling marks an approval whose vote never went through,
	// so the allowance is still granted.
	TxDangling TxStatus = "dangling"
)

// TxRecord is a journal entry of a submitted transaction.
type TxRecord struct {
	ID         int64          `json:"id"`
	Account    common.Address `json:"account"`
	Kind       TxKind         `json:"kind"`
	VideoIndex *uint64        `json:"videoIndex,omitempty"`
	Hash       *common.Hash   `json:"hash,omitempty"`
	Status     TxStatus       `json:"status"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
