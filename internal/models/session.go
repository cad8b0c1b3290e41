package models

import "github.com/ethereum/go-ethereum/common"

type Session struct {
	Address   common.Address `json:"address"`
	Connected bool           `json:"connected"`
}

// Receipt is a confirmation of a mined transaction.
type Receipt struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
	GasUsed     uint64      `json:"gasUsed"`
}
