package postgres

import (
	"crypto/sha256"
	"encoding/hex"
)

type entityInsertModel struct {
	ID          string `db:"id"`
	Payload     string `db:"payload"`
	PayloadHash string `db:"payload_hash"`
}

type entityTableModel struct {
	ID      string `db:"id"`
	Payload []byte `db:"payload"`
}

func newEntityInsertModel(id string, payload []byte) entityInsertModel {
	return entityInsertModel{
		ID:          id,
		Payload:     string(payload),
		PayloadHash: payloadHash(payload),
	}
}

func payloadHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
