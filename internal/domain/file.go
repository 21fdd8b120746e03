package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ContentHash is the hex SHA-256 of data. It keys the parse cache and is
// stored with recent files.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RecentFile is a document that was opened successfully.
type RecentFile struct {
	ID         int64     `json:"id"`
	Location   string    `json:"location"`
	Format     string    `json:"format"`
	Hash       string    `json:"hash"`
	Units      int       `json:"units"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	OpenedAt   time.Time `json:"opened_at"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
