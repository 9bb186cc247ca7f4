package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// DatasetFingerprint identifies a dataset by its column names and cell contents
type DatasetFingerprint Hash

func (f DatasetFingerprint) String() string { return Hash(f).String() }

// ComputeDatasetFingerprint hashes columns in order and every cell rendered with %v.
// Missing cells hash as an empty field so {a:nil} and {a:""} collide on purpose.
func ComputeDatasetFingerprint(columns []string, cells func(row int, column string) any, rowCount int) DatasetFingerprint {
	var data strings.Builder
	data.WriteString(strings.Join(columns, "\x1f"))
	data.WriteByte('\x1e')
	for i := 0; i < rowCount; i++ {
		for j, col := range columns {
			if j > 0 {
				data.WriteByte('\x1f')
			}
			if v := cells(i, col); v != nil {
				data.WriteString(fmt.Sprintf("%v", v))
			}
		}
		data.WriteByte('\x1e')
	}
	return DatasetFingerprint(NewHash([]byte(data.String())))
}
