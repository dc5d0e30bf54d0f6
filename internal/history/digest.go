package history

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Digest returns the hex xxh3-128 digest of data, as stored in run_files.
func Digest(data []byte) string {
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}
