package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Digest returns a short blake3 fingerprint of data, used to correlate log
// lines about the same upload without logging its content.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
