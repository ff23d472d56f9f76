package badger

import (
	"fmt"

	"github.com/playlistlab/crate/core"
)

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent"
)

// makeVectorKey generates a key for a cached vector entry by content hash.
func makeVectorKey(key core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorEntryPrefix, key))
}
