package id

import (
	cryptoRand "crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader = ulid.Monotonic(cryptoRand.Reader, 0)
)

// New returns a ULID string. IDs minted within the same millisecond
// stay lexicographically increasing, so journal rows ordered by id are
// ordered by creation time.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), mono).String()
}
