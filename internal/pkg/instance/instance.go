package instance

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

var (
	id   string
	once sync.Once
)

// ID is the process-stable identifier for this edge instance. It is minted
// on first use and never changes for the lifetime of the process.
func ID() string {
	once.Do(func() {
		id = ulid.Make().String()
	})

	return id
}
