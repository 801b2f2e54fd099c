package cleanup

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/lattesec/slsock/internal/helpers/nopanic"
	"github.com/lattesec/slsock/pkg/log"
)

type CleanupFunc func() error

var (
	once sync.Once

	mu    sync.Mutex
	idGen uint64
	fns   = make(map[uint64]CleanupFunc)
)

// Register registers a cleanup function
// that is called on exit
func Register(fn CleanupFunc) uint64 {
	id := atomic.AddUint64(&idGen, 1)
	mu.Lock()
	fns[id] = fn
	mu.Unlock()
	return id
}

// RegisterCloser registers a closer to be closed on exit
func RegisterCloser(c io.Closer) uint64 {
	return Register(c.Close)
}

func Unregister(id uint64) {
	mu.Lock()
	delete(fns, id)
	mu.Unlock()
}

func RunCleanup() {
	mu.Lock()
	pending := make([]CleanupFunc, 0, len(fns))
	for _, fn := range fns {
		pending = append(pending, fn)
	}
	fns = make(map[uint64]CleanupFunc)
	atomic.StoreUint64(&idGen, 0)
	mu.Unlock()

	for i, fn := range pending {
		name := fmt.Sprintf("cleanup %d", i)
		if err := nopanic.NoPanicRun(name, fn); err != nil {
			log.Errorf("%s failed: %v", name, err)
		}
	}
}

// Listen blocks until SIGINT or SIGTERM, then runs all registered
// cleanup functions. Safe to call from multiple goroutines; only the
// first call waits.
func Listen() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		RunCleanup()
	})
}
