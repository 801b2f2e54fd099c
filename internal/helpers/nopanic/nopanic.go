package nopanic

import (
	"time"

	"github.com/lattesec/log"
)

const rerunDelay = 1 * time.Second

func run[T any](name string, rerun bool, fn func() T) T {
	for {
		out, panicked := guard(name, fn)
		if !panicked || !rerun {
			return out
		}
		time.Sleep(rerunDelay)
	}
}

func guard[T any](name string, fn func() T) (out T, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				WithMeta("scope", "nopanic").
				Msgf("panic in %s: %v", name, r).
				Send()
			panicked = true
		}
	}()

	return fn(), false
}

func NoPanicRun[T any](name string, fn func() T) T {
	return run(name, false, fn)
}

func NoPanicRunVoid(name string, fn func()) {
	run(name, false, func() any {
		fn()
		return nil
	})
}

func NoPanicReRun[T any](name string, fn func() T) T {
	return run(name, true, fn)
}

func NoPanicReRunVoid(name string, fn func()) {
	run(name, true, func() any {
		fn()
		return nil
	})
}
