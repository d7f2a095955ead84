// Package goroutine launches background work that must not crash the process.
package goroutine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/figures-analytics/figures/internal/shared/logger"
)

// SafeGo runs fn in a goroutine and logs a panic instead of propagating it.
// When wg is non-nil it is marked done once fn returns.
func SafeGo(log logger.Interface, wg *sync.WaitGroup, name string, fn func()) {
	if wg != nil {
		wg.Add(1)
	}
	go func() {
		defer func() {
			if wg != nil {
				wg.Done()
			}
		}()
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
