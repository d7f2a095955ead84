package goroutine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/figures-analytics/figures/internal/shared/logger"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	ran := false

	SafeGo(logger.NewNop(), &wg, "panicking", func() { panic("boom") })
	SafeGo(logger.NewNop(), &wg, "normal", func() { ran = true })
	wg.Wait()

	assert.True(t, ran)
}
