package layer

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestSetLogger(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	l := zap.NewExample()
	SetLogger(l)
	if Logger() != l {
		t.Fatal("SetLogger did not replace the logger")
	}
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("nil logger was not replaced by a no-op")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(zap.NewNop())
		}()
		go func() {
			defer wg.Done()
			if Logger() == nil {
				t.Error("Logger returned nil")
			}
		}()
	}
	wg.Wait()
}
