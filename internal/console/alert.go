package console

import (
	"io"
	"sync"
	"time"
)

// 端末ベルを鳴らし続けるAlerter。
// Stopされるまで一定間隔でBELを書く。
type BellAlerter struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewBellAlerter(w io.Writer, interval time.Duration) *BellAlerter {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &BellAlerter{w: w, interval: interval}
}

func (a *BellAlerter) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	//すでに鳴っていれば何もしない
	if a.stop != nil {
		return
	}

	stop := make(chan struct{})
	a.stop = stop

	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		//即時に1回
		a.w.Write([]byte("\a"))

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.w.Write([]byte("\a"))
			}
		}
	}()
}

func (a *BellAlerter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stop == nil {
		return
	}
	close(a.stop)
	a.stop = nil
}
