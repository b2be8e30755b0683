package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

// テスト用の固定レスポンスSource
type stubSource struct {
	mu     sync.Mutex
	orders []usecase.OrderOutput
	err    error
}

func (s *stubSource) set(orders []usecase.OrderOutput, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.err = err
}

func (s *stubSource) FetchOrders(ctx context.Context) ([]usecase.OrderOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]usecase.OrderOutput, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// Start/Stop回数を数えるAlerter
type countingAlerter struct {
	mu     sync.Mutex
	starts int
	stops  int
}

func (a *countingAlerter) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
}

func (a *countingAlerter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
}

func (a *countingAlerter) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.starts, a.stops
}

func order(id, status string, createdAt time.Time) usecase.OrderOutput {
	return usecase.OrderOutput{ID: id, Status: status, CreatedAt: createdAt}
}

func newTestWatcher(src Source, al Alerter) *Watcher {
	return NewWatcher(src, al, Config{
		ForegroundInterval: 10 * time.Millisecond,
		BackgroundInterval: 50 * time.Millisecond,
	})
}

// 同じ集合を2回取り込んでも一覧は増えないし順序も変わらない
func TestPollOnce_MergeIsIdempotent(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	src.set([]usecase.OrderOutput{
		order("a", "PENDING", base.Add(2*time.Minute)),
		order("b", "CONFIRMED", base.Add(1*time.Minute)),
		order("c", "DELIVERED", base),
	}, nil)

	w := newTestWatcher(src, &countingAlerter{})

	w.PollOnce(context.Background())
	first := w.Orders()

	w.PollOnce(context.Background())
	second := w.Orders()

	assert.Len(t, second, 3)
	assert.Equal(t, first, second)
	//新しい順
	assert.Equal(t, "a", second[0].ID)
	assert.Equal(t, "b", second[1].ID)
	assert.Equal(t, "c", second[2].ID)
}

func TestPollOnce_StatusUpdateReplacesInPlace(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	src.set([]usecase.OrderOutput{order("a", "PENDING", base)}, nil)

	w := newTestWatcher(src, &countingAlerter{})
	w.PollOnce(context.Background())

	src.set([]usecase.OrderOutput{order("a", "CONFIRMED", base)}, nil)
	w.PollOnce(context.Background())

	got := w.Orders()
	assert.Len(t, got, 1)
	assert.Equal(t, "CONFIRMED", got[0].Status)
}

// PENDINGが1件でもあれば鳴る。なくなれば次の評価で止まる。
func TestAlert_StartsOnPendingStopsWhenCleared(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	al := &countingAlerter{}
	w := newTestWatcher(src, al)

	src.set([]usecase.OrderOutput{order("a", "PENDING", base)}, nil)
	w.PollOnce(context.Background())
	assert.True(t, w.Alerting())

	//鳴っている間に再ポーリングしてもStartは重ねない
	w.PollOnce(context.Background())
	starts, _ := al.counts()
	assert.Equal(t, 1, starts)

	src.set([]usecase.OrderOutput{order("a", "CANCELLED", base)}, nil)
	w.PollOnce(context.Background())
	assert.False(t, w.Alerting())
	_, stops := al.counts()
	assert.Equal(t, 1, stops)
}

// ローカル遷移は次のポーリングを待たずに警告条件へ反映される
func TestApplyLocal_RecomputesAlertImmediately(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	al := &countingAlerter{}
	w := newTestWatcher(src, al)

	src.set([]usecase.OrderOutput{order("a", "PENDING", base)}, nil)
	w.PollOnce(context.Background())
	assert.True(t, w.Alerting())

	w.ApplyLocal(order("a", "CONFIRMED", base))
	assert.False(t, w.Alerting())
	assert.Equal(t, "CONFIRMED", w.Orders()[0].Status)
}

// ポーリングが失敗しても手元の一覧は保たれる
func TestPollOnce_FailureKeepsOrders(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	w := newTestWatcher(src, &countingAlerter{})

	src.set([]usecase.OrderOutput{order("a", "PENDING", base)}, nil)
	w.PollOnce(context.Background())

	src.set(nil, errors.New("network down"))
	w.PollOnce(context.Background())

	assert.Len(t, w.Orders(), 1)
	assert.Error(t, w.LastErr())
	//直前の一覧にPENDINGが残っているので警告は続く
	assert.True(t, w.Alerting())

	src.set([]usecase.OrderOutput{order("a", "CONFIRMED", base)}, nil)
	w.PollOnce(context.Background())
	assert.NoError(t, w.LastErr())
}

// Run終了時はPENDINGが残っていても必ず音を止める
func TestRun_TeardownStopsAlerter(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	src := &stubSource{}
	src.set([]usecase.OrderOutput{order("a", "PENDING", base)}, nil)

	al := &countingAlerter{}
	w := newTestWatcher(src, al)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	//最初のポーリングで鳴り始めるのを待つ
	deadline := time.After(2 * time.Second)
	for !w.Alerting() {
		select {
		case <-deadline:
			t.Fatal("alert did not start")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit")
	}

	assert.False(t, w.Alerting())
	_, stops := al.counts()
	assert.GreaterOrEqual(t, stops, 1)
}
