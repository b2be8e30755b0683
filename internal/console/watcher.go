package console

import (
	"context"
	"sort"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"
)

// ポーリング間隔。コンソールが前面のときは短く、裏では長く。
const (
	DefaultForegroundInterval = 10 * time.Second
	DefaultBackgroundInterval = 60 * time.Second
)

// 注文一覧の取得元。HTTP越しでも直接usecaseでもよい。
type Source interface {
	FetchOrders(ctx context.Context) ([]usecase.OrderOutput, error)
}

// 警告音の開始/停止。StopはStartしていなくても安全に呼べること。
type Alerter interface {
	Start()
	Stop()
}

type Config struct {
	ForegroundInterval time.Duration
	BackgroundInterval time.Duration
}

// Watcher は注文一覧をポーリングして、PENDINGがある間だけ警告を鳴らす。
// ポーリングは1ゴルーチンで直列。前回のマージが終わるまで次は始まらない。
type Watcher struct {
	source  Source
	alerter Alerter
	cfg     Config

	mu         sync.Mutex
	orders     []usecase.OrderOutput
	index      map[string]int
	alerting   bool
	lastErr    error
	foreground bool

	//間隔変更を即時反映するための起床シグナル
	wake chan struct{}
}

func NewWatcher(source Source, alerter Alerter, cfg Config) *Watcher {
	if cfg.ForegroundInterval <= 0 {
		cfg.ForegroundInterval = DefaultForegroundInterval
	}
	if cfg.BackgroundInterval <= 0 {
		cfg.BackgroundInterval = DefaultBackgroundInterval
	}
	return &Watcher{
		source:     source,
		alerter:    alerter,
		cfg:        cfg,
		index:      map[string]int{},
		foreground: true,
		wake:       make(chan struct{}, 1),
	}
}

// Run はctxが閉じるまでポーリングし続ける。
// 終了時には必ず警告音を止める。
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.alerting = false
		w.mu.Unlock()
		w.alerter.Stop()
	}()

	//起動直後に1回取る
	w.PollOnce(ctx)

	for {
		timer := time.NewTimer(w.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.wake:
			timer.Stop()
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}
		w.PollOnce(ctx)
	}
}

// PollOnce は1回分の取得とマージ。
// 失敗しても手元の一覧は消さない（lastErrに残すだけ）。
func (w *Watcher) PollOnce(ctx context.Context) {
	fetched, err := w.source.FetchOrders(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.lastErr = err
		w.recomputeAlertLocked()
		return
	}

	w.lastErr = nil
	for _, o := range fetched {
		w.mergeLocked(o)
	}
	w.sortLocked()
	w.recomputeAlertLocked()
}

// ApplyLocal はコンソール自身の遷移結果を即時反映する。
// 次のポーリングを待たずに警告条件を再評価する。
func (w *Watcher) ApplyLocal(o usecase.OrderOutput) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mergeLocked(o)
	w.sortLocked()
	w.recomputeAlertLocked()
}

// SetForeground は表示状態に応じてポーリング間隔を切り替える。
func (w *Watcher) SetForeground(v bool) {
	w.mu.Lock()
	changed := w.foreground != v
	w.foreground = v
	w.mu.Unlock()

	if changed {
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

// Orders は現在の一覧のコピーを返す。
func (w *Watcher) Orders() []usecase.OrderOutput {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]usecase.OrderOutput, len(w.orders))
	copy(out, w.orders)
	return out
}

// Alerting は警告中かどうかを返す。
func (w *Watcher) Alerting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerting
}

// LastErr は直近のポーリング失敗。成功すればnilに戻る。
func (w *Watcher) LastErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Watcher) interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.foreground {
		return w.cfg.ForegroundInterval
	}
	return w.cfg.BackgroundInterval
}

// 既存IDは置き換え、新しいIDは追加。
func (w *Watcher) mergeLocked(o usecase.OrderOutput) {
	if i, ok := w.index[o.ID]; ok {
		w.orders[i] = o
		return
	}
	w.orders = append(w.orders, o)
	w.index[o.ID] = len(w.orders) - 1
}

// 作成日時の降順。
func (w *Watcher) sortLocked() {
	sort.SliceStable(w.orders, func(i, j int) bool {
		return w.orders[i].CreatedAt.After(w.orders[j].CreatedAt)
	})
	for i := range w.orders {
		w.index[w.orders[i].ID] = i
	}
}

// 警告条件は「PENDINGが1件でもあるか」の純関数。
// 毎回のポーリングとローカル遷移で再評価する。
func (w *Watcher) recomputeAlertLocked() {
	pending := false
	for _, o := range w.orders {
		if o.Status == string(model.OrderStatusPending) {
			pending = true
			break
		}
	}

	if pending && !w.alerting {
		w.alerter.Start()
	}
	if !pending && w.alerting {
		w.alerter.Stop()
	}
	w.alerting = pending
}
