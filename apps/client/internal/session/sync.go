package session

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tractor-lite/apps/client/internal/api"
	"tractor-lite/tractor"
)

// DefaultPollInterval 浏览牌桌期间的轮询周期
const DefaultPollInterval = 3 * time.Second

// TableFetcher 拉取牌桌快照的那部分远端能力
type TableFetcher interface {
	Table(ctx context.Context, gameID string) (tractor.TableView, error)
}

type SyncConfig struct {
	Interval time.Duration
	Logger   *zap.Logger

	// OnView 每次成功拿到新快照时在同步循环里调用
	OnView func(tractor.TableView)
	// OnError 每次拉取失败时调用，含终局错误
	OnError func(error)
}

// TableSync 轮询远端并维护最近一次成功的快照。
//
// 失败的轮询不追加重试：下一个周期本身就是重试。上一份快照保留，
// 只把错误标记出来（旧数据好过没数据）。ForceRefresh 在变更成功后
// 立刻拉一次，不等下一个 tick。
type TableSync struct {
	fetch    TableFetcher
	gameID   string
	interval time.Duration
	log      *zap.Logger
	onView   func(tractor.TableView)
	onError  func(error)

	refreshCh chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
	started   bool

	mu      sync.Mutex
	view    *tractor.TableView
	lastErr error
}

func NewTableSync(fetch TableFetcher, gameID string, cfg SyncConfig) *TableSync {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableSync{
		fetch:     fetch,
		gameID:    gameID,
		interval:  interval,
		log:       logger,
		onView:    cfg.OnView,
		onError:   cfg.OnError,
		refreshCh: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start 启动轮询。没有牌桌 ID 时整体停用，不发任何请求。
func (s *TableSync) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	if s.gameID == "" {
		close(s.done)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx)
}

func (s *TableSync) run(ctx context.Context) {
	defer close(s.done)

	// 进桌立即拉一次，其后按周期
	if !s.poll(ctx) {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.refreshCh:
		}
		if !s.poll(ctx) {
			return
		}
	}
}

// poll 返回 false 表示轮询应当终止。
func (s *TableSync) poll(ctx context.Context) bool {
	view, err := s.fetch.Table(ctx, s.gameID)

	// 视图已拆除：迟到的响应直接丢弃，绝不写入
	if ctx.Err() != nil {
		return false
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		if s.onError != nil {
			s.onError(err)
		}
		switch {
		case errors.Is(err, api.ErrGameNotFound):
			s.log.Warn("table vanished, polling stopped", zap.String("game_id", s.gameID))
			return false
		case errors.Is(err, api.ErrUnauthorized):
			s.log.Warn("credential rejected, polling stopped", zap.String("game_id", s.gameID))
			return false
		}
		s.log.Debug("poll failed, keeping stale view",
			zap.String("game_id", s.gameID), zap.Error(err))
		return true
	}

	s.mu.Lock()
	s.view = &view
	s.lastErr = nil
	s.mu.Unlock()
	if s.onView != nil {
		s.onView(view)
	}
	return true
}

// ForceRefresh 请求立刻刷新一次，与轮询定时器无关。非阻塞；
// 已经排了一次待刷新就合并。
func (s *TableSync) ForceRefresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

// View 最近一次成功的快照。
func (s *TableSync) View() (tractor.TableView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return tractor.TableView{}, false
	}
	return *s.view, true
}

// LastErr 最近一次轮询的错误；成功后清空。只作诊断展示，不阻塞界面。
func (s *TableSync) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close 停掉轮询并等待循环退出。
func (s *TableSync) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.started {
		<-s.done
	}
}

// PollIntervalFromEnv 可用环境变量覆盖轮询周期（秒）。
func PollIntervalFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("TRACTOR_POLL_INTERVAL_SEC"))
	if raw == "" {
		return DefaultPollInterval
	}
	sec, err := strconv.Atoi(raw)
	if err != nil || sec <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(sec) * time.Second
}
