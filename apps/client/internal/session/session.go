package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tractor-lite/apps/client/internal/api"
	"tractor-lite/card"
	"tractor-lite/tractor"
)

type Config struct {
	// SinglePlayer 单人桌：观察到第一份 waiting 快照时自动开局一次
	SinglePlayer bool
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Session 一次进桌会话。显式持有选择集合、对话框状态、轮询器和变更网关，
// 生命周期与进桌/离桌对齐：New 创建，Start 开始轮询，Close 拆除。
// 不做环境单例，测试和拆除都是确定性的。
type Session struct {
	svc     GameService
	gameID  string
	single  bool
	log     *zap.Logger
	state   *tableState
	sync    *TableSync
	gateway *Gateway

	runCtx context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	lastStatus tractor.Status
	haveStatus bool
	latchUsed  bool // 自动开局闩：整个会话只消耗一次，绝不复位
	terminated bool
}

func New(svc GameService, gameID string, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		svc:    svc,
		gameID: gameID,
		single: cfg.SinglePlayer,
		log:    logger,
		state:  newTableState(),
	}
	s.sync = NewTableSync(svc, gameID, SyncConfig{
		Interval: cfg.PollInterval,
		Logger:   logger,
		OnView:   s.applyView,
		OnError:  s.noteSyncError,
	})
	s.gateway = NewGateway(svc, gameID, s.state, s.sync.ForceRefresh, logger)
	return s
}

// Start 开始轮询。ctx 结束等价于 Close。
func (s *Session) Start(ctx context.Context) {
	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.sync.Start(s.runCtx)
}

// Close 离桌：停轮询，迟到的响应不再写入任何状态。
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.sync.Close()
}

// applyView 同步循环送来每一份新快照。本地状态的调整都是同步完成的，
// 唯一的网络副作用（自动开局）也在本函数内同步发出，保证每份快照
// 消化完之前不会有下一份进来。
func (s *Session) applyView(v tractor.TableView) {
	s.mu.Lock()
	statusChanged := !s.haveStatus || s.lastStatus != v.Status
	firstView := !s.haveStatus
	s.lastStatus = v.Status
	s.haveStatus = true

	fireStart := false
	if firstView && !s.latchUsed {
		// 闩在第一份快照上消耗掉：只有第一眼就是 waiting 才开局,
		// 之后哪怕回到 waiting（重开一局）也不再自动触发
		s.latchUsed = true
		fireStart = s.single && v.Status == tractor.StatusWaiting
	}
	s.mu.Unlock()

	s.state.applyView(v.MyHand.Count(), v.Status, statusChanged)

	if fireStart {
		s.log.Info("auto-starting single player table", zap.String("game_id", s.gameID))
		if err := s.gateway.StartSingle(s.runCtx); err != nil {
			s.noteActionError(err)
			s.log.Warn("auto start failed", zap.Error(err))
		}
	}
}

func (s *Session) noteSyncError(err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.markTerminated()
	}
}

func (s *Session) noteActionError(err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.markTerminated()
	}
}

func (s *Session) markTerminated() {
	s.mu.Lock()
	s.terminated = true
	s.mu.Unlock()
}

// Terminated 凭证失效后为真：本会话救不回来，调用方应当带用户重新登录。
func (s *Session) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// ---- 快照与诊断 ----

func (s *Session) View() (tractor.TableView, bool) { return s.sync.View() }
func (s *Session) LastSyncErr() error              { return s.sync.LastErr() }
func (s *Session) Refresh()                        { s.sync.ForceRefresh() }

// ---- 选择集合 ----

func (s *Session) ToggleCard(index int) bool { return s.state.toggle(index) }
func (s *Session) ClearSelection()           { s.state.clearSelection() }
func (s *Session) SelectAll()                { s.state.selectAll() }
func (s *Session) SelectionIndices() []int   { return s.state.selectionIndices() }
func (s *Session) SelectionSize() int        { return s.state.selectionSize() }

// ---- 对话框 ----

func (s *Session) Dialog() tractor.Dialog { return s.state.dialog() }
func (s *Session) DismissDialog()         { s.state.dismissDialog() }
func (s *Session) ReopenDialog()          { s.state.reopenDialog() }

// ---- 变更（均委托 Gateway，凭证失效同时标记会话终止） ----

func (s *Session) Gateway() *Gateway { return s.gateway }

func (s *Session) do(err error) error {
	if err != nil {
		s.noteActionError(err)
	}
	return err
}

func (s *Session) StartMatch(ctx context.Context) error { return s.do(s.gateway.StartMatch(ctx)) }
func (s *Session) Join(ctx context.Context) error       { return s.do(s.gateway.Join(ctx)) }
func (s *Session) AIPlay(ctx context.Context) error     { return s.do(s.gateway.AIPlay(ctx)) }
func (s *Session) PlayCards(ctx context.Context) error  { return s.do(s.gateway.PlayCards(ctx)) }
func (s *Session) Discard(ctx context.Context) error    { return s.do(s.gateway.Discard(ctx)) }
func (s *Session) FlipBottom(ctx context.Context) error { return s.do(s.gateway.FlipBottom(ctx)) }

func (s *Session) CallDealer(ctx context.Context, suit card.Suit) error {
	return s.do(s.gateway.CallDealer(ctx, suit))
}

func (s *Session) CallFriend(ctx context.Context, suit card.Suit, value card.Value, position int) error {
	return s.do(s.gateway.CallFriend(ctx, suit, value, position))
}
