package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"tractor-lite/card"
)

// GameService 远端服务中牌桌会话用到的操作面
type GameService interface {
	TableFetcher
	Start(ctx context.Context, gameID string) error
	StartSingle(ctx context.Context, gameID string) error
	Join(ctx context.Context, gameID string) error
	CallDealer(ctx context.Context, gameID string, suit card.Suit, cardIndices []int) error
	FlipBottom(ctx context.Context, gameID string) error
	Discard(ctx context.Context, gameID string, cardIndices []int) error
	CallFriend(ctx context.Context, gameID string, suit card.Suit, value card.Value, position int) error
	Play(ctx context.Context, gameID string, cardIndices []int) error
	AIPlay(ctx context.Context, gameID string) error
}

// ActionKind 玩家意图的种类。同种意图同一时刻至多一个在途。
type ActionKind byte

const (
	ActionStart ActionKind = iota
	ActionStartSingle
	ActionJoin
	ActionCallDealer
	ActionFlipBottom
	ActionDiscard
	ActionCallFriend
	ActionPlay
	ActionAIPlay
)

var ActionKindDictionary = map[ActionKind]string{
	ActionStart:       "start",
	ActionStartSingle: "start_single",
	ActionJoin:        "join",
	ActionCallDealer:  "call_dealer",
	ActionFlipBottom:  "flip_bottom",
	ActionDiscard:     "discard",
	ActionCallFriend:  "call_friend",
	ActionPlay:        "play",
	ActionAIPlay:      "ai_play",
}

func (k ActionKind) String() string {
	if s, ok := ActionKindDictionary[k]; ok {
		return s
	}
	return "?"
}

// 扣底牌固定七张
const discardCount = 7

var (
	// ErrActionPending 同种变更还在途，本次提交被客户端丢弃（不排队不顶替）
	ErrActionPending = errors.New("action of this kind already in flight")
	// ErrEmptySelection 空选择没有提交意义，不发请求
	ErrEmptySelection = errors.New("no cards selected")
	// ErrDiscardCount 扣牌必须恰好七张
	ErrDiscardCount = errors.New("discard requires exactly 7 selected cards")
)

// Gateway 提交玩家意图。成功路径的副作用顺序固定：
// 清掉被消费的选择 → 关掉发起操作的对话框 → 触发强制刷新。
// 失败则只记录该种类的错误信息，选择原样保留以便改完重交。
type Gateway struct {
	svc     GameService
	gameID  string
	state   *tableState
	refresh func()
	log     *zap.Logger

	mu      sync.Mutex
	pending map[ActionKind]bool
	errs    map[ActionKind]string
}

func NewGateway(svc GameService, gameID string, state *tableState, refresh func(), logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if refresh == nil {
		refresh = func() {}
	}
	return &Gateway{
		svc:     svc,
		gameID:  gameID,
		state:   state,
		refresh: refresh,
		log:     logger,
		pending: make(map[ActionKind]bool),
		errs:    make(map[ActionKind]string),
	}
}

// Pending 该种类是否有在途变更。
func (g *Gateway) Pending(kind ActionKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[kind]
}

// Err 该种类最近一次失败的文案，新提交时清空。
func (g *Gateway) Err(kind ActionKind) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs[kind]
}

func (g *Gateway) begin(kind ActionKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[kind] {
		return false
	}
	g.pending[kind] = true
	delete(g.errs, kind)
	return true
}

func (g *Gateway) finish(kind ActionKind, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending[kind] = false
	if err != nil {
		g.errs[kind] = err.Error()
	}
}

// submit 走一遍完整的提交流程。consumedSelection 标记该操作消费了选择集合。
func (g *Gateway) submit(kind ActionKind, consumedSelection bool, send func() error) error {
	if !g.begin(kind) {
		return ErrActionPending
	}
	err := send()
	g.finish(kind, err)
	if err != nil {
		g.log.Debug("mutation rejected", zap.String("kind", kind.String()), zap.Error(err))
		return err
	}
	// 本地清理在前，刷新在后
	g.state.completeMutation(consumedSelection)
	g.refresh()
	return nil
}

func (g *Gateway) StartMatch(ctx context.Context) error {
	return g.submit(ActionStart, false, func() error {
		return g.svc.Start(ctx, g.gameID)
	})
}

func (g *Gateway) StartSingle(ctx context.Context) error {
	return g.submit(ActionStartSingle, false, func() error {
		return g.svc.StartSingle(ctx, g.gameID)
	})
}

func (g *Gateway) Join(ctx context.Context) error {
	return g.submit(ActionJoin, false, func() error {
		return g.svc.Join(ctx, g.gameID)
	})
}

// CallDealer 叫庄：主花色加当前选中的押牌下标。
func (g *Gateway) CallDealer(ctx context.Context, suit card.Suit) error {
	indices := g.state.selectionIndices()
	return g.submit(ActionCallDealer, true, func() error {
		return g.svc.CallDealer(ctx, g.gameID, suit, indices)
	})
}

func (g *Gateway) FlipBottom(ctx context.Context) error {
	return g.submit(ActionFlipBottom, false, func() error {
		return g.svc.FlipBottom(ctx, g.gameID)
	})
}

// Discard 扣底牌：选择必须恰好七张，否则不发请求。
func (g *Gateway) Discard(ctx context.Context) error {
	indices := g.state.selectionIndices()
	if len(indices) != discardCount {
		return ErrDiscardCount
	}
	return g.submit(ActionDiscard, true, func() error {
		return g.svc.Discard(ctx, g.gameID, indices)
	})
}

// CallFriend 叫朋友：不消费选择集合，只关对话框。
func (g *Gateway) CallFriend(ctx context.Context, suit card.Suit, value card.Value, position int) error {
	return g.submit(ActionCallFriend, false, func() error {
		return g.svc.CallFriend(ctx, g.gameID, suit, value, position)
	})
}

// PlayCards 出牌：空选择在客户端直接拒绝。
func (g *Gateway) PlayCards(ctx context.Context) error {
	indices := g.state.selectionIndices()
	if len(indices) == 0 {
		return ErrEmptySelection
	}
	return g.submit(ActionPlay, true, func() error {
		return g.svc.Play(ctx, g.gameID, indices)
	})
}

// AIPlay 请求替当前玩家自动出一手。
func (g *Gateway) AIPlay(ctx context.Context) error {
	return g.submit(ActionAIPlay, false, func() error {
		return g.svc.AIPlay(ctx, g.gameID)
	})
}
