package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"tractor-lite/card"
	"tractor-lite/tractor"
)

// fakeService 可编排的远端服务替身。tableFn 按第几次拉取返回快照，
// 其余操作记录调用并返回预置错误。
type fakeService struct {
	mu         sync.Mutex
	tableFn    func(call int) (tractor.TableView, error)
	tableCalls int
	calls      []string
	errs       map[string]error

	lastCallDealerSuit    card.Suit
	lastCallDealerIndices []int
	lastDiscardIndices    []int
	lastPlayIndices       []int
	lastCallFriend        [3]string

	blockPlay chan struct{} // 非 nil 时 Play 阻塞到该通道关闭
}

func newFakeService(tableFn func(call int) (tractor.TableView, error)) *fakeService {
	return &fakeService{tableFn: tableFn, errs: make(map[string]error)}
}

func (f *fakeService) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeService) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) Table(ctx context.Context, gameID string) (tractor.TableView, error) {
	f.mu.Lock()
	f.tableCalls++
	call := f.tableCalls
	fn := f.tableFn
	f.mu.Unlock()
	if fn == nil {
		return tractor.TableView{}, nil
	}
	return fn(call)
}

func (f *fakeService) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tableCalls
}

func (f *fakeService) Start(ctx context.Context, gameID string) error { return f.record("start") }

func (f *fakeService) StartSingle(ctx context.Context, gameID string) error {
	return f.record("start_single")
}

func (f *fakeService) Join(ctx context.Context, gameID string) error { return f.record("join") }

func (f *fakeService) CallDealer(ctx context.Context, gameID string, suit card.Suit, cardIndices []int) error {
	f.mu.Lock()
	f.lastCallDealerSuit = suit
	f.lastCallDealerIndices = append([]int(nil), cardIndices...)
	f.mu.Unlock()
	return f.record("call_dealer")
}

func (f *fakeService) FlipBottom(ctx context.Context, gameID string) error {
	return f.record("flip_bottom")
}

func (f *fakeService) Discard(ctx context.Context, gameID string, cardIndices []int) error {
	f.mu.Lock()
	f.lastDiscardIndices = append([]int(nil), cardIndices...)
	f.mu.Unlock()
	return f.record("discard")
}

func (f *fakeService) CallFriend(ctx context.Context, gameID string, suit card.Suit, value card.Value, position int) error {
	f.mu.Lock()
	f.lastCallFriend = [3]string{suit.Wire(), value.Wire(), ""}
	f.mu.Unlock()
	return f.record("call_friend")
}

func (f *fakeService) Play(ctx context.Context, gameID string, cardIndices []int) error {
	f.mu.Lock()
	block := f.blockPlay
	f.lastPlayIndices = append([]int(nil), cardIndices...)
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.record("play")
}

func (f *fakeService) AIPlay(ctx context.Context, gameID string) error { return f.record("ai_play") }

// viewWith 造一份指定阶段、指定手牌数的快照
func viewWith(status tractor.Status, handSize int) tractor.TableView {
	v := tractor.TableView{Status: status, GameID: "g1"}
	for i := 0; i < handSize; i++ {
		v.MyHand = append(v.MyHand, card.Card{Suit: card.Spade, Value: card.Value2})
	}
	return v
}

// waitFor 轮询断言，避免 sleep 竞态
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
