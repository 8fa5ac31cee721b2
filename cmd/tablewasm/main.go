//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"tractor-lite/replay"
	"tractor-lite/tractor"
)

// 浏览器壳自己负责 fetch 轮询，这里只托管纯计算的部分：
// 快照归一化、选择集合、对话框状态和单人桌的自动开局闩。
// 单 goroutine 事件循环，不需要锁。
type tableState struct {
	single   bool
	armed    bool
	sel      *tractor.Selection
	dialogs  *tractor.DialogController
	status   tractor.Status
	hasView  bool
	lastSeen tractor.TableView
}

var state *tableState

type observeResponse struct {
	OK          bool   `json:"ok"`
	Status      string `json:"status,omitempty"`
	Dialog      string `json:"dialog,omitempty"`
	Selection   []int  `json:"selection,omitempty"`
	HandCount   int    `json:"handCount"`
	CurrentSeat int    `json:"currentSeat"`
	AutoStart   bool   `json:"autoStart,omitempty"`
	Error       string `json:"error,omitempty"`
}

type replayResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.Tape        `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__tableInit", js.FuncOf(func(this js.Value, args []js.Value) any {
		single := len(args) > 0 && args[0].Truthy()
		state = &tableState{
			single:  single,
			armed:   true,
			sel:     tractor.NewSelection(),
			dialogs: tractor.NewDialogController(),
		}
		return mustJSON(snapshot(false))
	}))

	js.Global().Set("__tableObserve", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state == nil || len(args) < 1 {
			return mustJSON(observeResponse{OK: false, Error: "call __tableInit first"})
		}
		return mustJSON(observe(args[0].String()))
	}))

	js.Global().Set("__tableToggle", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil && len(args) > 0 {
			state.sel.Toggle(args[0].Int())
		}
		return mustJSON(snapshot(false))
	}))
	js.Global().Set("__tableSelectAll", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil {
			state.sel.SelectAll()
		}
		return mustJSON(snapshot(false))
	}))
	js.Global().Set("__tableClear", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil {
			state.sel.Clear()
		}
		return mustJSON(snapshot(false))
	}))
	js.Global().Set("__tableDismiss", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil {
			state.dialogs.Dismiss()
		}
		return mustJSON(snapshot(false))
	}))
	js.Global().Set("__tableReopen", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil {
			state.dialogs.Reopen()
		}
		return mustJSON(snapshot(false))
	}))

	// 动作提交成功后壳层调用：清选择、收面板，再由壳层立即重拉快照
	js.Global().Set("__tableActionDone", js.FuncOf(func(this js.Value, args []js.Value) any {
		if state != nil {
			state.sel.Clear()
			state.dialogs.Dismiss()
		}
		return mustJSON(snapshot(false))
	}))

	js.Global().Set("__replayNormalize", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return mustJSON(replayResponse{
				OK:    false,
				Error: &replay.ReplayError{ActionIndex: -1, Reason: "invalid_request", Message: "need replay and actions payloads"},
			})
		}
		return mustJSON(normalizeReplay(args[0].String(), args[1].String()))
	}))

	select {}
}

func observe(raw string) observeResponse {
	var wire tractor.WireTableView
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return observeResponse{OK: false, Error: err.Error()}
	}
	view, err := tractor.NormalizeView(wire)
	if err != nil {
		// 保留上一份快照，坏响应只报告不落地
		resp := snapshot(false)
		resp.OK = false
		resp.Error = err.Error()
		return resp
	}

	statusChanged := !state.hasView || view.Status != state.status
	state.sel.UpdateHandSize(view.MyHand.Count())
	if statusChanged {
		state.sel.Clear()
	}
	state.dialogs.Observe(view.Status)

	// 自动开局闩在第一份快照上消耗，无论它处于什么阶段
	fire := false
	if state.armed {
		state.armed = false
		fire = state.single && view.Status == tractor.StatusWaiting
	}

	state.status = view.Status
	state.hasView = true
	state.lastSeen = view
	return snapshot(fire)
}

func snapshot(fire bool) observeResponse {
	resp := observeResponse{
		OK:          true,
		Dialog:      state.dialogs.Visible().String(),
		Selection:   state.sel.Indices(),
		HandCount:   state.sel.HandSize(),
		CurrentSeat: tractor.InvalidSeat,
		AutoStart:   fire,
	}
	if state.hasView {
		resp.Status = state.status.String()
		resp.CurrentSeat = state.lastSeen.CurrentSeat
	}
	return resp
}

func normalizeReplay(rawReplay, rawActions string) replayResponse {
	var wire replay.WireReplay
	if err := json.Unmarshal([]byte(rawReplay), &wire); err != nil {
		return replayResponse{
			OK:    false,
			Error: &replay.ReplayError{ActionIndex: -1, Reason: "invalid_json", Message: err.Error()},
		}
	}
	var actions []replay.WireAction
	if err := json.Unmarshal([]byte(rawActions), &actions); err != nil {
		return replayResponse{
			OK:    false,
			Error: &replay.ReplayError{ActionIndex: -1, Reason: "invalid_json", Message: err.Error()},
		}
	}

	tape, err := replay.NormalizeTape(wire, actions)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return replayResponse{OK: false, Error: replayErr}
		}
		return replayResponse{
			OK:    false,
			Error: &replay.ReplayError{ActionIndex: -1, Reason: "normalize_failed", Message: err.Error()},
		}
	}
	return replayResponse{OK: true, Tape: &tape}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		fallback := observeResponse{OK: false, Error: err.Error()}
		b2, _ := json.Marshal(fallback)
		return string(b2)
	}
	return string(b)
}
