package session

import (
	"sync"

	"tractor-lite/tractor"
)

// tableState 轮询循环与用户操作共享的本地状态，单锁保护。
// 锁内只做同步的内存修改，任何网络请求都在锁外。
type tableState struct {
	mu        sync.Mutex
	selection *tractor.Selection
	dialogs   *tractor.DialogController
}

func newTableState() *tableState {
	return &tableState{
		selection: tractor.NewSelection(),
		dialogs:   tractor.NewDialogController(),
	}
}

// applyView 消化一份新快照：同步手牌数，相变时清空选择并推进对话框。
func (ts *tableState) applyView(handSize int, status tractor.Status, statusChanged bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.selection.UpdateHandSize(handSize)
	if statusChanged {
		// 防止把扣牌阶段的选择带进出牌阶段
		ts.selection.Clear()
	}
	ts.dialogs.Observe(status)
}

func (ts *tableState) toggle(index int) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.selection.Toggle(index)
}

func (ts *tableState) clearSelection() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.selection.Clear()
}

func (ts *tableState) selectAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.selection.SelectAll()
}

func (ts *tableState) selectionIndices() []int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.selection.Indices()
}

func (ts *tableState) selectionSize() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.selection.Size()
}

func (ts *tableState) dialog() tractor.Dialog {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.dialogs.Visible()
}

func (ts *tableState) dismissDialog() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.dialogs.Dismiss()
}

func (ts *tableState) reopenDialog() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.dialogs.Reopen()
}

// completeMutation 变更成功后的本地收尾：先清选择、关对话框，
// 再由调用方触发强制刷新。顺序有意义——刷新必须发生在本地清理之后，
// 否则下一帧可能出现"选择已清但阶段还旧"的错位。
func (ts *tableState) completeMutation(consumedSelection bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if consumedSelection {
		ts.selection.Clear()
	}
	ts.dialogs.Dismiss()
}
