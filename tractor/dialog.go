package tractor

// Dialog 当前应当展示的操作面板
type Dialog byte

const (
	DialogNone       Dialog = 0
	DialogCallDealer Dialog = 1 // 叫庄
	DialogDiscard    Dialog = 2 // 扣底牌
	DialogCallFriend Dialog = 3 // 叫朋友
)

var DialogDictionary = map[Dialog]string{
	DialogNone:       "none",
	DialogCallDealer: "call_dealer",
	DialogDiscard:    "discard",
	DialogCallFriend: "call_friend",
}

func (d Dialog) String() string {
	if s, ok := DialogDictionary[d]; ok {
		return s
	}
	return "?"
}

// DialogController 按 (status, 本阶段是否被手动关闭) 推导对话框可见性。
//
// 对话框在服务端报告对应阶段时自动弹出（页面重载、中途加入都能重新提示），
// 但玩家手动关闭后不会被每次轮询强行顶回来；进入一个新的阶段实例
// （status 从别的值切换过来）时手动关闭标记作废，重新自动弹出。
type DialogController struct {
	status    Status
	seen      bool
	dismissed bool
}

func NewDialogController() *DialogController {
	return &DialogController{}
}

// Observe 喂入最新快照的 status。只有 status 变化才算相变，
// 轮询到相同值不触发任何状态调整，避免界面抖动。
func (d *DialogController) Observe(status Status) {
	if d.seen && d.status == status {
		return
	}
	d.status = status
	d.seen = true
	d.dismissed = false
}

// Dismiss 玩家手动关闭当前阶段的对话框。
func (d *DialogController) Dismiss() {
	d.dismissed = true
}

// Reopen 玩家通过手动控件重新打开被关闭的对话框。
func (d *DialogController) Reopen() {
	d.dismissed = false
}

// Visible 纯函数：同样的 (status, dismissed) 永远得到同样的结果。
func (d *DialogController) Visible() Dialog {
	if !d.seen || d.dismissed {
		return DialogNone
	}
	switch d.status {
	case StatusCalling:
		return DialogCallDealer
	case StatusDiscarding:
		return DialogDiscard
	case StatusCallingFriend:
		return DialogCallFriend
	}
	return DialogNone
}

// Dismissed 当前阶段实例是否被手动关闭过，供"重新打开"控件判断。
func (d *DialogController) Dismissed() bool {
	return d.dismissed
}
