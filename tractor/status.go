package tractor

import "fmt"

// Status 牌桌阶段。status 是唯一权威：玩家当前能做什么只由它决定。
type Status byte

const (
	StatusWaiting       Status = 0 // 等待开局
	StatusCalling       Status = 1 // 叫庄
	StatusCallingFriend Status = 2 // 叫朋友
	StatusDiscarding    Status = 3 // 扣底牌
	StatusPlaying       Status = 4 // 出牌
	StatusFinished      Status = 5 // 已结束
)

var StatusDictionary = map[Status]string{
	StatusWaiting:       "waiting",
	StatusCalling:       "calling",
	StatusCallingFriend: "calling_friend",
	StatusDiscarding:    "discarding",
	StatusPlaying:       "playing",
	StatusFinished:      "finished",
}

func (s Status) String() string {
	if str, ok := StatusDictionary[s]; ok {
		return str
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// ParseStatus 解析服务端阶段字符串。未知阶段按响应格式错误处理。
func ParseStatus(raw string) (Status, error) {
	for s, wire := range StatusDictionary {
		if wire == raw {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown game status %q", raw)
}
