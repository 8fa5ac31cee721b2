package replay

import (
	"encoding/json"
	"time"
)

// Wire 结构：/game/{id}/replay 与 /game/{id}/actions 的原始返回。
// 这些数据只读，完全在直播同步环之外。

type WireAction struct {
	ID         int             `json:"id"`
	GameID     string          `json:"gameId"`
	ActionType string          `json:"actionType"`
	PlayerSeat int             `json:"playerSeat"`
	PlayerID   string          `json:"playerId"`
	ActionData json.RawMessage `json:"actionData"`
	ResultData json.RawMessage `json:"resultData"`
	Timestamp  time.Time       `json:"timestamp"`
}

type WireReplay struct {
	GameID          string          `json:"gameId"`
	InitialState    json.RawMessage `json:"initialState"`
	FinalState      json.RawMessage `json:"finalState"`
	TotalActions    int             `json:"totalActions"`
	DurationSeconds int             `json:"durationSeconds"`
	WinnerTeam      string          `json:"winnerTeam"`
	FinalScore      int             `json:"finalScore"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Action 校验后的单条对局动作
type Action struct {
	Seq        int             `json:"seq"`
	Type       string          `json:"type"`
	PlayerSeat int             `json:"playerSeat"`
	PlayerID   string          `json:"playerId"`
	ActionData json.RawMessage `json:"actionData,omitempty"`
	ResultData json.RawMessage `json:"resultData,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Tape 一局完整回放：初始/终局快照加按时间排好的动作序列
type Tape struct {
	GameID          string          `json:"gameId"`
	InitialState    json.RawMessage `json:"initialState"`
	FinalState      json.RawMessage `json:"finalState"`
	WinnerTeam      string          `json:"winnerTeam"`
	FinalScore      int             `json:"finalScore"`
	DurationSeconds int             `json:"durationSeconds"`
	Actions         []Action        `json:"actions"`
}
