package replay

import (
	"fmt"
	"sort"
)

// 服务端记录的动作类型全集
var knownActionTypes = map[string]struct{}{
	"game_create":    {},
	"player_join":    {},
	"game_start":     {},
	"call_dealer":    {},
	"flip_bottom":    {},
	"call_friend":    {},
	"discard_bottom": {},
	"play_cards":     {},
	"trick_complete": {},
	"game_end":       {},
}

// NormalizeTape 把回放元数据和动作日志合成一份校验过的 Tape。
// 动作按时间戳重排（服务端按插入序返回，并发写入时可能乱序），
// 未知动作类型和跨局混入的记录都按格式错误拒绝。
func NormalizeTape(w WireReplay, actions []WireAction) (Tape, error) {
	if w.GameID == "" {
		return Tape{}, &ReplayError{ActionIndex: -1, Reason: "invalid_replay", Message: "missing game id"}
	}
	if w.TotalActions < 0 || w.DurationSeconds < 0 {
		return Tape{}, &ReplayError{ActionIndex: -1, Reason: "invalid_replay", Message: "negative counters"}
	}

	out := Tape{
		GameID:          w.GameID,
		InitialState:    w.InitialState,
		FinalState:      w.FinalState,
		WinnerTeam:      w.WinnerTeam,
		FinalScore:      w.FinalScore,
		DurationSeconds: w.DurationSeconds,
		Actions:         make([]Action, 0, len(actions)),
	}

	for i, wa := range actions {
		if wa.GameID != "" && wa.GameID != w.GameID {
			return Tape{}, &ReplayError{
				ActionIndex: i,
				Reason:      "foreign_action",
				Message:     fmt.Sprintf("action belongs to game %s", wa.GameID),
			}
		}
		if _, ok := knownActionTypes[wa.ActionType]; !ok {
			return Tape{}, &ReplayError{
				ActionIndex: i,
				Reason:      "unknown_action_type",
				Message:     fmt.Sprintf("unknown action type %q", wa.ActionType),
			}
		}
		out.Actions = append(out.Actions, Action{
			Seq:        wa.ID,
			Type:       wa.ActionType,
			PlayerSeat: wa.PlayerSeat,
			PlayerID:   wa.PlayerID,
			ActionData: wa.ActionData,
			ResultData: wa.ResultData,
			Timestamp:  wa.Timestamp,
		})
	}

	sort.SliceStable(out.Actions, func(a, b int) bool {
		ta, tb := out.Actions[a].Timestamp, out.Actions[b].Timestamp
		if ta.Equal(tb) {
			return out.Actions[a].Seq < out.Actions[b].Seq
		}
		return ta.Before(tb)
	})
	return out, nil
}
