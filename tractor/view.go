package tractor

import (
	"fmt"

	"tractor-lite/card"
)

const InvalidSeat = -1

// Player 牌桌上的一个座位
type Player struct {
	ID        string
	Username  string
	Seat      int
	IsAI      bool
	IsFriend  bool
	CardCount int
}

// PlayedCards 当前墩里某个玩家已打出的牌
type PlayedCards struct {
	PlayerID string
	Cards    card.CardList
}

// TableView 一次轮询得到的完整牌桌快照。快照只整体替换，从不原地修改；
// 持有者可以放心跨 goroutine 读取。
type TableView struct {
	GameID       string
	Status       Status
	CurrentLevel card.Value
	CurrentSeat  int // 仅在 StatusPlaying 下有意义
	DealerTeam   []string
	CurrentTrick []PlayedCards
	Players      []Player
	MyHand       card.CardList
	MySeat       int
	TrumpSuit    *card.Suit // 叫庄落定前为 nil
	BottomCards  card.CardList
	Scores       map[string]int

	HostCalledCard *card.Card
	FriendRevealed bool
	FriendSeat     int
	LastPlay       []PlayedCards
}

func (v TableView) OnDealerTeam(playerID string) bool {
	for _, id := range v.DealerTeam {
		if id == playerID {
			return true
		}
	}
	return false
}

func (v TableView) PlayerBySeat(seat int) (Player, bool) {
	for _, p := range v.Players {
		if p.Seat == seat {
			return p, true
		}
	}
	return Player{}, false
}

// NormalizeView 将 wire 快照校验并转换为 TableView。
// 任何字段解析失败都视为响应格式错误，由上层按瞬时故障处理。
func NormalizeView(w WireTableView) (TableView, error) {
	status, err := ParseStatus(w.Status)
	if err != nil {
		return TableView{}, err
	}

	// 开局前服务端可能还没给级别
	level := card.ValueInvalid
	if w.CurrentLevel != "" {
		level, err = card.ParseValue(w.CurrentLevel)
		if err != nil {
			return TableView{}, fmt.Errorf("currentLevel: %w", err)
		}
	}

	var trump *card.Suit
	if w.TrumpSuit != "" {
		suit, err := card.ParseSuit(w.TrumpSuit)
		if err != nil {
			return TableView{}, fmt.Errorf("trumpSuit: %w", err)
		}
		trump = &suit
	}

	players := make([]Player, 0, len(w.Players))
	for i, wp := range w.Players {
		if wp.CardCount < 0 {
			return TableView{}, fmt.Errorf("player %d: negative card count", i)
		}
		players = append(players, Player{
			ID:        wp.ID,
			Username:  wp.Username,
			Seat:      wp.Seat,
			IsAI:      wp.IsAI,
			IsFriend:  wp.IsFriend,
			CardCount: wp.CardCount,
		})
	}

	v := TableView{
		GameID:         w.GameID,
		Status:         status,
		CurrentLevel:   level,
		CurrentSeat:    InvalidSeat,
		DealerTeam:     append([]string(nil), w.DealerTeam...),
		CurrentTrick:   normalizeTrick(w.CurrentTrick),
		Players:        players,
		MyHand:         card.CardList(w.MyHand).Clone(),
		MySeat:         w.MyPosition,
		TrumpSuit:      trump,
		BottomCards:    card.CardList(w.BottomCards).Clone(),
		FriendRevealed: w.FriendRevealed,
		FriendSeat:     w.FriendSeat,
		LastPlay:       normalizeTrick(w.LastPlay),
	}
	if w.HostCalledCard != nil {
		c := *w.HostCalledCard
		v.HostCalledCard = &c
	}
	if len(w.Scores) > 0 {
		v.Scores = make(map[string]int, len(w.Scores))
		for k, val := range w.Scores {
			v.Scores[k] = val
		}
	}

	// status 是唯一权威：非出牌阶段的残留字段直接丢弃
	if status == StatusPlaying {
		v.CurrentSeat = w.CurrentPlayer
	} else {
		v.CurrentTrick = nil
	}
	return v, nil
}

func normalizeTrick(in []WirePlayedCards) []PlayedCards {
	if len(in) == 0 {
		return nil
	}
	out := make([]PlayedCards, 0, len(in))
	for _, wp := range in {
		out = append(out, PlayedCards{
			PlayerID: wp.PlayerID,
			Cards:    card.CardList(wp.Cards).Clone(),
		})
	}
	return out
}
