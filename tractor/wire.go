package tractor

import "tractor-lite/card"

// Wire 结构：服务端 /game/{id}/table 返回的 game 字段原始形态。
// 解码后必须经 NormalizeView 校验转换，不直接对外暴露。

type WireTableView struct {
	GameID         string            `json:"gameId"`
	Status         string            `json:"status"`
	CurrentLevel   string            `json:"currentLevel"`
	CurrentPlayer  int               `json:"currentPlayer"`
	DealerTeam     []string          `json:"dealerTeam"`
	CurrentTrick   []WirePlayedCards `json:"currentTrick"`
	Players        []WirePlayer      `json:"players"`
	MyHand         []card.Card       `json:"myHand"`
	MyPosition     int               `json:"myPosition"`
	TrumpSuit      string            `json:"trumpSuit"`
	BottomCards    []card.Card       `json:"bottomCards"`
	Scores         map[string]int    `json:"scores"`
	HostCalledCard *card.Card        `json:"hostCalledCard"`
	FriendRevealed bool              `json:"friendRevealed"`
	FriendSeat     int               `json:"friendSeat"`
	LastPlay       []WirePlayedCards `json:"lastPlay"`
}

type WirePlayer struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Seat      int    `json:"seat"`
	IsAI      bool   `json:"isAI"`
	IsFriend  bool   `json:"isFriend"`
	CardCount int    `json:"cardCount"`
}

type WirePlayedCards struct {
	PlayerID string      `json:"playerId"`
	Cards    []card.Card `json:"cards"`
}
