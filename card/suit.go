package card

import "fmt"

// Suit 花色
type Suit byte

const (
	Spade Suit = iota // ♠️
	Heart             // ♥️
	Club              // ♣️
	Diamond           // ♦️
	Joker             // 🃏 大小王
)

var suitWireDictionary = map[Suit]string{
	Spade:   "spades",
	Heart:   "hearts",
	Club:    "clubs",
	Diamond: "diamonds",
	Joker:   "joker",
}

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	case Joker:
		return "🃏"
	}
	return "?"
}

// Wire 服务端使用的花色字符串
func (s Suit) Wire() string {
	return suitWireDictionary[s]
}

// ParseSuit 解析服务端花色字符串
func ParseSuit(raw string) (Suit, error) {
	for s, wire := range suitWireDictionary {
		if wire == raw {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", raw)
}
