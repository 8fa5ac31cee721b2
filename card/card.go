package card

import (
	"encoding/json"
	"fmt"
)

// Card 一张牌。三副牌同时在场，所以同一张牌可能出现三次；
// Card 只描述牌面，不带副数信息。
type Card struct {
	Suit  Suit
	Value Value
}

type wireCard struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

func (c Card) String() string {
	if c.Suit == Joker {
		if c.Value == ValueBigJoker {
			return "🃏B"
		}
		return "🃏S"
	}
	return fmt.Sprintf("%s%s", c.Suit, c.Value)
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{Suit: c.Suit.Wire(), Value: c.Value.Wire()})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	suit, err := ParseSuit(w.Suit)
	if err != nil {
		return err
	}
	value, err := ParseValue(w.Value)
	if err != nil {
		return err
	}
	if (suit == Joker) != (value == ValueSmallJoker || value == ValueBigJoker) {
		return fmt.Errorf("inconsistent card %s/%s", w.Suit, w.Value)
	}
	c.Suit = suit
	c.Value = value
	return nil
}
