package card

import "fmt"

// Value 牌面值：2..10, J, Q, K, A, 小王, 大王
type Value byte

const (
	ValueInvalid Value = 0

	Value2  Value = 2
	Value3  Value = 3
	Value4  Value = 4
	Value5  Value = 5
	Value6  Value = 6
	Value7  Value = 7
	Value8  Value = 8
	Value9  Value = 9
	Value10 Value = 10
	ValueJ  Value = 11
	ValueQ  Value = 12
	ValueK  Value = 13
	ValueA  Value = 14

	ValueSmallJoker Value = 15 // 小王
	ValueBigJoker   Value = 16 // 大王
)

var valueWireDictionary = map[Value]string{
	Value2:          "2",
	Value3:          "3",
	Value4:          "4",
	Value5:          "5",
	Value6:          "6",
	Value7:          "7",
	Value8:          "8",
	Value9:          "9",
	Value10:         "10",
	ValueJ:          "J",
	ValueQ:          "Q",
	ValueK:          "K",
	ValueA:          "A",
	ValueSmallJoker: "Small",
	ValueBigJoker:   "Big",
}

func (v Value) String() string {
	if s, ok := valueWireDictionary[v]; ok {
		return s
	}
	return "?"
}

// Wire 服务端使用的牌面值字符串
func (v Value) Wire() string {
	return valueWireDictionary[v]
}

// ParseValue 解析服务端牌面值字符串。级别(currentLevel)复用同一套编码，
// 只是取值范围限于 2..A。
func ParseValue(raw string) (Value, error) {
	for v, wire := range valueWireDictionary {
		if wire == raw {
			return v, nil
		}
	}
	return ValueInvalid, fmt.Errorf("unknown card value %q", raw)
}
