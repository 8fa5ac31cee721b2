package card

type CardList []Card

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// Pick 按下标取子集，忽略越界下标
func (ds CardList) Pick(indices []int) CardList {
	out := make(CardList, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(ds) {
			continue
		}
		out = append(out, ds[i])
	}
	return out
}
