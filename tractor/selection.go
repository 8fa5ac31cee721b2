package tractor

import "sort"

// Selection 手牌选择集合：下标集合，始终满足 0 <= i < 当前手牌数。
// 手牌变短时越界下标立即被丢弃，而不是留给消费方忽略。
type Selection struct {
	picked   map[int]struct{}
	handSize int
}

func NewSelection() *Selection {
	return &Selection{picked: make(map[int]struct{})}
}

// Toggle 翻转下标的选中状态，越界下标拒绝并返回 false。
func (s *Selection) Toggle(index int) bool {
	if index < 0 || index >= s.handSize {
		return false
	}
	if _, ok := s.picked[index]; ok {
		delete(s.picked, index)
	} else {
		s.picked[index] = struct{}{}
	}
	return true
}

func (s *Selection) Clear() {
	s.picked = make(map[int]struct{})
}

func (s *Selection) SelectAll() {
	s.picked = make(map[int]struct{}, s.handSize)
	for i := 0; i < s.handSize; i++ {
		s.picked[i] = struct{}{}
	}
}

// UpdateHandSize 手牌数变化（新发牌、出牌、扣牌）时调用。
func (s *Selection) UpdateHandSize(n int) {
	if n < 0 {
		n = 0
	}
	s.handSize = n
	for i := range s.picked {
		if i >= n {
			delete(s.picked, i)
		}
	}
}

func (s *Selection) HandSize() int {
	return s.handSize
}

func (s *Selection) Size() int {
	return len(s.picked)
}

func (s *Selection) Contains(index int) bool {
	_, ok := s.picked[index]
	return ok
}

// Indices 返回升序下标副本，供提交请求使用。
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.picked))
	for i := range s.picked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
