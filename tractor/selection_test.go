package tractor

import (
	"reflect"
	"testing"
)

func TestSelection_ToggleParity(t *testing.T) {
	s := NewSelection()
	s.UpdateHandSize(10)

	// 奇数次选中，偶数次取消
	seq := []int{3, 3, 3, 7, 7, 1}
	for _, i := range seq {
		if !s.Toggle(i) {
			t.Fatalf("toggle %d rejected unexpectedly", i)
		}
	}
	if !s.Contains(3) {
		t.Fatalf("index 3 toggled odd times, expected selected")
	}
	if s.Contains(7) {
		t.Fatalf("index 7 toggled even times, expected unselected")
	}
	if !s.Contains(1) {
		t.Fatalf("index 1 toggled once, expected selected")
	}
}

func TestSelection_ToggleRejectsOutOfRange(t *testing.T) {
	s := NewSelection()
	s.UpdateHandSize(5)
	if s.Toggle(5) {
		t.Fatalf("index == handSize must be rejected")
	}
	if s.Toggle(-1) {
		t.Fatalf("negative index must be rejected")
	}
	if s.Size() != 0 {
		t.Fatalf("rejected toggles must not mutate the set")
	}
}

func TestSelection_UpdateHandSizeDropsOutOfRange(t *testing.T) {
	s := NewSelection()
	s.UpdateHandSize(8)
	for _, i := range []int{0, 3, 6, 7} {
		s.Toggle(i)
	}

	s.UpdateHandSize(5)
	for _, i := range s.Indices() {
		if i >= 5 {
			t.Fatalf("index %d survived shrink to 5", i)
		}
	}
	if !reflect.DeepEqual(s.Indices(), []int{0, 3}) {
		t.Fatalf("unexpected indices after shrink: %v", s.Indices())
	}
}

func TestSelection_SelectAllThenClear(t *testing.T) {
	s := NewSelection()
	s.UpdateHandSize(4)
	s.SelectAll()
	if !reflect.DeepEqual(s.Indices(), []int{0, 1, 2, 3}) {
		t.Fatalf("select all: %v", s.Indices())
	}
	s.Clear()
	if s.Size() != 0 {
		t.Fatalf("clear left %d indices", s.Size())
	}
}

func TestSelection_IndicesSorted(t *testing.T) {
	s := NewSelection()
	s.UpdateHandSize(10)
	for _, i := range []int{9, 2, 5} {
		s.Toggle(i)
	}
	if !reflect.DeepEqual(s.Indices(), []int{2, 5, 9}) {
		t.Fatalf("indices not sorted: %v", s.Indices())
	}
}
