package iterutil

import (
	"reflect"
	"testing"
)

func TestWindowSymmetric(t *testing.T) {
	// c0 c1-match c2 c3 c4 c5-match c6, context=1
	rows := []string{"c0", "c1-match", "c2", "c3", "c4", "c5-match", "c6"}
	isMatch := func(s string) bool { return len(s) > 2 && s[len(s)-5:] == "match" }

	got := Window(rows, isMatch, 1, 1)
	want := []string{"c0", "c1-match", "c2", "c4", "c5-match", "c6"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Window = %v, want %v", got, want)
	}
}

func TestWindowNoMatches(t *testing.T) {
	rows := []int{1, 2, 3}
	got := Window(rows, func(int) bool { return false }, 1, 1)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestWindowEveryRowWithinNOfAMatch(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	isMatch := func(v int) bool { return v == 3 || v == 8 }
	got := Window(rows, isMatch, 2, 2)
	for i, v := range got {
		if isMatch(v) {
			continue
		}
		found := false
		for _, m := range []int{3, 8} {
			d := v - m
			if d < 0 {
				d = -d
			}
			if d <= 2 {
				found = true
			}
		}
		if !found {
			t.Errorf("row %d (index %d) is not within N of any match", v, i)
		}
	}
}

func TestWindowAsymmetric(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5}
	isMatch := func(v int) bool { return v == 3 }
	got := Window(rows, isMatch, 1, 2)
	want := []int{2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Window = %v, want %v", got, want)
	}
}

func TestSwapBeforeAfter(t *testing.T) {
	b, a := SwapBeforeAfter(1, 2)
	if b != 2 || a != 1 {
		t.Fatalf("SwapBeforeAfter(1,2) = (%d,%d), want (2,1)", b, a)
	}
}
