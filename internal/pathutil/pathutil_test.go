package pathutil

import "testing"

func TestNormalizeTrailingSeparator(t *testing.T) {
	cases := []string{"/a/b", "/a/b/"}
	var results []string
	for _, c := range cases {
		results = append(results, Normalize(c))
	}
	if results[0] != results[1] {
		t.Fatalf("expected idempotent normalization, got %q and %q", results[0], results[1])
	}
	if results[0] != "/a/b/" {
		t.Fatalf("expected trailing separator, got %q", results[0])
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if Normalize("") != "" {
		t.Fatalf("expected empty string to pass through unchanged")
	}
}

func TestDistanceIdentity(t *testing.T) {
	if d := Distance("/A/B/C", "/A/B/C"); d != 0 {
		t.Fatalf("Distance(x,x) = %d, want 0", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a, b := "/A/B/C", "/A/X/Y/Z"
	if Distance(a, b) != Distance(b, a) {
		t.Fatalf("Distance not symmetric: %d vs %d", Distance(a, b), Distance(b, a))
	}
}

func TestDistanceTable(t *testing.T) {
	base := "/A/B/C"
	cases := []struct {
		path string
		want int
	}{
		{"/A/B/C", 0},
		{"/A/B", 1},
		{"/A/B/C/D", 1},
		{"/A/B/X", 1},
		{"/A", 2},
	}
	for _, c := range cases {
		if got := Distance(base, c.path); got != c.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", base, c.path, got, c.want)
		}
	}
}

func TestUnderExpandsGlob(t *testing.T) {
	if got := Under("/A/B"); got != "/A/B/*" {
		t.Fatalf("Under(/A/B) = %q, want /A/B/*", got)
	}
}
