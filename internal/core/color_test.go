package core

import "testing"

func TestCategoryHueMatchesBrowserHash(t *testing.T) {
	cases := map[string]int{
		"Rent":      49,
		"Salary":    326,
		"Groceries": 299,
		"Transport": 79,
		"Misc":      156,
		"":          0,
		"A long category name for overflow testing": 63,
		"Café ☕": 110,
		"😀":      259,
	}
	for in, want := range cases {
		if got := CategoryHue(in); got != want {
			t.Errorf("CategoryHue(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestCategoryColorIsDeterministic(t *testing.T) {
	first := CategoryColor("Groceries")
	for i := 0; i < 10; i++ {
		if got := CategoryColor("Groceries"); got != first {
			t.Fatalf("color changed between calls: %q vs %q", first, got)
		}
	}
	if first != "hsl(299 80% 45% / 0.95)" {
		t.Fatalf("CategoryColor = %q", first)
	}
}

func TestBadgeLetter(t *testing.T) {
	cases := map[string]string{
		"rent":  "R",
		"Ärzte": "Ä",
		"élan":  "É",
		"":      "",
	}
	for in, want := range cases {
		if got := BadgeLetter(in); got != want {
			t.Errorf("BadgeLetter(%q) = %q, want %q", in, got, want)
		}
	}
}
