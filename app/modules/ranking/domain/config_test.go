package rankingdomain

import "testing"

func TestCategoryOf(t *testing.T) {
	cfg := DefaultRankingConfig()

	tests := []struct {
		position int
		want     int
	}{
		{1, 0}, {10, 0},
		{11, 1}, {20, 1},
		{21, 2}, {30, 2},
		{31, 3}, {100, 3},
	}
	for _, tt := range tests {
		if got := cfg.CategoryOf(tt.position); got != tt.want {
			t.Errorf("CategoryOf(%d) = %d, want %d", tt.position, got, tt.want)
		}
	}
}

func TestChallengeAdmissible(t *testing.T) {
	cfg := DefaultRankingConfig()

	if !cfg.ChallengeAdmissible(15, 8) {
		t.Error("one category up must be admissible")
	}
	if !cfg.ChallengeAdmissible(9, 1) {
		t.Error("same category must be admissible")
	}
	if cfg.ChallengeAdmissible(35, 5) {
		t.Error("tail player challenging the top band must be blocked")
	}
	if cfg.ChallengeAdmissible(25, 3) {
		t.Error("two categories up must be blocked")
	}
	if !cfg.ChallengeAdmissible(3, 25) {
		t.Error("challenging downward is always admissible")
	}
}
