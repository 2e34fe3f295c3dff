package record

import (
	"math"
	"testing"
)

func TestSimilarity_Identical(t *testing.T) {
	for _, s := range []string{"acme corp", "a", "globex industries inc"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilarity_BothEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("Similarity of two empty strings = %v, want 1", got)
	}
}

func TestSimilarity_OneEmpty(t *testing.T) {
	if got := Similarity("", "abc"); got != 0 {
		t.Fatalf("Similarity(\"\", \"abc\") = %v, want 0", got)
	}
}

func TestSimilarity_SingleSubstitution(t *testing.T) {
	got := Similarity("abc", "abd")
	want := 1 - 1.0/3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Similarity(abc, abd) = %v, want %v", got, want)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"acme corp", "acme corpp"},
		{"kitten", "sitting"},
		{"", "x"},
		{"globex", "zebra"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q,%q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"a", "zzzzzzzzzz"},
		{"acme corporation", "acme corp"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q,%q) = %v out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_KnownDistance(t *testing.T) {
	// kitten -> sitting is the classic distance-3 pair over length 7.
	got := Similarity("kitten", "sitting")
	want := 1 - 3.0/7.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Similarity(kitten, sitting) = %v, want %v", got, want)
	}
}
