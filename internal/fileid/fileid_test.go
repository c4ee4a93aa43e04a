package fileid

import (
	"strings"
	"testing"
)

func TestFileDocID(t *testing.T) {
	id1 := FileDocID("/inbox/alice.pdf")
	id2 := FileDocID("/inbox/alice.pdf")
	if id1 != id2 {
		t.Errorf("same path should give same ID: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, filePrefix) {
		t.Errorf("ID should have prefix %q: got %q", filePrefix, id1)
	}
	if FileDocID("/inbox/bob.pdf") == id1 {
		t.Error("different paths should give different IDs")
	}
}

func TestFileDocID_normalized(t *testing.T) {
	id1 := FileDocID("/inbox/cv")
	if id2 := FileDocID("/inbox/cv/"); id1 != id2 {
		t.Errorf("paths differing only by trailing slash should match: %q vs %q", id1, id2)
	}
	if id3 := FileDocID("/inbox/./cv"); id1 != id3 {
		t.Errorf("paths with . should normalize: %q vs %q", id1, id3)
	}
}

func TestContentID(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "Go developer", "Go developer", true},
		{"whitespace differences", "Go  developer\n\nKubernetes", " Go developer Kubernetes\t", true},
		{"case matters", "go developer", "Go developer", false},
		{"different text", "Go developer", "Rust developer", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := ContentID(tt.a), ContentID(tt.b)
			if (a == b) != tt.same {
				t.Errorf("ContentID(%q) == ContentID(%q) is %v, want %v", tt.a, tt.b, a == b, tt.same)
			}
			if !strings.HasPrefix(a, contentPrefix) {
				t.Errorf("ID should have prefix %q: got %q", contentPrefix, a)
			}
		})
	}
}
