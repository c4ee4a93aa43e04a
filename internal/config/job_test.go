package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/screener/internal/models"
)

func TestLoadJob(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantDesc string
		wantKw   int
		wantErr  bool
	}{
		{"description", "description: Go developer with Kubernetes\n", "Go developer with Kubernetes", 0, false},
		{"keywords", "keywords: [python, django]\n", "", 2, false},
		{"both", "description: Rust\nkeywords: [go]\n", "Rust", 1, false},
		{"empty", "description: \"  \"\nkeywords: []\n", "", 0, true},
		{"malformed", "keywords: [unclosed\n", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "job.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			job, err := LoadJob(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadJob: expected error, got %+v", job)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if job.Description != tt.wantDesc || len(job.Keywords) != tt.wantKw {
				t.Errorf("LoadJob = %+v", job)
			}
		})
	}
}

func TestLoadJob_emptyIsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("keywords: []\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadJob(path)
	var invalid *models.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidInputError", err)
	}
}

func TestLoadJob_missingFile(t *testing.T) {
	if _, err := LoadJob(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
