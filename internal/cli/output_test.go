package cli

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/screener/internal/models"
)

func sampleResult() *models.ScreenResult {
	return &models.ScreenResult{
		RequiredSkills: []string{"django", "python"},
		Weights:        map[string]float64{"django": 1, "python": 2},
		Total:          2,
		QueryTime:      3,
		Results: []*models.MatchResult{
			{
				Filename:      "alice.pdf",
				Score:         100,
				MatchedSkills: []string{"django", "python"},
				MissingSkills: []string{},
				MatchDetails: []models.SkillMatch{
					{Required: "django", Found: "djnago", Similarity: 0.67},
					{Required: "python", Found: "python", Similarity: 1},
				},
				Rank: 1,
			},
			{
				Filename:      "bob.docx",
				Score:         0,
				MatchedSkills: []string{},
				MissingSkills: []string{"django", "python"},
				Rank:          2,
			},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, sampleResult(), OutputJSON); err != nil {
		t.Fatalf("WriteResults(json): %v", err)
	}
	var decoded models.ScreenResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Total != 2 || len(decoded.Results) != 2 {
		t.Fatalf("decoded total=%d results=%d", decoded.Total, len(decoded.Results))
	}
	if decoded.Results[0].Filename != "alice.pdf" || decoded.Results[0].Rank != 1 {
		t.Errorf("first result = %+v", decoded.Results[0])
	}
}

func TestWriteResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, sampleResult(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Required skills: django, python×2",
		"Screened 2 resume(s)",
		"Rank: 1 | Score: 100.0 | alice.pdf",
		`django ~ "djnago" (0.67)`,
		"Missing: django, python",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `python ~ "python"`) {
		t.Error("exact matches should not be listed as fuzzy details")
	}
}

func TestWriteResults_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, sampleResult(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "1\t100.0\talice.pdf\tdjango,python" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "2\t  0.0\tbob.docx\t" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteResults_NoRequirements(t *testing.T) {
	res := &models.ScreenResult{
		Total:   1,
		Results: []*models.MatchResult{{Filename: "a.txt", NoRequirements: true, Rank: 1}},
	}
	var buf bytes.Buffer
	if err := WriteResults(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Required skills: (none)") || !strings.Contains(out, "nothing to match") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestWriteAnalysis(t *testing.T) {
	a := &models.JobAnalysis{
		RequiredSkills: []string{"django", "python"},
		Weights:        map[string]float64{"django": 1, "python": 2},
		TotalWeight:    3,
		Roles:          []string{"senior python developer", "tech lead"},
		Experience:     "5+ years",
	}
	var buf bytes.Buffer
	if err := WriteAnalysis(&buf, a, OutputText); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Roles:      senior python developer, tech lead",
		"Experience: 5+ years",
		"",
	}
	if len(lines) != 6 || !reflect.DeepEqual(lines[:3], want) ||
		!strings.HasPrefix(lines[3], "python") || !strings.HasPrefix(lines[5], "total") {
		t.Errorf("unexpected analysis output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteAnalysis(&buf, &models.JobAnalysis{}, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Roles:      -", "Experience: not specified", "No recognizable skills"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in %q", want, buf.String())
		}
	}

	buf.Reset()
	if err := WriteAnalysis(&buf, a, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.JobAnalysis
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded.Roles, a.Roles) || decoded.Experience != "5+ years" {
		t.Errorf("json analysis = %+v", decoded)
	}
}
