// Package cli renders screening results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteResults writes a screening result to w in the given format.
func WriteResults(w io.Writer, res *models.ScreenResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, res)
	case OutputCompact:
		for _, r := range res.Results {
			fmt.Fprintf(w, "%d\t%5.1f\t%s\t%s\n",
				r.Rank, r.Score, utils.Truncate(r.Filename, 48), strings.Join(r.MatchedSkills, ","))
		}
		return nil
	default:
		writeResultsText(w, res)
		return nil
	}
}

func writeResultsText(w io.Writer, res *models.ScreenResult) {
	fmt.Fprintf(w, "\nRequired skills: %s\n", formatWeights(res.RequiredSkills, res.Weights))
	if len(res.Roles) > 0 || res.Experience != "" {
		fmt.Fprintf(w, "Roles: %s | Experience: %s\n", listOrNone(res.Roles), experienceOrNone(res.Experience))
	}
	fmt.Fprintf(w, "Screened %d resume(s) in %dms\n\n", res.Total, res.QueryTime)
	for _, r := range res.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.1f | %s\n", r.Rank, r.Score, r.Filename)
		if r.NoRequirements {
			fmt.Fprintln(w, "No recognizable skills in the job; nothing to match.")
			continue
		}
		fmt.Fprintf(w, "Matched: %s\n", listOrNone(r.MatchedSkills))
		fmt.Fprintf(w, "Missing: %s\n", listOrNone(r.MissingSkills))
		for _, d := range r.MatchDetails {
			if d.Found != d.Required {
				fmt.Fprintf(w, "  %s ~ %q (%.2f)\n", d.Required, d.Found, d.Similarity)
			}
		}
	}
	if len(res.Results) > 0 {
		fmt.Fprintln(w)
	}
}

// WriteAnalysis writes the roles, experience and weighted skill requirements
// of a job.
func WriteAnalysis(w io.Writer, a *models.JobAnalysis, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, a)
	}
	fmt.Fprintf(w, "Roles:      %s\n", listOrNone(a.Roles))
	fmt.Fprintf(w, "Experience: %s\n\n", experienceOrNone(a.Experience))
	if len(a.RequiredSkills) == 0 {
		fmt.Fprintln(w, "No recognizable skills found.")
		return nil
	}
	skills := append([]string(nil), a.RequiredSkills...)
	sort.SliceStable(skills, func(i, j int) bool {
		return a.Weights[skills[i]] > a.Weights[skills[j]]
	})
	for _, s := range skills {
		fmt.Fprintf(w, "%-24s %g\n", s, a.Weights[s])
	}
	fmt.Fprintf(w, "%-24s %g\n", "total", a.TotalWeight)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatWeights(skills []string, weights map[string]float64) string {
	if len(skills) == 0 {
		return "(none)"
	}
	parts := make([]string, len(skills))
	for i, s := range skills {
		if wt := weights[s]; wt > 1 {
			parts[i] = fmt.Sprintf("%s×%g", s, wt)
		} else {
			parts[i] = s
		}
	}
	return strings.Join(parts, ", ")
}

func experienceOrNone(exp string) string {
	if exp == "" {
		return "not specified"
	}
	return exp
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
