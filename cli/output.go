package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fitlins-go/fslshim/engine/level1"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
)

// Output format constants
const (
	OutputFormatAuto    = "auto"
	OutputFormatJSON    = "json"
	OutputFormatYAML    = "yaml"
	OutputFormatSummary = "summary"
)

// isRunningInCI checks if we're running in a CI/CD environment
func isRunningInCI() bool {
	if os.Getenv("CI") != "" {
		return true
	}
	for _, v := range []string{
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
		"CIRCLECI",
		"TF_BUILD", // Azure DevOps
		"CONTINUOUS_INTEGRATION",
	} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive reports whether w is a terminal a human is likely reading.
func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	if isRunningInCI() {
		return false
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// resolveFormat turns the configured format into a concrete one. Auto picks
// by output file extension, then summary for terminals and JSON otherwise.
func resolveFormat(format, outputPath string, stdout io.Writer) (string, error) {
	switch format {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatSummary:
		return format, nil
	case OutputFormatAuto, "":
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	if outputPath != "" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".yaml", ".yml":
			return OutputFormatYAML, nil
		default:
			return OutputFormatJSON, nil
		}
	}
	if isInteractive(stdout) {
		return OutputFormatSummary, nil
	}
	return OutputFormatJSON, nil
}

func renderResult(result *level1.Result, format string) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result as JSON: %w", err)
		}
		return append(data, '\n'), nil
	case OutputFormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result as YAML: %w", err)
		}
		return data, nil
	case OutputFormatSummary:
		return []byte(renderSummary(result) + "\n"), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(20)
	headStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

func renderSummary(result *level1.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FSL level-1 batch"))
	b.WriteString("\n")
	writeField := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	writeField("interscan interval", formatFloat(result.InterscanInterval)+"s")
	writeField("runs", strconv.Itoa(len(result.SessionInfo)))
	writeField("contrasts", strconv.Itoa(len(result.Contrasts)))

	runs := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "SCANS", "REGRESSORS", "VOLUMES").
		StyleFunc(tableStyle)
	for i, info := range result.SessionInfo {
		volumes := 0
		for _, r := range info.Regress {
			volumes = max(volumes, len(r.Val))
		}
		runs.Row(strconv.Itoa(i), info.Scans, strconv.Itoa(len(info.Regress)), strconv.Itoa(volumes))
	}
	b.WriteString(runs.String())

	if len(result.Contrasts) > 0 {
		contrasts := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("CONTRAST", "TYPE", "WEIGHTS").
			StyleFunc(tableStyle)
		for _, c := range result.Contrasts {
			terms := make([]string, len(c.Conditions))
			for i, cond := range c.Conditions {
				terms[i] = cond + "=" + formatWeight(c.Weights[i])
			}
			contrasts.Row(c.Name, c.Kind, strings.Join(terms, " "))
		}
		b.WriteString("\n")
		b.WriteString(contrasts.String())
	}
	return b.String()
}

func tableStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headStyle
	}
	return cellStyle
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatWeight(v float64) string {
	if v >= 0 && !math.IsNaN(v) {
		return "+" + formatFloat(v)
	}
	return formatFloat(v)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
