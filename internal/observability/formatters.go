// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/asapstudio/video-workflow/internal/costs"
	"github.com/asapstudio/video-workflow/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// promptPreviewLen is how much of each prompt text is shown
	promptPreviewLen = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScenePrompts outputs a human-readable summary of the generated prompt set.
func (p *Printer) PrintScenePrompts(prompts []types.ScenePrompt) {
	if len(prompts) == 0 {
		return
	}

	var sb strings.Builder
	for _, prompt := range prompts {
		text := prompt.Text
		if len(text) > promptPreviewLen {
			text = text[:promptPreviewLen] + "..."
		}
		sb.WriteString(fmt.Sprintf("Scene %d: %s\n", prompt.Index, text))
	}

	p.printBox(fmt.Sprintf("Scene Prompts (%d)", len(prompts)), strings.TrimRight(sb.String(), "\n"))
}

// PrintCostEstimate outputs a pre-run cost breakdown.
func (p *Printer) PrintCostEstimate(est costs.WorkflowEstimate) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scenes:             %d\n", est.SceneCount))
	sb.WriteString(fmt.Sprintf("Prompt generation:  $%.4f\n", est.PromptGeneration))
	sb.WriteString(fmt.Sprintf("Video generation:   $%.2f\n", est.VideoGeneration))
	sb.WriteString(fmt.Sprintf("Storage:            $%.2f\n", est.Storage))
	sb.WriteString(fmt.Sprintf("Estimated total:    $%.2f", est.Total))

	p.printBox("Cost Estimate", sb.String())
}

// PrintReport outputs the final run report summary.
func (p *Printer) PrintReport(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:     %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Status:  %s", report.Status))
	if report.StopReason != types.StopReasonNone {
		sb.WriteString(fmt.Sprintf(" (%s)", report.StopReason))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Elapsed: %.1fs\n", report.ElapsedSeconds))
	sb.WriteString("\n")

	for _, scene := range report.Scenes {
		line := fmt.Sprintf("Scene %d: %s", scene.Index, scene.Status)
		if scene.Status == types.SceneSucceeded {
			line += fmt.Sprintf(" ($%.2f)", scene.Cost)
		} else if scene.Error != "" {
			line += fmt.Sprintf(" - %s", scene.Error)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Composition: %s\n", report.Composition.Status))
	if report.Composition.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Output:      %s\n", report.Composition.OutputPath))
	}

	sb.WriteString(fmt.Sprintf("Total cost:  $%.2f", report.TotalCost))
	if report.Budget > 0 {
		sb.WriteString(fmt.Sprintf(" / $%.2f budget", report.Budget))
	}

	p.printBox("Workflow Report", sb.String())
}
