package checkpoint

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/asapstudio/video-workflow/internal/costs"
)

// ConsoleGate presents each completed scene on a terminal and reads the
// reviewer's choice from an input stream. Review blocks until a decision is
// produced; there is deliberately no timeout.
type ConsoleGate struct {
	in  *bufio.Scanner
	out io.Writer
	// openPreview opens a file in the system media player; replaceable in
	// tests.
	openPreview func(path string) error
}

// NewConsoleGate creates a gate reading from in and writing to out
func NewConsoleGate(in io.Reader, out io.Writer) *ConsoleGate {
	return &ConsoleGate{
		in:          bufio.NewScanner(in),
		out:         out,
		openPreview: openInPlayer,
	}
}

// Review presents the scene and loops until the reviewer makes a decision
func (g *ConsoleGate) Review(ctx context.Context, req ReviewRequest) (Decision, error) {
	g.printHeader(req)

	for {
		if err := ctx.Err(); err != nil {
			return DecisionStop, err
		}

		fmt.Fprintf(g.out, "\nReview options:\n")
		fmt.Fprintf(g.out, "  1. Open video for preview\n")
		fmt.Fprintf(g.out, "  2. Continue to next video\n")
		fmt.Fprintf(g.out, "  3. Stop workflow (save costs)\n")
		fmt.Fprintf(g.out, "  4. Retry this scene\n")
		fmt.Fprintf(g.out, "  5. View full prompt\n")
		fmt.Fprintf(g.out, "  6. Show workflow progress\n")
		fmt.Fprintf(g.out, "Choose option (1-6): ")

		choice, ok := g.readLine()
		if !ok {
			// Input stream closed; treat as a stop so completed work is kept.
			return DecisionStop, nil
		}

		switch choice {
		case "1":
			if err := g.openPreview(req.ArtifactPath); err != nil {
				fmt.Fprintf(g.out, "Could not open video: %v\nManual path: %s\n", err, req.ArtifactPath)
				continue
			}
			return DecisionPreview, nil
		case "2":
			return DecisionContinue, nil
		case "3":
			if g.confirm("Stop workflow? Remaining scenes will be skipped (y/n): ") {
				return DecisionStop, nil
			}
		case "4":
			if g.confirm("Retry this scene? The current clip is discarded but its cost stays charged (y/n): ") {
				return DecisionRetry, nil
			}
		case "5":
			fmt.Fprintf(g.out, "\nFull prompt:\n%s\n%s\n%s\n", strings.Repeat("-", 60), req.Prompt, strings.Repeat("-", 60))
		case "6":
			g.printProgress(req)
		default:
			fmt.Fprintf(g.out, "Invalid choice. Please enter 1-6.\n")
		}
	}
}

func (g *ConsoleGate) printHeader(req ReviewRequest) {
	sep := strings.Repeat("=", 60)
	fmt.Fprintf(g.out, "\n%s\nVIDEO REVIEW - Scene %d/%d\n%s\n", sep, req.Scene, req.TotalScenes, sep)
	fmt.Fprintf(g.out, "Video: %s\n", req.ArtifactPath)

	if info, err := os.Stat(req.ArtifactPath); err == nil {
		fmt.Fprintf(g.out, "File size: %.2f MB\n", float64(info.Size())/(1024*1024))
	} else {
		fmt.Fprintf(g.out, "Warning: video file not found at expected location\n")
	}

	preview := req.Prompt
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	fmt.Fprintf(g.out, "Prompt: %s\n", preview)
}

func (g *ConsoleGate) printProgress(req ReviewRequest) {
	remaining := req.TotalScenes - req.Scene
	fmt.Fprintf(g.out, "\nWorkflow progress:\n")
	fmt.Fprintf(g.out, "  Completed: %d/%d scenes\n", req.Scene, req.TotalScenes)
	fmt.Fprintf(g.out, "  Spent so far: ~$%.2f\n", req.CumulativeCost)
	if req.Budget > 0 {
		fmt.Fprintf(g.out, "  Budget: $%.2f\n", req.Budget)
	}
	fmt.Fprintf(g.out, "  Estimated remaining cost: ~$%.2f\n", costs.EstimateVideoCost(remaining))
}

func (g *ConsoleGate) confirm(prompt string) bool {
	fmt.Fprint(g.out, prompt)
	answer, ok := g.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (g *ConsoleGate) readLine() (string, bool) {
	if !g.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(g.in.Text()), true
}

// openInPlayer opens a file in the platform's default media player
func openInPlayer(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("video file not found: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	case "darwin":
		return exec.Command("open", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
