package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/asapstudio/video-workflow/internal/compose"
)

var mergeCommand = &cobra.Command{
	Use:   "merge [clip...]",
	Short: "Merge existing clips into one video without running generation",
	Long: `Merges clips from a previous (or partial) run. Pass clip paths as
arguments in the desired order, or use --dir to merge all scene_<i>.mp4
files of a run directory in scene order.`,
	RunE: runMergeCmd,
}

var (
	mergeDir        string
	mergeOutput     string
	mergeTransition string
)

func init() {
	mergeCommand.Flags().StringVarP(&mergeDir, "dir", "d", "", "Run directory containing scene_<i>.mp4 files")
	mergeCommand.Flags().StringVarP(&mergeOutput, "output", "o", "merged.mp4", "Output file path")
	mergeCommand.Flags().StringVar(&mergeTransition, "transition", string(compose.TransitionCrossfade), "Transition: crossfade, fade_black or simple")

	rootCmd.AddCommand(mergeCommand)
}

func runMergeCmd(_ *cobra.Command, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		if mergeDir == "" {
			return fmt.Errorf("provide clip paths as arguments or a run directory via --dir")
		}
		var err error
		inputs, err = collectSceneClips(mergeDir)
		if err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no clips found to merge")
	}

	fmt.Printf("Merging %d clip(s) with %s transition...\n", len(inputs), mergeTransition)
	output, err := compose.NewFFmpegComposer().Compose(context.Background(), inputs, compose.Options{
		OutputPath: mergeOutput,
		Transition: compose.Transition(mergeTransition),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Merged video written to %s\n", output)
	return nil
}

// collectSceneClips finds scene_<i>.mp4 files in dir and returns them in
// scene order, tolerating gaps left by failed or skipped scenes.
func collectSceneClips(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "scene_*.mp4"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	type clip struct {
		index int
		path  string
	}
	var clips []clip
	for _, path := range matches {
		var index int
		if _, err := fmt.Sscanf(filepath.Base(path), "scene_%d.mp4", &index); err == nil {
			clips = append(clips, clip{index: index, path: path})
		}
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].index < clips[j].index })

	paths := make([]string, 0, len(clips))
	for _, c := range clips {
		paths = append(paths, c.path)
	}
	return paths, nil
}
