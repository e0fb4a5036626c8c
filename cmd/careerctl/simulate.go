package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"careerxr/internal/scene"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scene layout headless from a key script",
	Long: `Runs a layout's systems without a client and prints the final snapshot.

The script is a list of steps such as "wx30 wdx10 ex1 -x20": held keys
(w a s d q e), camera actions (c toggle, o orbit, f follow), pointer lock
(l lock, u unlock) and an optional frame count after x.`,
	RunE: runSimulate,
}

var (
	simLayout    string
	simLayoutDir string
	simScript    string
	simTickRate  int
	simEvery     int
	simStats     bool
)

func init() {
	simulateCmd.Flags().StringVarP(&simLayout, "layout", "l", "profession-room", "Layout name")
	simulateCmd.Flags().StringVar(&simLayoutDir, "layout-dir", os.Getenv("SCENE_LAYOUT_DIR"), "Directory with extra layout YAML files")
	simulateCmd.Flags().StringVarP(&simScript, "script", "s", "", "Key script (required)")
	simulateCmd.Flags().IntVar(&simTickRate, "tick-rate", 60, "Frames per simulated second")
	simulateCmd.Flags().IntVar(&simEvery, "every", 0, "Also print a snapshot every N frames")
	simulateCmd.Flags().BoolVar(&simStats, "stats", false, "Print per-system timings to stderr")
	if err := simulateCmd.MarkFlagRequired("script"); err != nil {
		panic(fmt.Sprintf("failed to mark script flag as required: %v", err))
	}

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	var dir fs.FS
	if simLayoutDir != "" {
		dir = os.DirFS(simLayoutDir)
	}
	layouts, err := scene.LoadLayouts(dir)
	if err != nil {
		return err
	}
	l, err := layouts.Get(simLayout)
	if err != nil {
		return err
	}
	steps, err := scene.ParseScript(simScript)
	if err != nil {
		return err
	}
	if simTickRate <= 0 {
		return errors.New("tick rate must be positive")
	}

	opts := scene.DefaultOptions()
	opts.Logger = newLogger()
	w := scene.NewWorld(l, opts)

	enc := json.NewEncoder(cmd.OutOrStdout())
	var onFrame func(scene.Snapshot)
	if simEvery > 0 {
		onFrame = func(s scene.Snapshot) {
			if s.Tick%uint64(simEvery) == 0 {
				_ = enc.Encode(s)
			}
		}
	}

	final := scene.RunScript(w, steps, time.Second/time.Duration(simTickRate), onFrame)
	if err := enc.Encode(final); err != nil {
		return err
	}

	if simStats {
		st := w.Stats()
		for _, s := range st.Systems {
			fmt.Fprintf(cmd.ErrOrStderr(), "%-20s calls=%d avg=%s max=%s\n", s.Name, s.ExecutionCount, s.AvgDuration, s.MaxDuration)
		}
	}
	return nil
}
