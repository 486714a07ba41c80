package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LopeWale/TailorMode-sub000/internal/logging"
	"github.com/LopeWale/TailorMode-sub000/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	watchInputs   roundInputs
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <mesh.stl>",
	Short: "Recompute measurements whenever the mesh or landmark file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchInputs.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Delay before recomputing after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("watch")
	c, err := newCapture(ctx, &watchInputs, args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	recompute := func() {
		batch, err := c.run(ctx)
		if err != nil {
			logger.Error("failed to compute round", "error", err)
			return
		}
		if err := c.print(cmd.OutOrStdout(), batch); err != nil {
			logger.Error("failed to print round", "error", err)
		}
	}
	recompute()

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	files := []string{args[0]}
	if watchInputs.landmarksPath != "" {
		files = append(files, watchInputs.landmarksPath)
	}
	if err := fw.Watch(files, func(path string) {
		logger.Info("input changed, recomputing", "path", path)
		recompute()
	}); err != nil {
		return err
	}
	fw.Start()

	logger.Info("watching for changes", "files", files)
	<-ctx.Done()
	return nil
}
