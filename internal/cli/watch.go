package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/internal/services"
	"github.com/fastygo/taskflow/usecase/board"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		duration time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [project]",
		Short: "Keep reloading and redrawing the summary or a project board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.Sync.RefreshInterval
			}

			ctx, stop := a.manager.WithSignals(cmd.Context())
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			draw := func(err error) {
				if err != nil {
					fmt.Fprintf(a.opts.Stderr, "refresh failed: %v\n", err)
					return
				}
				if drawErr := a.drawWatch(args); drawErr != nil {
					fmt.Fprintf(a.opts.Stderr, "%v\n", drawErr)
				}
			}

			snapshot, err := a.load(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if _, err := resolveProject(snapshot, args[0]); err != nil {
					return err
				}
			}
			draw(nil)

			a.monitor.Start()
			a.manager.Register("monitor", func(context.Context) error {
				a.monitor.Stop()
				return nil
			})
			refresher := services.NewRefresher(a.engine, a.monitor, a.logger, services.RefresherConfig{
				Interval:  interval,
				OnRefresh: draw,
			})
			refresher.Start()
			a.manager.Register("refresher", func(ctx context.Context) error {
				refresher.Stop(ctx)
				return nil
			})

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Reload interval (default REFRESH_INTERVAL_SECONDS)")
	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (default: until interrupted)")
	return cmd
}

func (a *app) drawWatch(args []string) error {
	snapshot := a.engine.Snapshot()
	stamp := fmt.Sprintf("Loaded %s", snapshot.LoadedAt.Format(time.TimeOnly))
	if len(args) == 0 {
		summary := board.Summarize(snapshot)
		return a.emit(summary, func(w io.Writer) {
			fmt.Fprintln(w, stamp)
			renderSummary(w, summary)
		})
	}
	project, err := resolveProject(snapshot, args[0])
	if err != nil {
		return err
	}
	b, _ := board.Build(snapshot, project.ID)
	return a.emit(b, func(w io.Writer) {
		fmt.Fprintln(w, stamp)
		renderBoard(w, b, a.opts.Now())
	})
}
