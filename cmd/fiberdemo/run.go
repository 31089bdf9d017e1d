package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/b97tsk/fiber"
	"github.com/b97tsk/fiber/internal/config"
	"github.com/b97tsk/fiber/tween"
)

const (
	tweenTarget     = 100.0
	tweenStagger    = 5 // Frames between the starts of two tweens.
	jobsPerProducer = 5
)

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the frame loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.v)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Uint64("frames", 0, "number of frames to run (0 runs until idle)")
	cmd.Flags().Int("fps", 60, "frames per second")
	cmd.Flags().Int("producers", 2, "number of goroutines that schedule deferred work")

	// Settings are loaded in the root's PersistentPreRunE, which runs first.
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for _, name := range []string{"frames", "fps", "producers"} {
			if err := opts.v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
		return nil
	}

	return cmd
}

type demo struct {
	cfg   *config.Config
	log   *zap.Logger
	sched *fiber.Scheduler
	loop  *fiber.Loop

	values    []float64
	processed int
	producers fiber.WaitGroup
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) error {
	fiber.SetLogger(log)

	sched := fiber.NewScheduler(fiber.WithLogger(log.Named("scheduler")))

	loopOpts := []fiber.LoopOption{fiber.WithLoopLogger(log.Named("loop"))}
	if cfg.Frames != 0 {
		loopOpts = append(loopOpts, fiber.WithMaxFrames(cfg.Frames))
	} else {
		loopOpts = append(loopOpts, fiber.WithStopWhenIdle())
	}

	d := &demo{
		cfg:    cfg,
		log:    log,
		sched:  sched,
		loop:   fiber.NewLoop(sched, loopOpts...),
		values: make([]float64, cfg.Tween.Count),
	}

	d.startTweens()
	d.startReport()

	g, ctx := errgroup.WithContext(ctx)

	d.producers.Add(cfg.Producers)
	for i := range cfg.Producers {
		g.Go(func() error { return d.produce(ctx, i) })
	}

	g.Go(func() error { return d.loop.Run(ctx, cfg.Interval()) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("frame loop: %w", err)
	}

	fmt.Fprintf(out, "frames: %d\n", d.loop.Frame())
	fmt.Fprintf(out, "continuations: %d\n", d.processed)
	for i, v := range d.values {
		fmt.Fprintf(out, "tween %d: %.2f\n", i, v)
	}

	return nil
}

func (d *demo) startTweens() {
	curve, _ := tween.CurveByName(d.cfg.Tween.Curve)
	anim := tween.Animation{
		Duration: d.cfg.Tween.Duration,
		Step:     d.cfg.Interval(),
		Curve:    curve,
	}

	for i := range d.values {
		d.loop.Go(fiber.Chain(
			fiber.WaitFrames(i*tweenStagger),
			tween.To(&d.values[i], tweenTarget, anim),
			fiber.Do(func() {
				d.log.Info("tween finished",
					zap.Int("tween", i),
					zap.Uint64("frame", d.loop.Frame()),
				)
			}),
		))
	}
}

// startReport starts a fiber that waits for every producer, then for a
// summary computed on the next Process.
func (d *demo) startReport() {
	d.loop.Go(fiber.Script(func(y *fiber.Yield) struct{} {
		fiber.Await(y, d.producers.Wait())

		summary := fiber.Await(y, fiber.Defer(d.sched, func() string {
			return fmt.Sprintf("%d continuations from %d producers", d.processed, d.cfg.Producers)
		}))

		d.log.Info("producers finished", zap.String("summary", summary))
		return struct{}{}
	}))
}

// produce schedules a few continuations from a goroutine other than the
// one driving the frame loop.
func (d *demo) produce(ctx context.Context, id int) error {
	defer d.sched.Schedule(d.producers.Done)

	for j := range jobsPerProducer {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(10+5*id) * time.Millisecond):
		}

		d.sched.Schedule(func() {
			d.processed++
			d.log.Debug("continuation ran",
				zap.Int("producer", id),
				zap.Int("job", j),
				zap.Uint64("frame", d.loop.Frame()),
			)
		})
	}

	return nil
}
