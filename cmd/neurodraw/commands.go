package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rewired-gh/neurodraw/internal/config"
	"github.com/rewired-gh/neurodraw/internal/export"
	"github.com/rewired-gh/neurodraw/internal/feedback"
	"github.com/rewired-gh/neurodraw/internal/input"
	"github.com/rewired-gh/neurodraw/internal/logger"
	"github.com/rewired-gh/neurodraw/internal/models"
	"github.com/rewired-gh/neurodraw/internal/session"
	"github.com/rewired-gh/neurodraw/internal/storage"
	"github.com/rewired-gh/neurodraw/internal/telegram"
	"github.com/rewired-gh/neurodraw/internal/trend"
)

type app struct {
	cfg   *config.Config
	store storage.Store
	out   io.Writer
}

func (a *app) draw(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	pngPath := fs.String("png", "", "Write the final canvas to this PNG file")
	noSave := fs.Bool("no-save", false, "Do not save a snapshot when the script has no save event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("draw needs exactly one events file")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open events: %w", err)
	}
	defer f.Close()

	sess, err := session.New(session.Options{
		Width:      a.cfg.Canvas.Width,
		Height:     a.cfg.Canvas.Height,
		Background: models.RGBHex(a.cfg.Canvas.Background),
		Color:      models.RGBHex(a.cfg.Brush.Color),
		BrushSize:  a.cfg.Brush.Size,
		Store:      a.store,
	})
	if err != nil {
		return err
	}

	player := input.NewPlayer(sess, time.Now())
	if err := player.Run(ctx, f); err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	if len(player.Saved) == 0 && !*noSave {
		if _, err := sess.Save(ctx); err != nil {
			return err
		}
	}

	if *pngPath != "" {
		data, err := sess.Surface().PNG()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pngPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write png: %w", err)
		}
		logger.Info("Canvas written to %s", *pngPath)
	}

	m := sess.Metrics()
	reading := feedback.Classify(m)
	speed, angles, colors, spatial := sess.Samples()
	fmt.Fprintf(a.out, "strokes: %d  samples: %d speed, %d angle, %d color, %d spatial\n",
		len(sess.Strokes()), speed, angles, colors, spatial)
	fmt.Fprintf(a.out, "speed %d  sharpness %d  intensity %d  repetition %d\n",
		m.LineSpeed, m.LineSharpness, m.ColorIntensity, m.PatternRepetition)
	fmt.Fprintf(a.out, "state: %s\n  %s\n", reading.State, reading.Description)
	fmt.Fprintf(a.out, "tip: %s\n", feedback.Suggest(m, len(sess.Strokes())))
	return nil
}

func (a *app) history(ctx context.Context, _ []string) error {
	snaps, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(a.out, "no saved drawings")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tSPEED\tSHARP\tCOLOR\tREPEAT\tCALM\tENERGY\tFOCUS\tOVERALL\tMOOD")
	points := trend.FromSnapshots(snaps)
	for i, s := range snaps {
		p := points[i]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.0f%%\t%s\n",
			s.ID, s.Timestamp.Local().Format("2006-01-02 15:04"),
			s.Metrics.LineSpeed, s.Metrics.LineSharpness, s.Metrics.ColorIntensity, s.Metrics.PatternRepetition,
			p.Calmness, p.Energy, p.Focus, p.Composite()*100, p.Emotion)
	}
	return tw.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outPath := fs.String("o", "neurodraw-report.pdf", "Output PDF path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snaps, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	if err := export.WriteFile(*outPath, snaps, a.cfg.Export.ThumbnailWidth); err != nil {
		return err
	}
	logger.Info("Exported %d drawings to %s", len(snaps), *outPath)
	return nil
}

func (a *app) share(ctx context.Context, args []string) error {
	if !a.cfg.Telegram.Enabled {
		return errors.New("telegram is disabled; set telegram.enabled, bot_token and chat_id")
	}

	var snap *models.Snapshot
	if len(args) > 0 {
		s, err := a.store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		snap = s
	} else {
		snaps, err := a.store.List(ctx)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return errors.New("no saved drawings to share")
		}
		snap = &snaps[0]
	}

	client, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID,
		a.cfg.Telegram.MaxRetries, a.cfg.Telegram.RetryDelayBase)
	if err != nil {
		return err
	}
	return client.SendSnapshot(snap)
}
