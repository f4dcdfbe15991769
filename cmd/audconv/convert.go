// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/video"
	"github.com/ik5/audconv/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type convertFlags struct {
	outDir string
	start  string
	end    string
}

func newToolCmd(a *app, tool pipeline.Tool, short string) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   tool.Name + " <input>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), cmd.OutOrStdout(), tool, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "output", "o", "", "directory for the result (default: next to the input)")
	if tool.Trim {
		cmd.Flags().StringVar(&flags.start, "start", "", "cut start as mm:ss.s (default: beginning)")
		cmd.Flags().StringVar(&flags.end, "end", "", "cut end as mm:ss.s (default: end of file)")
	}

	return cmd
}

func (a *app) sessionOptions(tool pipeline.Tool) ([]pipeline.Option, error) {
	runner, err := a.runner()
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithRunner(runner),
		pipeline.WithBitrate(a.cfg.MP3Bitrate),
		pipeline.WithLogger(a.log),
	}

	if tool.Input == pipeline.VideoInput {
		dec, err := video.New(
			video.WithBinaries(a.cfg.FFmpeg, a.cfg.FFprobe),
			video.WithSampleRate(a.cfg.VideoSampleRate),
			video.WithLogger(a.log),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithVideoDecoder(dec))
	}

	return opts, nil
}

func (a *app) convert(ctx context.Context, w io.Writer, tool pipeline.Tool, input string, flags convertFlags) error {
	start, end, err := parseCut(flags)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	opts, err := a.sessionOptions(tool)
	if err != nil {
		return err
	}

	s := pipeline.NewSession(tool, opts...)
	defer s.Reset()

	p := newPrinter(w)
	defer s.Subscribe(p.event)()

	f := pipeline.File{
		Name: filepath.Base(input),
		MIME: mime.TypeByExtension(filepath.Ext(input)),
		Data: data,
	}
	if err := s.Load(ctx, f); err != nil {
		return err
	}

	if start != nil {
		if _, err := s.SetStart(*start); err != nil {
			return err
		}
	}
	if end != nil {
		if _, err := s.SetEnd(*end); err != nil {
			return err
		}
	}

	if err := s.Convert(ctx); err != nil {
		return err
	}

	if err := s.Wait(ctx); err != nil {
		return err
	}

	name, out, err := s.Download()
	if err != nil {
		return err
	}

	dir := flags.outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("%w", err)
	}

	a.log.Info("wrote output", zap.String("path", path), zap.Int("bytes", out.Size()))
	p.saved(path, out.Size())

	return nil
}

// parseCut returns nil for bounds that were not given.
func parseCut(flags convertFlags) (start, end *float64, err error) {
	parse := func(text string) (*float64, error) {
		if text == "" {
			return nil, nil
		}
		t, err := audio.ParseTime(text)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	if start, err = parse(flags.start); err != nil {
		return nil, nil, err
	}

	if end, err = parse(flags.end); err != nil {
		return nil, nil, err
	}

	return start, end, nil
}
