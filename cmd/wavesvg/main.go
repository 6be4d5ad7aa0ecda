package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schollz/wavesvg"
	"github.com/schollz/wavesvg/internal/config"
	"github.com/schollz/wavesvg/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(config.Load())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	buckets      int
	width        int
	height       int
	negative     bool
	allowSilence bool
	legacy       bool
	smooth       int
	start        float64
	end          float64
	bits         int
	scalable     bool
	id           string
	fill         string
	stroke       string
	plot         string
	plotTitle    string
	logLevel     string
	logDev       bool
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "wavesvg <input> <output>",
		Short: "Convert an audio file to an SVG of its waveform",
		Long: `Convert an audio file (WAV, MP3, FLAC or Ogg Vorbis) to an SVG polygon
of its amplitude envelope.

The output may be a local path or an s3://bucket/key URL. Outputs ending in
.json get audiowaveform-compatible JSON instead of SVG, and .svgz, .gz, .zst
or .br outputs are compressed.`,
		Example: `  wavesvg input.wav output.svg
  wavesvg --buckets 256 --negative=false input.flac out/waveform.svg
  wavesvg --plot preview.png input.mp3 s3://bucket/waveforms/input.svgz`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.ErrOrStderr(), cfg, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.buckets, "buckets", "n", cfg.Buckets, "Number of sample buckets")
	flags.IntVar(&opts.width, "width", cfg.Width, "Document width")
	flags.IntVar(&opts.height, "height", cfg.Height, "Document height")
	flags.BoolVar(&opts.negative, "negative", true, "Include the lower envelope")
	flags.BoolVar(&opts.allowSilence, "allow-silence", false, "Render silent audio as a flat line instead of failing")
	flags.BoolVar(&opts.legacy, "legacy-window", false, fmt.Sprintf("Reduce a fixed %d-sample window per bucket (waveform2svg behaviour)", wavesvg.LegacyWindow))
	flags.IntVar(&opts.smooth, "smooth", 0, "Hann smoothing window size in buckets (0 disables)")
	flags.Float64Var(&opts.start, "start", 0, "Start time in seconds")
	flags.Float64Var(&opts.end, "end", 0, "End time in seconds (0 means end of file)")
	flags.IntVar(&opts.bits, "bits", 16, "Integer range of JSON output (8 or 16)")
	flags.BoolVar(&opts.scalable, "scalable", false, "Add a viewBox so the SVG stretches to its container")
	flags.StringVar(&opts.id, "id", "", "id attribute of the SVG element")
	flags.StringVar(&opts.fill, "fill", "", "Polygon fill color")
	flags.StringVar(&opts.stroke, "stroke", "", "Polygon stroke color")
	flags.StringVar(&opts.plot, "plot", "", "Also save a styled preview (.png, .jpg, .svg, .pdf)")
	flags.StringVar(&opts.plotTitle, "plot-title", "", "Title of the preview")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logDev, "log-dev", cfg.LogDev, "Human-readable log output")

	return cmd
}

func run(ctx context.Context, stderr io.Writer, cfg config.Config, opts options, input, output string) error {
	logger, err := logging.New(opts.logLevel, opts.logDev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input file '%s' does not exist", input)
	}

	renderOpts := []wavesvg.Option{
		wavesvg.OptionSetBuckets(opts.buckets),
		wavesvg.OptionSetWidth(opts.width),
		wavesvg.OptionSetHeight(opts.height),
		wavesvg.OptionIncludeNegative(opts.negative),
		wavesvg.OptionAllowSilence(opts.allowSilence),
		wavesvg.OptionSetSmoothing(opts.smooth),
		wavesvg.OptionSetRange(opts.start, opts.end),
		wavesvg.OptionSetBits(opts.bits),
		wavesvg.OptionSetSVG(
			wavesvg.SVGOptionScalable(opts.scalable),
			wavesvg.SVGOptionSetID(opts.id),
			wavesvg.SVGOptionSetFill(opts.fill),
			wavesvg.SVGOptionSetStroke(opts.stroke),
		),
		wavesvg.OptionSetS3(cfg.S3Region, cfg.S3Endpoint, cfg.S3PathStyle),
		wavesvg.OptionSetLogger(logger),
	}
	if opts.legacy {
		renderOpts = append(renderOpts, wavesvg.OptionSetWindow(wavesvg.LegacyWindow))
	}
	if opts.plot != "" {
		renderOpts = append(renderOpts, wavesvg.OptionSetPlot(opts.plot, wavesvg.PlotOptionSetTitle(opts.plotTitle)))
	}

	if err := wavesvg.Convert(ctx, input, output, renderOpts...); err != nil {
		logger.Error("conversion failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(stderr, "Waveform written to %s\n", output)
	return nil
}
