package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/olivier-w/fogbank/internal/ambient"
	"github.com/olivier-w/fogbank/internal/fog"
	"github.com/olivier-w/fogbank/internal/pages"
	"github.com/olivier-w/fogbank/internal/remote"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/surface"
	"github.com/olivier-w/fogbank/internal/ui"
)

type options struct {
	pagesPath  string
	particles  int
	fps        int
	foreground float64
	color      string
	seed       int64
	blend      string
	flicker    bool
	listen     string
	volume     float64
	debug      string
	track      string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	def := fog.DefaultConfig()
	var o options

	fs := flag.NewFlagSet("fogbank", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: fogbank [flags] [track]\n\n")
		fmt.Fprintf(output, "track is an ambient loop (%s).\n\n", ambient.SupportedExtsList())
		fs.PrintDefaults()
	}
	fs.StringVar(&o.pagesPath, "pages", "", "page script, pages separated by a line `---`")
	fs.IntVar(&o.particles, "particles", def.ParticleCount, "number of fog particles")
	fs.IntVar(&o.fps, "fps", def.TickRate, "simulation frames per second")
	fs.Float64Var(&o.foreground, "foreground", def.ForegroundRatio, "share of particles drawn over the text")
	fs.StringVar(&o.color, "color", def.Color, "fog color as #rrggbb")
	fs.Int64Var(&o.seed, "seed", 0, "random seed (0 picks one from the clock)")
	fs.StringVar(&o.blend, "blend", def.Blend.String(), "blend mode: screen, lighten or add")
	fs.BoolVar(&o.flicker, "flicker", false, "modulate fog brightness with a slow flicker")
	fs.StringVar(&o.listen, "listen", "", "serve the websocket pointer feed on `addr`, e.g. :7070")
	fs.Float64Var(&o.volume, "volume", ambient.DefaultVolume, "soundtrack volume from 0 to 1")
	fs.StringVar(&o.debug, "debug", "", "write a debug log to `file`")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		o.track = fs.Arg(0)
	default:
		return options{}, fmt.Errorf("expected at most one track, got %d arguments", fs.NArg())
	}
	return o, nil
}

// fogConfig applies the flags to the default fog settings.
func (o options) fogConfig() (fog.Config, error) {
	cfg := fog.DefaultConfig()
	cfg.ParticleCount = o.particles
	cfg.TickRate = o.fps
	cfg.ForegroundRatio = o.foreground
	cfg.Color = o.color

	blend, err := surface.ParseBlendMode(o.blend)
	if err != nil {
		return fog.Config{}, err
	}
	cfg.Blend = blend
	if o.flicker {
		cfg.Flicker = fog.DefaultFlicker()
	}

	if err := cfg.Validate(); err != nil {
		return fog.Config{}, err
	}
	return cfg, nil
}

func (o options) loadPages() ([]pages.Page, error) {
	if o.pagesPath == "" {
		return pages.Default(), nil
	}
	return pages.Load(o.pagesPath)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	if o.debug != "" {
		f, err := tea.LogToFile(o.debug, "fogbank")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := o.fogConfig()
	if err != nil {
		return err
	}
	script, err := o.loadPages()
	if err != nil {
		return err
	}
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	log.Printf("fogbank: seed %d", o.seed)

	feed := &signals.Latest[signals.Pointer]{}
	if o.listen != "" {
		srv := remote.New(feed)
		if _, err := srv.Listen(o.listen); err != nil {
			return fmt.Errorf("starting pointer feed: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("fogbank: stopping pointer feed: %v", err)
			}
		}()
	}

	settings := sceneSettings{
		pages:  script,
		fog:    cfg,
		seed:   o.seed,
		volume: o.volume,
		feed:   feed,
	}

	var model tea.Model
	switch {
	case o.track != "":
		scene, err := buildScene(o.track, settings, ambient.Open)
		if err != nil {
			log.Printf("fogbank: %v", err)
			scene = silentScene(settings, err)
		}
		model = scene
	case isatty.IsTerminal(os.Stdin.Fd()):
		model = newStartupModel(".", settings, ambient.Open)
	default:
		model = silentScene(settings, nil)
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if scene, ok := final.(ui.Model); ok {
		return scene.Err()
	}
	return nil
}
