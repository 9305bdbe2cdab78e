// Command worldgen is the CLI driver for the generation core (§6): a
// single "generate" verb accepting a config path or inline flags, grounded
// on onuse-worldgenerator_go/main.go's flag parsing and banner-printing,
// with log.Fatalf replaced by §6's explicit exit codes since a library
// caller (not just this CLI) needs the structured error kind.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"worldforge/internal/biomes"
	"worldforge/internal/cleanup"
	"worldforge/internal/climate"
	"worldforge/internal/config"
	"worldforge/internal/detail"
	"worldforge/internal/features"
	"worldforge/internal/hydrology"
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
	"worldforge/internal/server"
	"worldforge/internal/terrain"
)

// Exit codes per §6.
const (
	exitSuccess            = 0
	exitInvalidInput       = 2
	exitCanceled           = 3
	exitInvariantViolation = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("worldgen", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: worldgen generate [flags]")
		fs.PrintDefaults()
	}

	if len(args) == 0 || args[0] != "generate" {
		fs.Usage()
		return exitInvalidInput
	}
	args = args[1:]

	var (
		configPath = fs.String("config", "", "path to a GenerationConfig JSON file")
		seed       = fs.Uint64("seed", 0, "override seed (0 keeps the config/default value)")
		width      = fs.Float64("width", 0, "override map width (0 keeps the config/default value)")
		height     = fs.Float64("height", 0, "override map height (0 keeps the config/default value)")
		out        = fs.String("out", "", "write the resulting MapSystem as JSON to this path (default stdout)")
		serve      = fs.Bool("serve", false, "stream progress and the final result over a websocket")
		addr       = fs.String("addr", ":8080", "listen address when -serve is set")
	)
	if err := fs.Parse(args); err != nil {
		return exitInvalidInput
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidInput
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *width != 0 {
		cfg.Width = uint32(*width)
	}
	if *height != 0 {
		cfg.Height = uint32(*height)
	}
	if verr := cfg.Validate(); verr != nil {
		fmt.Fprintln(os.Stderr, verr)
		return exitInvalidInput
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	if *serve {
		srv = server.New()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", srv.HandleWebSocket)
		httpSrv := &http.Server{Addr: *addr, Handler: mux}
		go func() {
			fmt.Printf("worldgen: streaming on ws://%s/ws\n", *addr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Println("server error:", err)
			}
		}()
		defer httpSrv.Close()
	}

	ms, genErr := generate(ctx, &cfg, srv)
	if genErr != nil {
		if srv != nil {
			srv.BroadcastError(genErr)
		}
		fmt.Fprintln(os.Stderr, genErr)
		switch genErr.Kind {
		case pipeline.KindCanceled:
			return exitCanceled
		case pipeline.KindInvalidConfig, pipeline.KindTemplateParse:
			return exitInvalidInput
		default:
			return exitInvariantViolation
		}
	}

	if srv != nil {
		srv.BroadcastResult(ms)
	}
	if err := writeResult(ms, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvariantViolation
	}
	return exitSuccess
}

// generate builds the mesh and runs every registered stage in order,
// returning the pipeline's own *pipeline.Error (not a generic error) so
// run can switch on its Kind for the exit code.
func generate(ctx context.Context, cfg *config.GenerationConfig, srv *server.Server) (*pipeline.MapSystem, *pipeline.Error) {
	m := mesh.Build(float64(cfg.Width), float64(cfg.Height), float64(cfg.CellSpacing), cfg.JitterFrac, cfg.Seed)
	ms := pipeline.New(m, cfg.Seed)
	ms.Config = cfg

	enabled, err := stageMask(cfg.StagesEnabled)
	if err != nil {
		return ms, pipeline.InvalidConfig("stagesEnabled", err.Error())
	}
	driver := &pipeline.Driver{Enabled: enabled}
	if srv != nil {
		driver.Progress = srv.Progress()
	}

	if err := driver.Run(ctx, ms); err != nil {
		pe, ok := err.(*pipeline.Error)
		if !ok {
			pe = pipeline.InvariantViolated(ms.Stage, err.Error())
		}
		return ms, pe
	}
	return ms, nil
}

// stageMask resolves §6's stages_enabled bit-set from the config's stage
// name list; an empty list means every stage after mesh construction runs.
func stageMask(names []string) (pipeline.Mask, error) {
	if len(names) == 0 {
		return pipeline.AllStages, nil
	}
	byName := make(map[string]pipeline.StageID, 8)
	for s := pipeline.StageElevation; s.String() != "Unknown"; s++ {
		byName[strings.ToLower(s.String())] = s
	}
	var mask pipeline.Mask
	for _, name := range names {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown stage %q", name)
		}
		mask = mask.With(id)
	}
	return mask, nil
}

func writeResult(ms *pipeline.MapSystem, path string) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ms)
}

// Blank references keep the stage packages' init()-time pipeline.Register
// calls linked in, the way the teacher's main package pulls in its GPU
// compute backends by importing them for side effect.
var (
	_ = terrain.Stage{}
	_ = detail.Stage{}
	_ = features.Stage{}
	_ = hydrology.Stage{}
	_ = climate.Stage{}
	_ = biomes.Stage{}
	_ = cleanup.Stage{}
)
