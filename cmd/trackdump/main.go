// Command trackdump prints a generated centreline as WKT for tuning the
// segment catalog.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/peterstace/simplefeatures/geom"

	"driftline/game"
	"driftline/internal/config"
)

func main() {
	configPath := flag.String("config", "", "config file (json, yaml or toml)")
	seed := flag.Int64("seed", 1, "segment shuffle seed")
	segments := flag.Int("segments", 24, "number of segments to lay")
	walls := flag.Bool("walls", false, "also print the wall boxes as a multipolygon")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackdump: %v\n", err)
		os.Exit(1)
	}

	if err := dump(os.Stdout, settings.Game, *seed, *segments, *walls); err != nil {
		fmt.Fprintf(os.Stderr, "trackdump: %v\n", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, cfg game.Config, seed int64, segments int, walls bool) error {
	steps := centreline(cfg, seed, segments)
	if len(steps) == 0 {
		return fmt.Errorf("no steps laid for %d segments", segments)
	}

	ls, err := lineString(steps)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# seed=%d segments=%d steps=%d length=%.1fm\n", seed, segments, len(steps), ls.Length())
	fmt.Fprintln(w, ls.AsText())

	if walls {
		mp, err := wallPolygons(steps, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, mp.AsText())
	}
	return nil
}

// centreline lays the given number of segments from the origin
func centreline(cfg game.Config, seed int64, segments int) []game.Step {
	path := game.NewPathGenerator(game.DefaultCatalog, rand.New(rand.NewSource(seed)))
	track := game.NewTrack(path, cfg.Stride, cfg.MaxHeading)

	var steps []game.Step
	for i := 0; i < segments; i++ {
		steps = append(steps, track.Extend()...)
	}
	return steps
}

// lineString joins the step ends into one line. WKT Y is the game's -Z so
// the road runs up the page.
func lineString(steps []game.Step) (geom.LineString, error) {
	coords := make([]float64, 0, 2*(len(steps)+1))
	coords = append(coords, steps[0].StartX, -steps[0].StartZ)
	for _, s := range steps {
		coords = append(coords, s.EndX, -s.EndZ)
	}

	ls := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err := ls.Validate(); err != nil {
		return geom.LineString{}, fmt.Errorf("invalid centreline: %w", err)
	}
	return ls, nil
}

// wallPolygons returns the wall AABBs as one multipolygon
func wallPolygons(steps []game.Step, cfg game.Config) (geom.MultiPolygon, error) {
	polys := make([]geom.Polygon, 0, 2*len(steps))
	for _, s := range steps {
		left, right := game.PlaceWalls(s, cfg)
		for _, wp := range []game.WallPlacement{left, right} {
			b := wp.Bounds()
			ring := geom.NewLineString(geom.NewSequence([]float64{
				b.MinX, -b.MaxZ,
				b.MaxX, -b.MaxZ,
				b.MaxX, -b.MinZ,
				b.MinX, -b.MinZ,
				b.MinX, -b.MaxZ,
			}, geom.DimXY))
			poly := geom.NewPolygon([]geom.LineString{ring})
			if err := poly.Validate(); err != nil {
				return geom.MultiPolygon{}, fmt.Errorf("invalid wall box at step %d: %w", s.Index, err)
			}
			polys = append(polys, poly)
		}
	}
	return geom.NewMultiPolygon(polys), nil
}
