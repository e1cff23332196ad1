// Command mincinfo prints the layout of MINC2 volume files and reads every
// volume stacked in them.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/lumberjack"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/store"
	"github.com/robert-malhotra/go-minc/minc"
)

var (
	configFile = flag.String("config", "", "TOML configuration file")
	dimsFlag   = flag.String("dims", "zspace,yspace,xspace", "volume dimensions, outermost first; \"\" matches any, \"any_spatial_dimension\" any spatial axis")
	typeFlag   = flag.String("type", "none", "voxel type: none, byte, short, int, float, double")
	signed     = flag.Bool("signed", false, "signed voxels when -type is given")
	showTree   = flag.Bool("tree", false, "print every group and dataset")
	readAll    = flag.Bool("read", true, "read every volume and print statistics")
	verbose    = flag.Bool("verbose", false, "log debug messages and read progress")
)

// Config is the layout of the -config file.
type Config struct {
	Input   minc.InputOptions `toml:"input"`
	Logging LogConfig         `toml:"logging"`
	Store   StoreConfig       `toml:"store"`
}

// LogConfig sends log messages to a rotating file.
type LogConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"`
	MaxAge  int `toml:"max_log_age"`
}

// StoreConfig holds the storage engine settings.
type StoreConfig struct {
	CacheBytes int  `toml:"cache_bytes"`
	Workers    int  `toml:"workers"`
	Strict     bool `toml:"strict"`
	Verbose    bool `toml:"verbose"`
}

// SetLogger routes log output to the configured file. The returned closer
// is nil when messages stay on stderr.
func (c *LogConfig) SetLogger() *lumberjack.Logger {
	if c == nil || c.Logfile == "" {
		return nil
	}
	fmt.Printf("Sending log messages to: %s\n", c.Logfile)
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	}
	log.SetOutput(l)
	return l
}

func loadConfig(path string) (Config, error) {
	def := store.DefaultConfig()
	cfg := Config{
		Input: minc.DefaultInputOptions(),
		Store: StoreConfig{CacheBytes: def.CacheBytes},
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := cfg.Input.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mincinfo [flags] <file.mnc | bucket URL> ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	if l := cfg.Logging.SetLogger(); l != nil {
		defer l.Close()
	}
	if *verbose {
		minc.SetLogMode(minc.DebugMode)
	}

	voxelType, err := dtype.ParseType(*typeFlag)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	var names []minc.DimName
	for _, s := range strings.Split(*dimsFlag, ",") {
		names = append(names, minc.ParseDimName(strings.TrimSpace(s)))
	}

	engine := store.New(store.Config{
		Verbose:    cfg.Store.Verbose,
		Strict:     cfg.Store.Strict,
		CacheBytes: cfg.Store.CacheBytes,
		Workers:    cfg.Store.Workers,
		Logger:     minc.StandardLogger(),
	})
	defer engine.Close()

	failed := false
	for _, path := range flag.Args() {
		fmt.Printf("=== Analyzing %s ===\n\n", path)
		if err := analyze(engine, path, voxelType, names, cfg.Input); err != nil {
			fmt.Printf("ERROR: %v\n\n", err)
			failed = true
		}
	}

	hits, misses := engine.CacheStats()
	fmt.Printf("Chunk cache: %s hits, %s misses\n", humanize.Comma(hits), humanize.Comma(misses))
	if failed {
		os.Exit(1)
	}
}

func analyze(engine *store.Engine, path string, t dtype.Type, names []minc.DimName, opts minc.InputOptions) error {
	r, err := engine.OpenFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Format version: %s\n", r.File().Version())
	if *showTree {
		if err := printTree(r.File()); err != nil {
			r.Close()
			return err
		}
	}
	r.Close()

	n, err := minc.FileDimensionCount(engine, path)
	if err != nil {
		return err
	}
	fmt.Printf("Image rank: %d\n", n)

	vol, err := minc.NewVolume(t, *signed, names...)
	if err != nil {
		return err
	}
	in, err := minc.OpenInput(engine, path, vol, minc.WithOptions(opts))
	if err != nil {
		return err
	}
	defer in.Close()

	printLayout(in)

	if !*readAll {
		return nil
	}
	for k := 0; ; k++ {
		var progress func(float64)
		if *verbose {
			progress = func(f float64) { fmt.Printf("\r  volume %d: %5.1f%%", k, 100*f) }
		}
		if err := in.ReadVolume(progress); err != nil {
			return err
		}
		if *verbose {
			fmt.Println()
		}
		printStats(k, vol)

		if !in.AdvanceToNextVolume() {
			break
		}
	}
	fmt.Println()
	return nil
}

func printTree(f *store.File) error {
	return f.Walk(func(path string, obj interface{}) error {
		indent := strings.Repeat("  ", strings.Count(strings.TrimSuffix(path, "/"), "/"))
		switch o := obj.(type) {
		case *store.Group:
			fmt.Printf("%sGroup %q: %d members\n", indent, o.Path(), len(o.Members()))
			printAttrs(indent, o.Attrs(), o.Attr)
		case *store.Dataset:
			fmt.Printf("%sDataset %q: %s %v\n", indent, o.Name(), o.Datatype(), o.Shape())
			printAttrs(indent, o.Attrs(), o.Attr)
		}
		return nil
	})
}

func printAttrs(indent string, names []string, attr func(string) *store.Attribute) {
	for _, name := range names {
		fmt.Printf("%s  @%s = %s\n", indent, name, attr(name))
	}
}

func printLayout(in *minc.Input) {
	vol := in.Volume()

	fmt.Println("File dimensions:")
	for f, d := range in.FileDimensions() {
		target := "stacked"
		if v := in.Mapping()[f]; v >= 0 {
			target = fmt.Sprintf("volume dimension %d", v)
		}
		fmt.Printf("  %s -> %s\n", d, target)
	}

	fmt.Printf("Volume: %v sizes %v, %s", vol.Names(), vol.Sizes(), vol.Datatype())
	if vol.IsRGBA() {
		fmt.Print(" (packed colour)")
	}
	fmt.Println()

	vmin, vmax := vol.VoxelRange()
	rmin, rmax := vol.RealRange()
	fmt.Printf("Voxel range: [%g, %g]  real range: [%g, %g]\n", vmin, vmax, rmin, rmax)
	fmt.Printf("Separations: %v  translation: %v\n", vol.Separations(), vol.Translation())
	fmt.Printf("Voxel to world:\n%s\n", vol.VoxelToWorld())
	fmt.Printf("Volumes in file: %d, %d dimension(s) per slab", in.VolumeCount(), in.SlabDimensions())
	if in.HasSliceScaling() {
		fmt.Print(", slice scaled")
	}
	fmt.Println()
}

func printStats(k int, vol *minc.Volume) {
	arr := vol.Array()
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for i := 0; i < arr.Len(); i++ {
		v := vol.ConvertVoxelToReal(arr.At(i))
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	mean := 0.0
	if arr.Len() > 0 {
		mean = sum / float64(arr.Len())
	}
	fmt.Printf("  volume %d: %s voxels (%s)  min %g  max %g  mean %g\n",
		k, humanize.Comma(int64(arr.Len())), humanize.Bytes(uint64(len(arr.Bytes()))), lo, hi, mean)
}
