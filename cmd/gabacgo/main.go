// Command gabacgo compresses files of fixed-width symbols with the GABAC
// entropy coder.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/kr/pretty"
	"github.com/ogier/pflag"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/binarize"
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/internal/tuning"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/xlog"
)

const usageStr = `Usage: gabacgo [OPTION]... [FILE]
Compress or uncompress FILE with the GABAC entropy coder (by default,
compress FILE into FILE.gbc).

  -a, --analyze       search the configuration coding FILE best
  -C, --config=FILE   subsequence configuration in JSON or YAML
  -c, --stdout        write to standard output
  -d, --decompress    decompress
  -o, --output=FILE   write to FILE
  -w, --width=N       bytes per symbol: 1, 2, 4 or 8; default 1
  -p, --print-config  print the configuration and exit
  -s, --stats         compare the compressed size with zstd
  -D, --debug         trace the coder on standard error
  -h, --help          give this help

With no FILE, or when FILE is -, read standard input.
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

type options struct {
	analyze     bool
	config      string
	stdout      bool
	decompress  bool
	output      string
	width       int
	printConfig bool
	stats       bool
	debug       bool
}

var logger zerolog.Logger

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return os.ReadFile(path)
}

func outputPath(path string, opts *options) (string, error) {
	switch {
	case opts.output != "":
		return opts.output, nil
	case opts.stdout || path == "-":
		return "-", nil
	case opts.decompress:
		if !strings.HasSuffix(path, gabacSuffix) ||
			filepath.Base(path) == gabacSuffix {
			return "", fmt.Errorf("path %s has no suffix %s",
				path, gabacSuffix)
		}
		return strings.TrimSuffix(path, gabacSuffix), nil
	}
	if strings.HasSuffix(path, gabacSuffix) {
		return "", fmt.Errorf("path %s has suffix %s -- ignored",
			path, gabacSuffix)
	}
	return path + gabacSuffix, nil
}

func loadConfig(path string) (*param.Subsequence, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration required; use --config")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return param.LoadConfig(f)
}

func zstdSize(data []byte) (int, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return len(enc.EncodeAll(data, nil)), nil
}

func run(path string, opts *options) error {
	out, err := outputPath(path, opts)
	if err != nil {
		return err
	}
	if out == "-" && !opts.decompress && term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("compressed data not written to a terminal")
	}
	data, err := readInput(path)
	if err != nil {
		return err
	}
	start := time.Now()
	var result []byte
	if opts.decompress {
		result, err = decompress(data)
	} else {
		var cfg *param.Subsequence
		switch {
		case opts.analyze && opts.config != "":
			return fmt.Errorf("--analyze and --config exclude each other")
		case opts.analyze:
			cfg, err = analyze(data, opts.width)
		default:
			cfg, err = loadConfig(opts.config)
		}
		if err != nil {
			return err
		}
		result, err = compress(cfg, data, opts.width)
	}
	if err != nil {
		return err
	}
	logger.Info().
		Str("input", path).
		Str("output", out).
		Int("in", len(data)).
		Int("out", len(result)).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	if opts.stats && !opts.decompress {
		z, err := zstdSize(data)
		if err != nil {
			return err
		}
		logger.Info().
			Int("gabac", len(result)).
			Int("zstd", z).
			Msg("stats")
	}
	return writeFile(out, result)
}

// analyze searches the configuration for the symbols of data.
func analyze(data []byte, width int) (*param.Subsequence, error) {
	if !validWidth(width) {
		return nil, fmt.Errorf("unsupported symbol width %d", width)
	}
	s, err := symbols(data, width)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	r, err := tuning.Analyze(0, s)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Stringer("transform", r.Config.Transform.ID()).
		Int("size", r.Size).
		Int("tried", r.Tried).
		Dur("elapsed", time.Since(start)).
		Msg("analyze")
	logger.Debug().Msgf("configuration %# v", pretty.Formatter(r.Config.JSON()))
	return r.Config, nil
}

func printConfig(opts *options) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%# v\n", pretty.Formatter(cfg.JSON()))
	for i := range cfg.Streams {
		sv, err := cfg.Streams[i].StateVars()
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "stream %d: %# v\n", i, pretty.Formatter(sv))
	}
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}

func main() {
	cmdName := filepath.Base(os.Args[0])
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("cmd", cmdName).Logger().
		Level(zerolog.WarnLevel)

	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.SetInterspersed(true)
	pflag.Usage = func() { usage(os.Stderr); os.Exit(1) }
	var opts options
	help := pflag.BoolP("help", "h", false, "")
	pflag.BoolVarP(&opts.analyze, "analyze", "a", false, "")
	pflag.StringVarP(&opts.config, "config", "C", "", "")
	pflag.BoolVarP(&opts.stdout, "stdout", "c", false, "")
	pflag.BoolVarP(&opts.decompress, "decompress", "d", false, "")
	pflag.StringVarP(&opts.output, "output", "o", "", "")
	pflag.IntVarP(&opts.width, "width", "w", 1, "")
	pflag.BoolVarP(&opts.printConfig, "print-config", "p", false, "")
	pflag.BoolVarP(&opts.stats, "stats", "s", false, "")
	pflag.BoolVarP(&opts.debug, "debug", "D", false, "")
	pflag.Parse()

	if *help {
		usage(os.Stdout)
		os.Exit(0)
	}
	if opts.stats || opts.debug || opts.analyze {
		logger = logger.Level(zerolog.InfoLevel)
	}
	if opts.debug {
		logger = logger.Level(zerolog.DebugLevel)
		cabac.SetDebug(xlog.Zerolog(logger, "cabac"))
		binarize.SetDebug(xlog.Zerolog(logger, "binarize"))
		gabac.SetDebug(xlog.Zerolog(logger, "gabac"))
	}
	if opts.printConfig {
		if err := printConfig(&opts); err != nil {
			logger.Fatal().Err(err).Msg("print configuration")
		}
		return
	}

	path := "-"
	switch pflag.NArg() {
	case 0:
	case 1:
		path = pflag.Arg(0)
	default:
		logger.Fatal().Msgf("one file at most; for help, type %s -h",
			cmdName)
	}
	if err := run(path, &opts); err != nil {
		logger.Fatal().Err(err).Str("input", path).Msg("failed")
	}
}
