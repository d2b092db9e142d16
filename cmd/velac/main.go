package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/velalang/vela/internal/analyzer"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/modules"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/types"
)

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

type cliArgs struct {
	file       string
	configPath string
	noColor    bool
	dumpTypes  bool
	maxRounds  int
}

func parseArgs(argv []string) (*cliArgs, error) {
	args := &cliArgs{}
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--no-color":
			args.noColor = true
		case arg == "--dump-types":
			args.dumpTypes = true
		case arg == "--config":
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("--config requires a path")
			}
			args.configPath = argv[i]
		case strings.HasPrefix(arg, "--config="):
			args.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--max-rounds":
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("--max-rounds requires a number")
			}
			n, err := strconv.Atoi(argv[i])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid --max-rounds value %q", argv[i])
			}
			args.maxRounds = n
		case strings.HasPrefix(arg, "--max-rounds="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--max-rounds="))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid --max-rounds value %q", arg)
			}
			args.maxRounds = n
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			if args.file != "" {
				return nil, fmt.Errorf("only one source file expected")
			}
			args.file = arg
		}
	}
	return args, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: velac [--config vela.yaml] [--no-color] [--dump-types] [--max-rounds N] file"+config.SourceFileExt)
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	opts, err := loadOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	file := args.file
	if file == "" {
		file = opts.Entry
	}
	if file == "" {
		usage()
		os.Exit(1)
	}
	if !isSourceFile(file) {
		fmt.Fprintf(os.Stderr, "%s is not a %s source file\n", file, config.SourceFileExt)
		os.Exit(1)
	}

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	maxRounds := opts.MaxSpecializationRounds
	if args.maxRounds > 0 {
		maxRounds = args.maxRounds
	}

	loader := modules.NewLoader(opts.SearchPaths)
	loader.MaxRounds = maxRounds

	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = file
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticProcessor{Loader: loader, MaxRounds: maxRounds},
	).Run(ctx)

	reporter := diagnostics.NewReporter(os.Stderr)
	if args.noColor || opts.Color == "never" {
		reporter.SetColors(false)
	} else if opts.Color == "always" {
		reporter.SetColors(true)
	}
	errCount := reporter.Report(ctx.Errors)

	if args.dumpTypes && ctx.TypeRegistry != nil && ctx.Scope != nil {
		dumpTypes(ctx.TypeRegistry, ctx.Scope)
	}

	if errCount > 0 {
		os.Exit(1)
	}
}

func loadOptions(args *cliArgs) (*config.Options, error) {
	path := args.configPath
	if path == "" {
		dir, err := os.Getwd()
		if err == nil {
			path = config.FindProjectFile(dir)
		}
	}
	if path == "" {
		return config.DefaultOptions(), nil
	}
	opts, err := config.LoadOptions(path)
	if err != nil {
		return nil, err
	}
	// Paths in the project file are relative to it.
	base := filepath.Dir(path)
	for i, sp := range opts.SearchPaths {
		if !filepath.IsAbs(sp) {
			opts.SearchPaths[i] = filepath.Join(base, sp)
		}
	}
	if opts.Entry != "" && !filepath.IsAbs(opts.Entry) {
		opts.Entry = filepath.Join(base, opts.Entry)
	}
	return opts, nil
}

// dumpTypes prints every named type and every function
// specialization of the entry module.
func dumpTypes(reg *types.Registry, scope *symbols.Scope) {
	for _, t := range reg.Types() {
		fmt.Printf("type %s = %s\n", t.Name, t)
	}

	names := scope.Names()
	sort.Strings(names)
	for _, name := range names {
		sym := scope.ResolveLocal(name)
		if sym == nil || sym.Type == nil || sym.Type.Resolve().Kind != types.KindFunction {
			continue
		}
		for _, spec := range sym.Type.Resolve().Function.Specializations {
			params := make([]string, len(spec.ParamTypes))
			for i, p := range spec.ParamTypes {
				params[i] = p.String()
			}
			ret := "?"
			if spec.ReturnType != nil {
				ret = spec.ReturnType.String()
			}
			fmt.Printf("func %s(%s): %s\n", spec.Name, strings.Join(params, ", "), ret)
		}
	}
}
