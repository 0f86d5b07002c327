package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/gocalc"
	"github.com/sandrolain/gocalc/pkg/ext"
	"github.com/sandrolain/gocalc/pkg/ext/extbig"
	"github.com/sandrolain/gocalc/pkg/format"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// paramFlags collects repeated -p name=value flags in order.
type paramFlags []string

func (p *paramFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *paramFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	*p = append(*p, v)
	return nil
}

type config struct {
	expr       string
	file       string
	params     paramFlags
	paramsFile string
	format     bool
	refs       bool
	big        bool
	ext        bool
	json       bool
	debug      bool
	timeout    time.Duration
}

type app struct {
	fs      billy.Filesystem
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	cfg     config
	logger  *slog.Logger
	printer format.Printer
}

// run executes the command and returns its exit status.
func run(fs billy.Filesystem, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{fs: fs, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := a.parseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "gocalc: %v\n", err)
		return exitUsage
	}

	level := slog.LevelWarn
	if a.cfg.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if a.cfg.big {
		a.printer.Literal = extbig.Format
	}

	if a.cfg.json {
		return a.runJSON()
	}

	if err := a.runOnce(); err != nil {
		fmt.Fprintf(stderr, "gocalc: %v\n", err)
		return exitError
	}
	return exitOK
}

func (a *app) parseFlags(args []string) error {
	fset := flag.NewFlagSet("gocalc", flag.ContinueOnError)
	fset.SetOutput(a.stderr)
	fset.Usage = func() {
		fmt.Fprintln(fset.Output(), "usage: gocalc [flags] [expression]")
		fset.PrintDefaults()
	}

	c := &a.cfg
	fset.StringVar(&c.expr, "e", "", "expression to evaluate")
	fset.StringVar(&c.file, "f", "", "read the expression from `file`")
	fset.Var(&c.params, "p", "parameter as `name=value`; value is a formula literal, else a string (repeatable)")
	fset.StringVar(&c.paramsFile, "params", "", "YAML or JSON `file` mapping parameter names to values")
	fset.BoolVar(&c.format, "format", false, "print the canonical expression instead of evaluating it")
	fset.BoolVar(&c.refs, "refs", false, "print the parameters and functions the expression refers to")
	fset.BoolVar(&c.big, "big", false, "use exact rational arithmetic")
	fset.BoolVar(&c.ext, "ext", false, "enable the extension functions")
	fset.BoolVar(&c.json, "json", false, "read a JSON request from stdin and write a JSON response")
	fset.BoolVar(&c.debug, "debug", false, "log evaluation details to stderr")
	fset.DurationVar(&c.timeout, "timeout", 0, "abort evaluation after `duration`")

	if err := fset.Parse(args); err != nil {
		return err
	}
	if c.json {
		if c.expr != "" || c.file != "" || fset.NArg() > 0 {
			return errors.New("-json reads the expression from stdin")
		}
		return nil
	}

	sources := 0
	for _, set := range []bool{c.expr != "", c.file != "", fset.NArg() > 0} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		fset.Usage()
		return errors.New("no expression given")
	case sources > 1 || fset.NArg() > 1:
		return errors.New("give exactly one expression, as an argument, with -e or with -f")
	}
	if c.format && c.refs {
		return errors.New("-format and -refs are mutually exclusive")
	}
	if fset.NArg() == 1 {
		c.expr = fset.Arg(0)
	}
	return nil
}

func (a *app) runOnce() error {
	source := a.cfg.expr
	if a.cfg.file != "" {
		data, err := a.readFile(a.cfg.file)
		if err != nil {
			return err
		}
		source = strings.TrimSpace(string(data))
	}

	switch {
	case a.cfg.format:
		expr, err := gocalc.Parse(source, a.compileOptions()...)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, a.printer.Node(expr.AST()))
		return nil
	case a.cfg.refs:
		expr, err := gocalc.Parse(source, a.compileOptions()...)
		if err != nil {
			return err
		}
		refs := gocalc.CollectReferences(expr)
		fmt.Fprintf(a.stdout, "parameters: %s\n", strings.Join(refs.Parameters, ", "))
		fmt.Fprintf(a.stdout, "functions: %s\n", strings.Join(refs.Functions, ", "))
		fmt.Fprintf(a.stdout, "builtins: %s\n", strings.Join(refs.Builtins, ", "))
		return nil
	}

	params, err := a.loadParams()
	if err != nil {
		return err
	}
	result, err := gocalc.Evaluate(source, a.evalOptions(params)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, a.printer.Value(result))
	return nil
}

type request struct {
	Expression string                 `json:"expression"`
	Params     map[string]interface{} `json:"params"`
}

type response struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (a *app) runJSON() int {
	var req request
	if err := json.NewDecoder(a.stdin).Decode(&req); err != nil {
		return a.writeResponse(response{Error: "invalid request JSON: " + err.Error()}, exitError)
	}
	params, err := normalizeParams(req.Params)
	if err != nil {
		return a.writeResponse(response{Error: err.Error()}, exitError)
	}
	result, err := gocalc.Evaluate(req.Expression, a.evalOptions(params)...)
	if err != nil {
		return a.writeResponse(response{Error: err.Error()}, exitError)
	}
	return a.writeResponse(response{Result: a.jsonValue(result)}, exitOK)
}

func (a *app) writeResponse(r response, code int) int {
	if err := json.NewEncoder(a.stdout).Encode(r); err != nil {
		fmt.Fprintf(a.stderr, "gocalc: %v\n", err)
		return exitError
	}
	return code
}

// jsonValue converts a result to a value encoding/json accepts: non-finite
// numbers and caller types become their display text.
func (a *app) jsonValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return a.printer.Value(x)
		}
		return x
	case string, bool, nil, time.Time:
		return x
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = a.jsonValue(item)
		}
		return out
	default:
		return a.printer.Value(x)
	}
}

func (a *app) compileOptions() []parser.CompileOption {
	if a.cfg.big {
		return []parser.CompileOption{parser.WithLiteralFactory(extbig.Literals{})}
	}
	return nil
}

func (a *app) evalOptions(params map[string]interface{}) []gocalc.Option {
	opts := []gocalc.Option{
		gocalc.WithParams(params),
		gocalc.WithLogger(a.logger),
		gocalc.WithDebug(a.cfg.debug),
		gocalc.WithTimeout(a.cfg.timeout),
	}
	if a.cfg.ext {
		opts = append(opts, gocalc.WithEvalOptions(ext.WithAll()))
	}
	if a.cfg.big {
		opts = append(opts, gocalc.WithEvalOptions(extbig.Options()...))
	}
	return opts
}

// loadParams merges the parameter file with the -p flags; flags win.
func (a *app) loadParams() (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if a.cfg.paramsFile != "" {
		data, err := a.readFile(a.cfg.paramsFile)
		if err != nil {
			return nil, err
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", a.cfg.paramsFile, err)
		}
		if params, err = normalizeParams(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", a.cfg.paramsFile, err)
		}
	}

	for _, p := range a.cfg.params {
		name, text, _ := strings.Cut(p, "=")
		params[name] = a.paramValue(text)
	}

	if a.cfg.debug {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		a.logger.Debug("parameters loaded", "names", names)
	}
	return params, nil
}

// paramValue evaluates text as a formula without parameters; text that does
// not evaluate is taken as a plain string.
func (a *app) paramValue(text string) interface{} {
	var opts []gocalc.Option
	if a.cfg.big {
		opts = append(opts, gocalc.WithEvalOptions(extbig.Options()...))
	}
	v, err := gocalc.Evaluate(text, opts...)
	if err != nil {
		a.logger.Debug("parameter taken as string", "text", text, "reason", err)
		return text
	}
	return v
}

func (a *app) readFile(name string) ([]byte, error) {
	if !filepath.IsAbs(name) {
		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, err
		}
		name = abs
	}
	data, err := util.ReadFile(a.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// normalizeParams converts decoded YAML or JSON values to runtime values:
// integers become numbers and sequences become lists.
func normalizeParams(raw map[string]interface{}) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(raw))
	for name, v := range raw {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		params[name] = nv
	}
	return params, nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil, float64, string, bool, time.Time:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			nv, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", types.TypeName(v))
	}
}
