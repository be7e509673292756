package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/minilang"
	"github.com/zephyrtronium/minilang/eval"
)

type options struct {
	config  string
	parser  string
	mode    string
	format  string
	prec    uint
	verb    string
	in      string
	lines   bool
	doEval  bool
	echo    bool
	given   []string
	logLvl  string
	logFile string
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "minilang [flags] [source...]",
		Short: "Parse and evaluate minilang expressions and programs",
		Long: `minilang parses each source given as an argument, or the input file or
standard input if there are none, and prints the parse tree or, with --eval,
the value.

Expressions use + - * / % ^, unary + and -, parentheses, and function calls.
Programs are sequences of definitions:

  var r = 2;
  def area(r) = pi * r^2;`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.config, "config", "", "TOML config file")
	f.StringVarP(&o.parser, "parser", "p", "descent", "expression parser: descent or shunt")
	f.StringVarP(&o.mode, "mode", "m", "expr", "input kind: expr or program")
	f.StringVarP(&o.format, "format", "f", "text", "tree format: text, yaml, or go")
	f.UintVar(&o.prec, "prec", 64, "precision of calculations in bits")
	f.StringVar(&o.verb, "verb", "%g", "result formatting verb")
	f.StringVar(&o.in, "in", "", "input file (default stdin if no sources given)")
	f.BoolVarP(&o.lines, "lines", "n", false, "parse separate input lines as separate sources")
	f.BoolVarP(&o.doEval, "eval", "e", false, "evaluate sources instead of printing trees")
	f.BoolVar(&o.echo, "echo", false, "with --eval, print trees along with results")
	f.StringArrayVar(&o.given, "given", nil, "name=expr variable definition (any number of times)")
	f.StringVar(&o.logLvl, "log-level", "warn", "log level: debug, info, warn, or error")
	f.StringVar(&o.logFile, "log-file", "", "also write JSON logs to this file")
	return cmd
}

// configure applies the config file to options not set by flags.
func (o *options) configure(cmd *cobra.Command) error {
	if o.config == "" {
		return nil
	}
	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if v != "" && !flags.Changed(name) {
			*dst = v
		}
	}
	set("parser", &o.parser, cfg.Parser)
	set("mode", &o.mode, cfg.Mode)
	set("format", &o.format, cfg.Format)
	set("verb", &o.verb, cfg.Verb)
	set("log-level", &o.logLvl, cfg.Log.Level)
	set("log-file", &o.logFile, cfg.Log.File)
	if cfg.Precision != 0 && !flags.Changed("prec") {
		o.prec = cfg.Precision
	}
	// Flag definitions come after config ones so that they win.
	o.given = append(cfg.givens(), o.given...)
	return nil
}

func parserNamed(name string) (minilang.ExpressionParser, error) {
	switch name {
	case "descent", "rd":
		return minilang.RecursiveDescent{}, nil
	case "shunt", "sy":
		return minilang.ShuntingYard{}, nil
	}
	return nil, fmt.Errorf("unknown parser %q (want descent or shunt)", name)
}

func (o *options) run(cmd *cobra.Command, args []string) (err error) {
	if err := o.configure(cmd); err != nil {
		return err
	}
	log, closeLog, err := newLogger(cmd.ErrOrStderr(), o.logLvl, o.logFile)
	if err != nil {
		return err
	}
	defer closeInto(&err, closeLog)
	p, err := parserNamed(o.parser)
	if err != nil {
		return err
	}
	fm, err := formatterNamed(o.format)
	if err != nil {
		return err
	}
	if o.mode != "expr" && o.mode != "program" {
		return fmt.Errorf("unknown mode %q (want expr or program)", o.mode)
	}
	if o.prec == 0 {
		return errors.New("precision must be positive")
	}
	srcs, err := o.sources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	log.Debug("starting", slog.String("parser", o.parser), slog.String("mode", o.mode), slog.Int("sources", len(srcs)))

	ctx := eval.NewContext(eval.Prec(o.prec))
	for _, d := range o.given {
		name, val, err := o.define(ctx, p, d)
		if err != nil {
			return err
		}
		log.Debug("given", slog.String("name", name), slog.String("value", val.String()))
		ctx.Set(name, val)
	}

	r := runner{o: o, log: log, out: cmd.OutOrStdout(), p: p, fm: fm, ctx: ctx}
	for i, src := range srcs {
		if o.mode == "program" {
			err = r.program(i, src)
		} else {
			err = r.expr(i, src)
		}
		if err != nil {
			return err
		}
	}
	if r.failed > 0 {
		return fmt.Errorf("%d of %d evaluations failed", r.failed, r.evals)
	}
	return nil
}

// define evaluates a name=expr definition.
func (o *options) define(ctx *eval.Context, p minilang.ExpressionParser, d string) (string, *big.Float, error) {
	name, src, ok := strings.Cut(d, "=")
	if !ok {
		return "", nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
	}
	name = strings.TrimSpace(name)
	n, err := p.Parse(minilang.Tokenize(src))
	if err != nil {
		return "", nil, fmt.Errorf("setting %s: %w", name, err)
	}
	v, err := ctx.Eval(n)
	if err != nil {
		return "", nil, fmt.Errorf("setting %s: %w", name, err)
	}
	return name, v, nil
}

// sources collects the source texts to parse.
func (o *options) sources(stdin io.Reader, args []string) ([]string, error) {
	var srcs []string
	var in io.Reader
	switch {
	case o.in != "" && o.in != "-":
		f, err := os.Open(o.in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	case o.in == "-", len(args) == 0:
		in = stdin
	}
	if in != nil {
		b, err := io.ReadAll(bufio.NewReader(in))
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		srcs = append(srcs, string(b))
	}
	srcs = append(srcs, args...)
	if !o.lines {
		return srcs, nil
	}
	var lines []string
	for _, src := range srcs {
		for _, line := range strings.Split(src, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// runner handles individual sources.
type runner struct {
	o   *options
	log *slog.Logger
	out io.Writer
	p   minilang.ExpressionParser
	fm  formatter
	ctx *eval.Context

	evals  int
	failed int
}

func (r *runner) expr(i int, src string) error {
	n, err := r.p.Parse(minilang.Tokenize(src))
	if err != nil {
		r.log.Error("parse failed", slog.Int("source", i+1), slog.Any("err", err))
		return fmt.Errorf("source %d: %w", i+1, err)
	}
	r.log.Debug("parsed", slog.Int("source", i+1), slog.String("tree", n.String()))
	if !r.o.doEval {
		return r.fm.node(r.out, n)
	}
	if r.o.echo {
		if err := r.fm.node(r.out, n); err != nil {
			return err
		}
	}
	r.evals++
	v, err := r.ctx.Eval(n)
	if err != nil {
		r.failed++
		r.log.Warn("evaluation failed", slog.Int("source", i+1), slog.Any("err", err))
		_, werr := fmt.Fprintln(r.out, err)
		return werr
	}
	_, err = fmt.Fprintf(r.out, r.o.verb+"\n", v)
	return err
}

func (r *runner) program(i int, src string) error {
	defs, err := minilang.ParseProgramString(src, r.p)
	if err != nil {
		r.log.Error("parse failed", slog.Int("source", i+1), slog.Any("err", err))
		return fmt.Errorf("source %d: %w", i+1, err)
	}
	r.log.Debug("parsed program", slog.Int("source", i+1), slog.Int("definitions", len(defs)))
	if !r.o.doEval {
		return r.fm.program(r.out, defs)
	}
	if r.o.echo {
		if err := r.fm.program(r.out, defs); err != nil {
			return err
		}
	}
	for _, d := range defs {
		v, ok := d.(*minilang.VarDef)
		if ok {
			r.evals++
		}
		if err := r.ctx.Run([]minilang.Definition{d}); err != nil {
			r.failed++
			// Later definitions may depend on this one, so skip the rest.
			r.log.Warn("definition failed", slog.Int("source", i+1), slog.Any("err", err))
			_, werr := fmt.Fprintln(r.out, err)
			return werr
		}
		if ok {
			if _, err := fmt.Fprintf(r.out, "%s = "+r.o.verb+"\n", v.Name, r.ctx.Lookup(v.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}
