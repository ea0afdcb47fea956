package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avrlang/rpnc/api"
	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/compile"
	"github.com/avrlang/rpnc/config"
	"github.com/avrlang/rpnc/debugger"
	"github.com/avrlang/rpnc/encoder"
	"github.com/avrlang/rpnc/loader"
	"github.com/avrlang/rpnc/tacopt"
	"github.com/avrlang/rpnc/tools"
)

// Version is set by git tag at build time.
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		nivel       = flag.String("nivel", "completo", "Optimization level: folding, propagation, dead_code, completo")
		output      = flag.String("output", "", "Assembly output file (default: stdout)")
		baud        = flag.Int("baud", 9600, "UART baud rate: 9600 or 115200")
		debugTarget = flag.Bool("debug", false, "Emit debug print hooks in generated assembly")
		tuiMode     = flag.Bool("tui", false, "Launch the interactive phase debugger")
		apiServer   = flag.Bool("api-server", false, "Start the HTTP compile service")
		apiPort     = flag.Int("port", 8080, "Compile service port (used with -api-server)")
		lint        = flag.Bool("lint", false, "Run the source linter and exit")
		xref        = flag.Bool("xref", false, "Print a named-memory cross-reference report and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rpnc %s\n", Version)
		os.Exit(0)
	}
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	srcPath := flag.Arg(0)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if !isFlagSet("nivel") {
		*nivel = cfg.Optimize.Level
	}
	if !isFlagSet("baud") {
		*baud = cfg.Target.Baud
	}

	lines, err := loader.ReadProgram(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *lint {
		runLint(lines)
		return
	}

	level, err := tacopt.ParseLevel(*nivel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session := compile.NewSession()
	var results []*compile.LineResult
	hasErrors := false

	for _, l := range loader.CodeLines(lines) {
		result, diag := session.CompileLine(l.Number, l.Text)
		if diag != nil {
			fmt.Fprintln(os.Stderr, diag.Error())
			hasErrors = true
			continue
		}
		for _, warn := range result.Warnings {
			fmt.Fprintln(os.Stderr, warn.Error())
		}
		results = append(results, result)
	}

	if hasErrors {
		os.Exit(1)
	}

	if *xref {
		runXref(results)
		return
	}

	target := encoder.Target{Baud: *baud, Debug: *debugTarget}

	if *tuiMode {
		session.Optimize(level)
		t := debugger.NewTUI(session, lines, results, target, level)
		if err := t.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	session.Optimize(level)
	asm, err := session.Generate(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating assembly: %v\n", err)
		os.Exit(1)
	}
	asm = tools.FormatAssembly(asm)

	if *output == "" {
		fmt.Print(asm)
		return
	}
	if err := os.WriteFile(*output, []byte(asm), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "compile service error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down compile service...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}

func runLint(lines []loader.Line) {
	raw := make([]string, len(lines))
	for i, l := range lines {
		raw[i] = l.Text
	}
	issues := tools.Lint(raw)
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			if issue.Level == tools.LintError {
				os.Exit(1)
			}
		}
	}
}

func runXref(results []*compile.LineResult) {
	trees := make([]ast.Node, 0, len(results))
	for _, r := range results {
		trees = append(trees, r.AST)
	}

	usage := tools.CrossReference(trees)
	for _, name := range tools.Names(usage) {
		u := usage[name]
		fmt.Printf("%s: stores=%v recalls=%v\n", name, u.Stores, u.Recalls)
	}
}

func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printHelp() {
	fmt.Printf(`rpnc %s - RPN to AVR assembly compiler

Usage: rpnc [options] <source-file>
       rpnc -api-server [-port N]

Options:
  -help             Show this help message
  -version          Show version information
  -nivel LEVEL      Optimization level: folding, propagation, dead_code, completo (default: completo)
  -output FILE      Assembly output file (default: stdout)
  -baud N           UART baud rate: 9600 or 115200 (default: 9600)
  -debug            Emit debug print hooks in generated assembly
  -tui              Launch the interactive phase debugger
  -lint             Run the source linter and exit
  -xref             Print a named-memory cross-reference report and exit
  -api-server       Start the HTTP compile service
  -port N           Compile service port (default: 8080, used with -api-server)

Examples:
  rpnc program.rpn
  rpnc -nivel completo -baud 115200 -output program.s program.rpn
  rpnc -tui program.rpn
  rpnc -api-server -port 3000
`, Version)
}
