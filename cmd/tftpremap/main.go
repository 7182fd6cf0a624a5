// Command tftpremap is the CLI entry point for the rewrite engine: a
// thin wrapper that loads configuration, wires the engine, and exposes
// it as a pair of subcommands, the CLI analogue of this corpus's own
// thin application-root-over-use-case-layer shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tftpremap/internal/bootstrap"
	"tftpremap/internal/domain"
	"tftpremap/internal/rules"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:])
	case "apply":
		return runApply(args[1:])
	default:
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: tftpremap check <rules-file>")
	fmt.Fprintln(os.Stderr, "       tftpremap apply [-mode rrq|wrq] [-family v4|v6] [-verbose n] <rules-file> <filename>")
}

// runCheck parses a rules file and reports only whether it is
// well-formed, the CLI surface for spec.md §4.1's "config-error status"
// exit path.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		printUsage()
		return 2
	}

	if _, err := rules.ParseFile(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// runApply parses a rules file and runs one rewrite against filename.
func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	mode := fs.String("mode", "rrq", "transfer mode: rrq or wrq")
	family := fs.String("family", "v4", "address family: v4 or v6")
	verbose := fs.Int("verbose", 0, "decision log verbosity")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		printUsage()
		return 2
	}

	m, err := parseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	fam, err := parseFamily(*family)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	svc, err := bootstrap.BuildWithRulesFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	svc.Engine.SetLogger(rules.NewStdLogger(nil, *verbose))
	maybeServeMetrics(svc.Config.Metrics.ListenAddr)

	result, err := svc.Engine.Rewrite(context.Background(), fs.Arg(1), m, fam, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println(result)
	return 0
}

func parseMode(s string) (domain.Mode, error) {
	switch s {
	case "rrq", "read", "get":
		return domain.ModeRead, nil
	case "wrq", "write", "put":
		return domain.ModeWrite, nil
	}
	return 0, fmt.Errorf("invalid -mode %q", s)
}

func parseFamily(s string) (domain.Family, error) {
	switch s {
	case "v4", "4", "ipv4":
		return domain.FamilyV4, nil
	case "v6", "6", "ipv6":
		return domain.FamilyV6, nil
	}
	return 0, fmt.Errorf("invalid -family %q", s)
}

func maybeServeMetrics(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
