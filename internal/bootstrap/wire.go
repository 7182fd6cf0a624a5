// Package bootstrap assembles the runtime graph for tftpremap: config,
// the compiled rule list, the rewrite engine, and its default adapters.
package bootstrap

import (
	"os"

	"tftpremap/internal/config"
	"tftpremap/internal/macro"
	"tftpremap/internal/metrics"
	"tftpremap/internal/rules"
	"tftpremap/internal/validate"
)

// Services is the assembled runtime graph.
type Services struct {
	Engine  *rules.Engine
	Config  config.Config
	Logger  rules.Logger
	Metrics *metrics.Registry
}

// Build wires all backend dependencies for the current runtime: it loads
// configuration, parses the configured rule file, and constructs an
// Engine carrying the default RootValidator, StaticExpander, StdLogger,
// and metrics Registry.
func Build() (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	return build(cfg)
}

// BuildWithRulesFile wires the same runtime graph as Build, but parses
// rulesPath in place of the file config.Load would have resolved from
// the environment — the path a one-shot CLI invocation names explicitly
// on its command line takes precedence over TFTPREMAP_RULES_FILE.
func BuildWithRulesFile(rulesPath string) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	cfg.Rules.Path = rulesPath
	return build(cfg)
}

func build(cfg config.Config) (Services, error) {
	ruleList, err := rules.ParseFile(cfg.Rules.Path)
	if err != nil {
		return Services{}, err
	}

	logger := rules.NewStdLogger(nil, cfg.Log.Verbosity)
	reg := metrics.NewRegistry()

	hostname, _ := os.Hostname()
	macroExpander := macro.NewStaticExpander("0.0.0.0", hostname, os.Getpid())
	validator := validate.NewRootValidator(cfg.Validate.RootDir)

	engine := rules.NewEngine(ruleList,
		rules.WithDeadmanSteps(cfg.Rules.DeadmanSteps),
		rules.WithValidator(validator),
		rules.WithMacroExpander(macroExpander),
		rules.WithLogger(logger),
		rules.WithMetrics(reg),
	)

	return Services{Engine: engine, Config: cfg, Logger: logger, Metrics: reg}, nil
}

// Reload re-parses the configured rule file and, on success, replaces
// the RuleList backing svc.Engine. Hot reload is a full replacement, not
// an incremental patch (spec.md Non-goals: no hot-reload semantics
// beyond this).
func Reload(svc Services) error {
	ruleList, err := rules.ParseFile(svc.Config.Rules.Path)
	if err != nil {
		return err
	}
	svc.Engine.Replace(ruleList)
	return nil
}
