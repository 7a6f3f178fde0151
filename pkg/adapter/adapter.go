package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
	"github.com/scan-io-git/lint-adapters/pkg/process"
	"github.com/scan-io-git/lint-adapters/pkg/resolver"
)

// Deps are the collaborators an adapter is built with.
type Deps struct {
	Invoker process.Invoker
	Logger  hclog.Logger
	Env     Env
}

// Adapter is one configured linter. Configure must complete before Lint is
// called; after that an Adapter is safe for concurrent use.
type Adapter struct {
	def        Definition
	deps       Deps
	logger     hclog.Logger
	schema     lint.Schema
	values     lint.Values
	classifier *lint.Classifier

	strategyOnce sync.Once
	strategy     resolver.Strategy
}

// New builds an adapter for def.
func New(def Definition, deps Deps) *Adapter {
	logger := deps.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if deps.Invoker == nil {
		deps.Invoker = process.NewExec(logger)
	}
	return &Adapter{
		def:        def,
		deps:       deps,
		logger:     logger.Named(def.Name),
		schema:     def.schema(),
		values:     lint.Values{},
		classifier: &lint.Classifier{Default: def.DefaultSeverity},
	}
}

// Name returns the configuration name.
func (a *Adapter) Name() string { return a.def.Name }

// DisplayName returns the default finding name.
func (a *Adapter) DisplayName() string { return a.def.displayName() }

// Info describes the wrapped tool.
func (a *Adapter) Info() Info { return a.def.Info }

// Definition returns a copy of the definition the adapter was built from.
func (a *Adapter) Definition() Definition { return a.def }

// Options returns the merged option schema.
func (a *Adapter) Options() lint.Schema { return a.schema }

// Values returns the configured option values. Callers must not modify them.
func (a *Adapter) Values() lint.Values { return a.values }

// Env returns the environment the adapter was built with.
func (a *Adapter) Env() Env { return a.deps.Env }

// Invoker returns the process invoker, for Skip hooks that inspect the system.
func (a *Adapter) Invoker() process.Invoker { return a.deps.Invoker }

// Logger returns the adapter's named logger.
func (a *Adapter) Logger() hclog.Logger { return a.logger }

// Classifier returns the severity classifier including configured overrides.
func (a *Adapter) Classifier() *lint.Classifier { return a.classifier }

// Configure sets one option. Keys no schema fragment declares are rejected.
func (a *Adapter) Configure(key string, value interface{}) error {
	opt, owner, ok := a.schema.Lookup(key)
	if !ok {
		return lint.NewOptionError(a.def.Name, key, lint.ErrUnknownOption)
	}
	coerced, err := lint.Coerce(opt.Type, value)
	if err != nil {
		return lint.NewOptionError(a.def.Name, key, err)
	}
	if a.def.ValidateOption != nil {
		if err := a.def.ValidateOption(key, coerced); err != nil {
			return lint.NewOptionError(a.def.Name, key, err)
		}
	}
	if err := a.apply(key, coerced); err != nil {
		return lint.NewOptionError(a.def.Name, key, err)
	}
	a.values[key] = coerced
	// Options may change how the binary is found.
	a.strategyOnce = sync.Once{}
	a.strategy = nil
	a.logger.Trace("option configured", "key", key, "owner", owner)
	return nil
}

// ConfigureAll sets every option in values and reports all failures together.
func (a *Adapter) ConfigureAll(values map[string]interface{}) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result *multierror.Error
	for _, key := range keys {
		if err := a.Configure(key, values[key]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Root returns the directory the tool binary is looked up in. Tools always run
// from the project root so that target paths stay valid.
func (a *Adapter) Root() string {
	if a.def.Family.Root != nil {
		return a.def.Family.Root(a)
	}
	return a.deps.Env.Root
}

func (a *Adapter) binOverride() string {
	if bin := a.values.String(a.def.Name + ".bin"); bin != "" {
		return bin
	}
	return a.values.String(OptionBin)
}

// Resolve locates the executable. The result is cached until the next Configure.
func (a *Adapter) Resolve(ctx context.Context) resolver.Resolution {
	a.strategyOnce.Do(func() {
		var s resolver.Strategy = resolver.Global{}
		switch {
		case a.binOverride() != "":
			s = resolver.Fixed{Executable: a.binOverride()}
		case a.def.Family.Resolver != nil:
			s = a.def.Family.Resolver(a)
		}
		a.strategy = resolver.NewCached(s)
	})
	res := a.strategy.Resolve(ctx, a.def.Binary, a.Root())
	res.Dir = a.deps.Env.Root
	return res
}

// Flags returns mandatory followed by default (or configured) flags.
func (a *Adapter) Flags() []string {
	var flags []string
	if a.def.MandatoryFlags != nil {
		flags = append(flags, a.def.MandatoryFlags(a.values, a.deps.Env)...)
	}
	switch {
	case a.values.Has(OptionFlags):
		flags = append(flags, a.values.List(OptionFlags)...)
	case a.def.DefaultFlags != nil:
		flags = append(flags, a.def.DefaultFlags(a.values)...)
	}
	return flags
}

// Command assembles the command line that lints path.
func (a *Adapter) Command(ctx context.Context, path string) process.Command {
	res := a.Resolve(ctx)
	args := append(a.Flags(), path)

	cmd := process.Command{Executable: res.Executable, Dir: res.Dir, Args: args}
	if interp := a.interpreter(); len(interp) > 0 {
		cmd.Executable = interp[0]
		cmd.Args = append(append(append([]string{}, interp[1:]...), res.Executable), args...)
	}
	return cmd
}

// InstallInstructions returns the hint shown when the binary is missing or outdated.
func (a *Adapter) InstallInstructions() string {
	if a.def.Family.Install != nil {
		return a.def.Family.Install(a)
	}
	return a.def.Install
}

// Lint runs the tool on one file and returns its findings.
func (a *Adapter) Lint(ctx context.Context, path string) ([]lint.Finding, error) {
	in := &parser.Input{
		Linter:     a.def.Name,
		Path:       path,
		Classifier: a.classifier,
		Values:     a.values,
	}

	if a.def.Builtin || parser.NeedsContent(a.def.Parser) {
		content, err := os.ReadFile(a.abs(path))
		if err != nil {
			return nil, fmt.Errorf("linter %q: reading %s: %w", a.def.Name, path, err)
		}
		in.Original = string(content)
	}

	policy := a.def.exitPolicy()
	if a.def.Builtin {
		policy = parser.ExitPolicy{Otherwise: parser.Parse}
	} else {
		cmd := a.Command(ctx, path)
		in.Args = append([]string{cmd.Executable}, cmd.Args...)

		res, err := a.deps.Invoker.Invoke(ctx, cmd)
		if err != nil {
			if process.IsNotFound(err) {
				return nil, &lint.MissingBinaryError{
					Linter:       a.def.Name,
					Binary:       cmd.Executable,
					Instructions: a.InstallInstructions(),
					Err:          err,
				}
			}
			return nil, fmt.Errorf("linter %q: running %s: %w", a.def.Name, cmd.String(), err)
		}
		in.ExitCode, in.Stdout, in.Stderr = res.ExitCode, res.Stdout, res.Stderr
	}

	findings, err := parser.Run(policy, a.def.Parser, in)
	if err != nil {
		return nil, err
	}
	return a.normalize(in, findings)
}

func (a *Adapter) normalize(in *parser.Input, findings []lint.Finding) ([]lint.Finding, error) {
	out := make([]lint.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Path == "" {
			f.Path = in.Path
		}
		if f.Name == "" {
			f.Name = a.def.displayName()
		}
		if f.Code == "" {
			f.Code = a.def.displayName()
		}
		if err := f.Validate(); err != nil {
			return nil, in.ParseError(err)
		}
		out = append(out, f)
	}
	return out, nil
}

func (a *Adapter) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.deps.Env.Root, path)
}

// Version reports the installed tool version. The second result is false when
// it could not be determined, which callers treat as a warning.
func (a *Adapter) Version(ctx context.Context) (string, bool) {
	query := a.def.Version
	if query == nil || a.def.Builtin {
		return "", false
	}
	res := a.Resolve(ctx)
	cmd := process.Command{Executable: res.Executable, Dir: res.Dir, Args: query.Args}
	if interp := a.interpreter(); len(interp) > 0 {
		cmd.Executable = interp[0]
		cmd.Args = append(append(append([]string{}, interp[1:]...), res.Executable), query.Args...)
	}

	out, err := a.deps.Invoker.Invoke(ctx, cmd)
	if err != nil {
		a.logger.Debug("version query failed", "cmd", cmd.String(), "error", err)
		return "", false
	}
	text := out.Stdout
	if query.Stderr {
		text = out.Stderr
	}
	m := query.Pattern.FindStringSubmatch(strings.TrimSpace(text))
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// CheckVersion enforces the version option, if configured.
func (a *Adapter) CheckVersion(ctx context.Context) error {
	required := a.values.String(OptionVersion)
	if required == "" {
		return nil
	}
	outdated := &lint.OutdatedError{Linter: a.def.Name, Required: required, Instructions: a.InstallInstructions()}

	constraint, err := semver.NewConstraint(required)
	if err != nil {
		return lint.NewOptionError(a.def.Name, OptionVersion, err)
	}
	found, ok := a.Version(ctx)
	if !ok {
		return outdated
	}
	outdated.Found = found
	v, err := semver.NewVersion(found)
	if err != nil || !constraint.Check(v) {
		return outdated
	}
	return nil
}

// ShouldSkip reports whether a tool precondition disables the adapter.
func (a *Adapter) ShouldSkip(ctx context.Context) (string, bool) {
	if a.def.Skip == nil {
		return "", false
	}
	return a.def.Skip(ctx, a)
}
