package adapter

import (
	"fmt"
	"path/filepath"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/resolver"
)

// Family is the resolution strategy and option fragment shared by a group of tools.
type Family struct {
	Name     string
	Options  func(d *Definition) []lint.Option
	Resolver func(a *Adapter) resolver.Strategy
	// Install overrides the definition's install hint.
	Install func(a *Adapter) string
	// Root returns the directory the binary is looked up in.
	Root func(a *Adapter) string
}

// Global tools are looked up on PATH and declare no extra options.
var Global = Family{Name: "global"}

// Pinterest tools are looked up on PATH and accept custom install instructions.
var Pinterest = Family{
	Name: "pinterest",
	Options: func(d *Definition) []lint.Option {
		return []lint.Option{{
			Name: "install-instructions",
			Type: lint.TypeString,
			Help: fmt.Sprintf("Specify custom instructions that should be used to install %s", d.Binary),
		}}
	},
	Install: func(a *Adapter) string {
		if custom := a.values.String("install-instructions"); custom != "" {
			return fmt.Sprintf("Install %s using `%s`.", a.def.Binary, custom)
		}
		return a.def.Install
	},
}

// Node tools are installed by npm or yarn, usually in the project.
var Node = Family{
	Name: "node",
	Options: func(d *Definition) []lint.Option {
		return []lint.Option{{
			Name: d.Name + ".cwd",
			Type: lint.TypeString,
			Help: fmt.Sprintf("Specify a project sub-directory holding the local %s install. The tool still runs from the project root.", d.Binary),
		}}
	},
	Resolver: func(a *Adapter) resolver.Strategy {
		return resolver.NodeModules{Invoker: a.deps.Invoker, Logger: a.logger}
	},
	Install: func(a *Adapter) string {
		if a.def.Install != "" {
			return a.def.Install
		}
		bin, pkg := a.def.Binary, a.def.packageName()
		yarn := ""
		if a.values.String(a.def.Name+".cwd") != "" {
			yarn = "[yarn globally] (required for --cwd) run: `npm install --global yarn@1`\n\t"
		}
		return fmt.Sprintf("\n\t%s[%s globally] run: `npm install --global %s`\n\t[%s locally] run either: `npm install --save-dev %s` OR `yarn add --dev %s`",
			yarn, bin, pkg, bin, pkg, pkg)
	},
	Root: func(a *Adapter) string {
		cwd := a.values.String(a.def.Name + ".cwd")
		if cwd == "" {
			return a.deps.Env.Root
		}
		if filepath.IsAbs(cwd) {
			return cwd
		}
		return filepath.Join(a.deps.Env.Root, cwd)
	},
}

// Python tools are installed with pip, usually into a project virtualenv.
var Python = Family{
	Name: "python",
	Options: func(*Definition) []lint.Option {
		return []lint.Option{{
			Name: "python.virtualenvs",
			Type: lint.TypeStringList,
			Help: "Python virtualenv paths.",
		}}
	},
	Resolver: func(a *Adapter) resolver.Strategy {
		return resolver.Virtualenv{
			Dirs:   a.values.List("python.virtualenvs"),
			Active: a.deps.Env.VirtualEnvActive,
		}
	},
}
