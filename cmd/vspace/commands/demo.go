package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/vspace/conf"
	"github.com/teranos/vspace/errors"
	"github.com/teranos/vspace/logger"
	"github.com/teranos/vspace/namespace"
)

// DemoCmd walks through a small two-space scenario: add rules for two
// overlapping spaces, update, probe membership, then subtract a shared
// path and show the effect.
var DemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through a two-space add/sub/test scenario",
	Long: `Build a namespace with two overlapping virtual spaces, commit the
pending rules, probe path membership, then remove a shared path from both
spaces and show how the tree changes.

With --watch the command keeps running after the scenario and re-renders
the final tree whenever vspace.toml changes, picking up new render options.`,
	RunE: runDemo,
}

var demoWatch bool

func init() {
	DemoCmd.Flags().BoolVar(&demoWatch, "watch", false, "Re-render the tree when vspace.toml changes")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return err
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")

	ns := namespace.New(logger.Logger,
		namespace.WithDigestLen(cfg.Digest.Length),
		namespace.WithVerbosity(verbosity))

	if err := ns.SpaceAdd("kento",
		"/etc/gss/bc",
		"/etc/ssh/id_rsa",
		"/home/user/elis/images",
		"/home/user/david/documents",
		"/e/sitepackages/tree",
		"/etc/.*",
	); err != nil {
		return err
	}
	if err := ns.SpaceAdd("kirk",
		"/etc/gss/bc",
		"/etc/gss/ab",
		"/home/.*",
		"/home/user/elis/images",
	); err != nil {
		return err
	}
	if err := ns.SpaceUpdate(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("After adding")
	probe(ns, "kento", "/etc/gss/bc")
	probe(ns, "kento", "/etc/ssh/id_rsa")
	probe(ns, "kento", "/home/user/elis/images")
	probe(ns, "kento", "/home/user/david/documents")
	probe(ns, "kento", "/etc/gss/ab")
	probe(ns, "kirk", "/etc/gss/ab")
	probe(ns, "kirk", "/etc/gss/bc")
	probe(ns, "kirk", "/home/user/elis/images")
	if err := renderTree(ns, cfg); err != nil {
		return err
	}

	if err := ns.SpaceSub("kento", "/home/user/elis/images"); err != nil {
		return err
	}
	if err := ns.SpaceSub("kirk", "/home/user/elis/images"); err != nil {
		return err
	}
	if err := ns.SpaceUpdate(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("After removing")
	probe(ns, "kento", "/home/user/elis/images")
	probe(ns, "kirk", "/home/user/elis/images")
	if err := renderTree(ns, cfg); err != nil {
		return err
	}

	if demoWatch {
		return watchAndRender(ns)
	}
	return nil
}

// watchAndRender blocks until interrupted, re-rendering the tree with fresh
// render options every time the config file changes.
func watchAndRender(ns *namespace.NameSpace) error {
	configPath := conf.GetViper().ConfigFileUsed()
	if configPath == "" {
		return errors.Newf("no %s found to watch; run 'vspace conf init' first", conf.ConfigFileName)
	}

	watcher, err := conf.NewWatcher(configPath)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnReload(func(newCfg *conf.Config) error {
		pterm.DefaultSection.Println("Config reloaded")
		return renderTree(ns, newCfg)
	})
	watcher.Start()

	pterm.Info.Printfln("Watching %s for changes (Ctrl-C to exit)", configPath)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func probe(ns *namespace.NameSpace, space, path string) {
	if ns.SpaceTest(space, path) {
		pterm.Success.Printfln("%s contains %s", space, path)
	} else {
		pterm.Info.Printfln("%s does not contain %s", space, path)
	}
}

func renderTree(ns *namespace.NameSpace, cfg *conf.Config) error {
	out, err := ns.RenderWith(cfg.RenderOptions())
	if err != nil {
		return err
	}
	pterm.Println(out)
	return nil
}
