package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/vspace/conf"
	"github.com/teranos/vspace/logger"
	"github.com/teranos/vspace/namespace"
)

// showcaseRules covers every rule form: plain paths, recursive paths,
// trailing wildcards, and interior wildcards.
var showcaseRules = []string{
	"/etc/xyz",
	"recursive /etc/xyz",
	"/etc/xyz/**",
	"recursive /etc/xyz/**",
	"recursive /etc/xyz/*",
	"/etc/xyz/*",
	"/etc/abc/**/xyz",
	"/etc/abc/*/xyz",
}

// RulesCmd expands rules one at a time into fresh namespaces and renders
// the tree each produces, for both add and sub interpretation.
var RulesCmd = &cobra.Command{
	Use:   "rules [rule...]",
	Short: "Show what each rule form expands to in the tree",
	Long: `Interpret each given rule in a fresh namespace and render the tree it
produces. With no arguments a built-in showcase covering every rule form is
used.

By default rules are interpreted as additions; --sub interprets them as
exclusions instead.`,
	RunE: runRules,
}

var rulesSub bool

func init() {
	RulesCmd.Flags().BoolVar(&rulesSub, "sub", false, "Interpret rules as exclusions instead of additions")
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")

	rules := showcaseRules
	if len(args) > 0 {
		rules = args
	}

	for _, rule := range rules {
		pterm.DefaultSection.Printfln("Rule: %s", rule)

		ns := namespace.New(logger.Logger,
			namespace.WithDigestLen(cfg.Digest.Length),
			namespace.WithVerbosity(verbosity))
		if rulesSub {
			err = ns.SpaceSub("x", rule)
		} else {
			err = ns.SpaceAdd("x", rule)
		}
		if err != nil {
			pterm.Error.Printfln("rejected: %v", err)
			continue
		}
		if err := ns.SpaceUpdate(); err != nil {
			return err
		}
		if err := renderTree(ns, cfg); err != nil {
			return err
		}
	}
	return nil
}
