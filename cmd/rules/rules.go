// Package rules handles the bucket keyword rule table commands
package rules

import (
	"fmt"
	"strings"

	"propbooks/cmd/root"
	"propbooks/internal/classifier"
	"propbooks/internal/config"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and manage the bucket keyword rule table",
	Long: `The rule table maps buckets to ordered keyword lists and drives classification
when bucket memory has no answer. Rules load from the configured YAML file
when present, otherwise the compiled defaults apply.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active rule table",
	RunE:  listFunc,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the active rule table to the configured rules file",
	Long: `Write the active rule table to the configured rules file so it can be
customized per deployment. An existing file is rewritten in canonical form.`,
	RunE: initFunc,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(initCmd)
}

func activeRules() ([]classifier.BucketRule, string, error) {
	if root.Cfg == nil {
		cfg, err := config.InitializeConfig()
		if err != nil {
			return nil, "", err
		}
		root.Cfg = cfg
	}
	rules, err := classifier.LoadRules(root.Cfg.Classifier.RulesFile)
	if err != nil {
		return nil, "", err
	}
	return rules, root.Cfg.Classifier.RulesFile, nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	rules, _, err := activeRules()
	if err != nil {
		return err
	}
	for _, rule := range rules {
		fmt.Printf("%s: %s\n", rule.Bucket, strings.Join(rule.Keywords, ", "))
	}
	return nil
}

func initFunc(cmd *cobra.Command, args []string) error {
	rules, path, err := activeRules()
	if err != nil {
		return err
	}
	if err := classifier.SaveRules(rules, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bucket rules to %s\n", len(rules), path)
	return nil
}
