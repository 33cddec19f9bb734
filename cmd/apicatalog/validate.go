package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alecgard/apicatalog/internal/speccheck"
)

var validateSpecRoot string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file and report the catalog it describes",
	Long:  "Validate loads the config and builds the catalog. With --spec-root it also loads every relative OpenAPI href from that directory and validates the document.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSpecRoot, "spec-root", "", "directory that relative spec hrefs are read from")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catCfg, err := cfg.Catalog.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	specs := 0
	for _, api := range catCfg.APIs {
		specs += len(api.Specs)
	}
	fmt.Fprintf(out, "config ok: %d apis, %d spec links, origin %s\n",
		len(catCfg.APIs), specs, cfg.Catalog.Origin.Kind)

	if validateSpecRoot == "" {
		return nil
	}
	results := speccheck.Check(cmd.Context(), validateSpecRoot, catCfg)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "FAIL %s %s: %v\n", r.APIID, r.Href, r.Err)
		case r.Skipped != "":
			fmt.Fprintf(out, "skip %s %s: %s\n", r.APIID, r.Href, r.Skipped)
		default:
			fmt.Fprintf(out, "ok   %s %s\n", r.APIID, r.Href)
		}
	}
	if n := speccheck.Failed(results); n > 0 {
		return fmt.Errorf("%d spec documents failed validation", n)
	}
	return nil
}
