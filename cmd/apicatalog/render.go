package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/alecgard/apicatalog/catalog"
)

var (
	renderOrigin string
	renderHead   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the api-catalog linkset for an origin",
	Long:  "Render builds the catalog document as it would be served and prints it. With --origin unset a fixed origin from the config is used.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderOrigin, "origin", "", "public origin, e.g. https://api.example.com")
	renderCmd.Flags().BoolVar(&renderHead, "link-header", false, "print only the Link header value")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catCfg, err := cfg.Catalog.Build()
	if err != nil {
		return err
	}
	cat, err := catalog.New(catCfg)
	if err != nil {
		return err
	}

	origin := renderOrigin
	if origin != "" {
		fixed, err := catalog.NewFixedStrategy(origin, "")
		if err != nil {
			return err
		}
		origin = fixed.Origin()
	} else if fixed, ok := cat.Strategy().(*catalog.FixedStrategy); ok {
		origin = fixed.Origin()
	} else {
		return errors.New("--origin is required unless catalog.origin.kind is fixed")
	}

	out := cmd.OutOrStdout()
	if renderHead {
		_, err := out.Write([]byte(catalog.LinkHeader(origin) + "\n"))
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cat.BuildForOrigin(origin))
}
