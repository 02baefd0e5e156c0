package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/style"
)

var catalogFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the available workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch catalogFormat {
		case "yaml":
			return writeCatalogYAML(out)
		case "json":
			return printJSON(out, catalogEntries())
		case "text":
			printCatalog(out)
			return nil
		default:
			return fmt.Errorf("unknown format %q (text, yaml, json)", catalogFormat)
		}
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogFormat, "output", "o", "text", "Output format: text, yaml, json")
	rootCmd.AddCommand(catalogCmd)
}

type catalogEntry struct {
	catalog.Definition `yaml:",inline"`
	EstimatedTime      string                 `json:"estimatedTime" yaml:"estimatedTime"`
	Steps              []catalog.StepTemplate `json:"steps" yaml:"steps"`
}

func catalogEntries() []catalogEntry {
	defs := catalog.Definitions()
	entries := make([]catalogEntry, 0, len(defs))
	for _, d := range defs {
		steps, _ := catalog.Steps(d.ID)
		entries = append(entries, catalogEntry{
			Definition:    d,
			EstimatedTime: catalog.ProfileOf(d.ID).Estimate(),
			Steps:         steps,
		})
	}
	return entries
}

func writeCatalogYAML(out io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"workflows": catalogEntries()}); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func printCatalog(out io.Writer) {
	for _, e := range catalogEntries() {
		fmt.Fprintf(out, "%s  %s\n", style.B(e.Name), style.C(style.Gray, string(e.Category)+" · "+e.EstimatedTime))
		fmt.Fprintf(out, "  %s\n", e.Description)
		fmt.Fprintf(out, "  %s %d steps\n\n", style.C(style.Cyan, string(e.ID)), len(e.Steps))
	}
}
