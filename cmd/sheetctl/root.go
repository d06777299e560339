package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheetctl",
	Short: "Parse result sheets and compute GPA offline",
	Long: `sheetctl runs the result sheet parser and the GPA calculator locally,
without the database or object storage.`,
	SilenceUsage: true,
}

// outputFormat is the persistent --output flag.
var outputFormat string

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format: yaml or json")
}

// render writes v to w in the selected output format.
func render(w io.Writer, v interface{}) error {
	var (
		out []byte
		err error
	)
	switch outputFormat {
	case "json":
		out, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", outputFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = w.Write(out)
	return err
}
