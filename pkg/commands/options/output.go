package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// Print writes v as indented JSON.
func (o *OutputOptions) Print(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(color.Output, string(b))
	return err
}

// HandleError reports err as a JSON object when JSON output is on.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		return o.Print(map[string]string{"error": err.Error()})
	}
	return err
}
