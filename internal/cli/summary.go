package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/fern/pkg/models"
)

var summaryFormats = []string{"pretty", "json", "yaml"}

func printSummary(w io.Writer, s models.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "pretty", "":
		printPrettySummary(w, s)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json|yaml)", format)
	}
}

func printPrettySummary(w io.Writer, s models.Summary) {
	fmt.Fprintf(w, "Run ID:    %s\n", s.RunID)
	fmt.Fprintf(w, "Records:   %d\n", s.Total)
	fmt.Fprintf(w, "Groups:    %d (%d with parent, %d without)\n", s.Groups, s.GroupsWithParent, s.GroupsWithoutParent)
	fmt.Fprintf(w, "Duration:  %s\n", s.Duration)
	fmt.Fprintln(w)
	for _, o := range models.Outcomes {
		fmt.Fprintf(w, "  %-10s %d\n", o.String(), s.Count(o))
	}
}
