package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/candidate-ranker/internal/ranking"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func validateOutput(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use %s or %s)", format, outputTable, outputJSON)
	}
}

func printResults(w io.Writer, results ranking.Results, format string) error {
	if strings.EqualFold(strings.TrimSpace(format), outputJSON) {
		return printJSON(w, results)
	}
	return printTable(w, results)
}

func printJSON(w io.Writer, results ranking.Results) error {
	if results == nil {
		results = ranking.Results{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printTable(w io.Writer, results ranking.Results) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSERNAME\tTOTAL\tSKILLS\tEXPERIENCE\tACTIVITY\tDOMAIN\tMISSING SKILLS")
	for _, c := range results {
		missing := strings.Join(c.Breakdown.MissingSkills, ", ")
		if missing == "" {
			missing = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			c.Rank, c.Username, c.TotalScore, c.SkillMatchScore, c.ExperienceScore, c.ActivityScore, c.DomainScore, missing)
	}
	return tw.Flush()
}
