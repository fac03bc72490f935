package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	flags := newRunFlags()
	var all bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print version conflicts instead of writing diagrams",
		Long: `Print version conflicts instead of writing diagrams.

The report command resolves packages exactly like visualize and prints a table
of every package whose declared version differs from the feed's latest release
or that is declared in more than one version. Use --all to list consistent
packages as well.`,
		Example: `  nugetviz report -l ./src
  nugetviz report -f Api/Api.csproj --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.loadSettings(cmd)
			if err != nil {
				return err
			}
			return c.runReport(cmd.Context(), s, all)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include consistent packages")
	return cmd
}

func (c *CLI) runReport(ctx context.Context, s settings, all bool) error {
	if err := s.pipeline.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, closeFn, err := c.newRunner(&s)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := runner.Analyze(ctx, s.pipeline)
	if err != nil {
		return err
	}

	rows := reportRows(res.Graph, all)
	if len(rows) == 0 {
		printSuccess("No version conflicts in %d packages", res.Stats.Packages)
	} else {
		fmt.Fprintln(c.Out, conflictTable(rows))
	}
	printSeverities(res.Severities)
	return reportFailures(res)
}

// reportRow is one package line of the conflict report.
type reportRow struct {
	ID       string
	Local    string
	Remote   string
	Severity graph.Severity
}

// reportRows lists the real packages of g, most severe first, then by id
// and version. Consistent packages are included only when all is set.
func reportRows(g *graph.Graph, all bool) []reportRow {
	classifier := g.Classifier()
	var rows []reportRow
	for _, p := range g.Packages() {
		if p.IsAggregate() {
			continue
		}
		sev := classifier.Classify(p)
		if sev == graph.Consistent && !all {
			continue
		}
		rows = append(rows, reportRow{ID: p.NugetID, Local: p.LocalVersion, Remote: p.RemoteVersion, Severity: sev})
	}
	slices.SortStableFunc(rows, func(a, b reportRow) int {
		return cmp.Or(
			cmp.Compare(b.Severity, a.Severity),
			cmp.Compare(a.ID, b.ID),
			graph.CompareVersions(a.Local, b.Local),
		)
	})
	return rows
}

// conflictTable renders rows as a bordered table.
func conflictTable(rows []reportRow) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		remote := r.Remote
		if remote == "" {
			remote = "—"
		}
		cells[i] = []string{r.ID, r.Local, remote, r.Severity.String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Local", "Remote", "Severity").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 { // header
				return headerStyle.Padding(0, 1)
			}
			if col == 3 && row >= 0 && row < len(rows) {
				return severityStyles[rows[row].Severity].Padding(0, 1)
			}
			return base
		})
	return t.Render()
}
