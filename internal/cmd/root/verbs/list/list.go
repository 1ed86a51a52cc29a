package list

import (
	"fmt"
	"io"
	"strings"

	"github.com/fjord-cli/fjord/internal/cmd"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	jqoutput "github.com/fjord-cli/fjord/internal/cmd/output/jq"
	"github.com/fjord-cli/fjord/internal/cmd/root/verbs"
	"github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/meta"
	"github.com/mattn/go-runewidth"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.List

	columnGap = "  "
)

var (
	listUse = Verb.String() + " <reports|products>"

	listShort = "Print every pending report or product"

	listLong = common.LongDesc(`
Use list to fetch every page of a resource once and print the items without
starting the dashboard.

Output can be formatted as a text table, JSON or YAML, and JSON or YAML output
can be narrowed with a jq expression.`)

	listExamples = common.Examples(fmt.Sprintf(`
		# Print unchecked reports
		%[1]s list reports
		# Print products nobody has responded to, as JSON
		%[1]s list products -o json
		# Print only the URLs of unassigned products
		%[1]s list products -o json --jq '.[] | select(.assigned | not) | .url' -r
		`, meta.CLIName))
)

func NewListCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:       listUse,
		Short:     listShort,
		Long:      listLong,
		Example:   listExamples,
		Aliases:   []string{"ls", "l"},
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindFlags(cmd.BuildHelper(c, args))
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmd.BuildHelper(c, args))
		},
	}

	cmd.AddSourceFlags(c.Flags())
	jqoutput.AddFlags(c.Flags())

	return c, nil
}

func kindNames() []string {
	kinds := dashboard.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

func bindFlags(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	flags := helper.GetCmd().Flags()
	if err := cmd.BindSourceFlags(cfg, flags); err != nil {
		return err
	}
	return jqoutput.BindFlags(cfg, flags)
}

func run(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) != 1 {
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("exactly one resource is required, one of %v", kindNames()),
		}
	}
	kind, err := dashboard.ParseKind(args[0])
	if err != nil {
		return &apperr.ConfigurationError{Err: err}
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	jqOpts, err := jqoutput.Resolve(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	if err := jqoutput.Validate(outType, jqOpts); err != nil {
		return err
	}

	source, err := helper.GetItemSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx := log.WithFetchLogContext(helper.GetContext(), log.FetchLogContext{
		Command: Verb.String(),
		Tab:     kind.Label(),
	})
	items, err := source.Fetch(ctx, kind)
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	if items == nil {
		items = []dashboard.Item{}
	}

	out := helper.GetStreams().Out
	if outType == common.TEXT {
		return renderListText(out, kind, items)
	}

	payload, written, err := jqoutput.Filter(items, outType, jqOpts, out)
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	if written {
		return nil
	}

	printer, err := cli.Format(outType.String(), out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(payload)

	return nil
}

// renderListText prints items as a table aligned by display width, so wide
// characters in titles do not break the columns.
func renderListText(out io.Writer, kind dashboard.Kind, items []dashboard.Item) error {
	if out == nil {
		return nil
	}
	if len(items) == 0 {
		_, err := fmt.Fprintf(out, "No %s found.\n", kind)
		return err
	}

	rows := make([]dashboard.Row, 0, len(items)+1)
	rows = append(rows, kind.Header())
	for _, item := range items {
		rows = append(rows, item.Row())
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(displayOrDash(cell)))
			}
		}
	}

	for _, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = displayOrDash(row[i])
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, columnGap), " ")); err != nil {
			return err
		}
	}
	return nil
}

func displayOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
