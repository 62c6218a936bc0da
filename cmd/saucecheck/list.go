package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/networkteam/saucecheck/journey"
	"github.com/networkteam/saucecheck/suites"
)

var listStepsFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available suites",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)

		if listStepsFlag {
			t.AppendHeader(table.Row{"Suite", "ID", "Step"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Name: "Suite", AutoMerge: true},
				{Name: "ID", Align: text.AlignRight},
			})
		} else {
			t.AppendHeader(table.Row{"Suite", "Steps", "IDs", "Description"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Name: "Steps", Align: text.AlignRight},
				{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
			})
		}

		for _, suite := range suites.All(suites.DefaultCredentials()) {
			steps := suite.Ordered()
			if listStepsFlag {
				for _, step := range steps {
					t.AppendRow(table.Row{suite.Name, step.ID, step.Name})
				}
				t.AppendSeparator()
				continue
			}
			t.AppendRow(table.Row{suite.Name, len(steps), idRange(steps), suite.Description})
		}

		t.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listStepsFlag, "steps", false, "list every step")
}

func idRange(steps []journey.Step) string {
	if len(steps) == 0 {
		return "-"
	}
	ids := lo.Map(steps, func(s journey.Step, _ int) int { return s.ID })
	return fmt.Sprintf("%d-%d", lo.Min(ids), lo.Max(ids))
}
