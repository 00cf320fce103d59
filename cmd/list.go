package cmd

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"machine-bootstrap/internal/catalog"
	"machine-bootstrap/internal/installer"
	"machine-bootstrap/internal/model"
)

var (
	listInstalled  bool
	listServer     bool
	listCategories categoryList
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newTable returns a bordered table with bold headers.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the applications available on this system",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := loadCatalog()
		if err != nil {
			return err
		}
		apps := catalog.Filter(all, env.System, listServer, listCategories)

		t := newTable("ID", "Name", "Categories", "Installed")
		shown := 0
		for _, a := range apps {
			installed := installer.IsInstalled(a, exec.LookPath)
			if listInstalled && !installed {
				continue
			}
			cats := make([]string, len(a.Categories))
			for i, c := range a.Categories {
				cats[i] = c.DisplayName()
			}
			mark := ""
			if installed {
				mark = "yes"
			}
			t.Row(a.EffectiveID(), a.Name, strings.Join(cats, ", "), mark)
			shown++
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		env.Log.Info("[INFO] %d of %d application(s) on %s\n", shown, len(all), env.System.Distro)
		return nil
	},
}

var listCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and how many applications carry them",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := loadCatalog()
		if err != nil {
			return err
		}
		counts := map[model.Category]int{}
		for _, c := range model.CategoryCounts(catalog.Filter(all, env.System, false, nil)) {
			counts[c.Category] = c.Count
		}
		t := newTable("Category", "Flag value", "Applications")
		for _, c := range model.Categories() {
			t.Row(c.DisplayName(), c.CLIName(), fmt.Sprint(counts[c]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "Only applications that are installed")
	listCmd.Flags().BoolVar(&listServer, "server", false, "Only server compatible applications")
	listCmd.Flags().Var(&listCategories, "category", "Comma separated categories to include")
	listCmd.AddCommand(listCategoriesCmd)
	rootCmd.AddCommand(listCmd)
}
