package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// siteCommand creates the site document management command.
func (c *CLI) siteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage the site document",
	}

	cmd.AddCommand(c.siteInitCommand())
	cmd.AddCommand(c.siteShowCommand())
	cmd.AddCommand(c.siteZonesCommand())
	cmd.AddCommand(c.sitePickCommand())

	return cmd
}

func (c *CLI) siteInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default site document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.siteStore("")
			if _, err := os.Stat(store.Path()); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", store.Path())
			}
			if err := store.Save(cmd.Context(), site.Default()); err != nil {
				return err
			}
			printSuccess("Wrote default site")
			printFile(store.Path())
			printNewline()
			printNextStep("Generate a plan", appName+" layout")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")
	return cmd
}

func (c *CLI) siteShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the site document with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.loadSite(cmd.Context(), "")
			if err != nil {
				return err
			}
			return site.Encode(cmd.OutOrStdout(), s)
		},
	}
}

func (c *CLI) siteZonesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the zones of the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.loadSite(cmd.Context(), "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), zoneTable(s))
			return nil
		},
	}
}

func (c *CLI) sitePickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose the default storage zone interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context())
		},
	}
}

// runPick shows the zone picker and saves the chosen zone as DefaultZone.
func (c *CLI) runPick(ctx context.Context) error {
	store := c.siteStore("")
	s, _, err := c.loadSite(ctx, "")
	if err != nil {
		return err
	}
	zones := s.ZonesOf(site.KindStorage)
	if len(zones) == 0 {
		return errors.New(errors.ErrCodeZoneNotFound, "site %q has no storage zone", s.Name)
	}

	current, _ := s.Storage("")
	final, err := tea.NewProgram(NewZoneListModel(zones, current.Name), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("zone picker: %w", err)
	}
	m, ok := final.(ZoneListModel)
	if !ok || m.Selected == nil {
		printInfo("No zone selected")
		return nil
	}

	s.DefaultZone = m.Selected.Name
	if err := store.Save(ctx, s); err != nil {
		return err
	}
	printSuccess("Default zone set to %s", StyleHighlight.Render(s.DefaultZone))
	printFile(store.Path())
	return nil
}

// zoneTable renders the warehouse and its zones as a table. The default
// storage zone is marked.
func zoneTable(s *site.Site) string {
	def, _ := s.Storage("")
	rows := [][]string{zoneRow(s.Warehouse, "")}
	for _, z := range s.Zones {
		mark := ""
		if z.Kind == site.KindStorage && z.Name == def.Name {
			mark = iconSuccess
		}
		rows = append(rows, zoneRow(z, mark))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Zone", "Kind", "Size", "Position", "Axis").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 0:
				return styleIconSuccess
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func zoneRow(z site.Zone, mark string) []string {
	axis := "x"
	if z.Vertical {
		axis = "y"
	}
	if z.Kind != site.KindStorage {
		axis = "—"
	}
	return []string{
		mark,
		z.Name,
		string(z.Kind),
		fmt.Sprintf("%g × %g", z.Width, z.Depth),
		fmt.Sprintf("%g, %g", z.X, z.Y),
		axis,
	}
}
