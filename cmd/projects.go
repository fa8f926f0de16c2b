package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/format"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List FileFlow projects",
	Long:  `Retrieves and displays the projects visible to FILEFLOW_USERNAME.`,
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().Int("page", 1, "Page number")
	projectsCmd.Flags().Int("size", constants.DefaultPageSize, "Projects per page")
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	state := pagination.State{Page: mustGetInt(cmd, "page"), PageSize: mustGetInt(cmd, "size")}
	if state.Page < 1 || !pagination.IsAllowedPageSize(state.PageSize) {
		return fmt.Errorf("invalid page %d or size %d", state.Page, state.PageSize)
	}

	client, err := connectBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	page, err := client.ListProjects(cmd.Context(), state.Limit(), state.Offset())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMAX SIZE\tCREATED")
	fmt.Fprintln(w, "--\t----\t--------\t-------")
	for _, p := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%d MB\t%s\n", p.ID, p.Name, p.MaxUploadSize, format.DateTime(p.CreatedAt.Time))
	}
	w.Flush()

	printPager(out, state, page.Total())
	return nil
}
