package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/format"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
	"github.com/kudzaitsapo/fileflow-web/internal/query"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files of a project",
	Long: `Selects a project and prints one page of its files, followed by the
page window the dashboard would render.`,
	RunE: runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)

	filesCmd.Flags().Int64("project", 0, "Project ID (required)")
	filesCmd.Flags().Int("page", 1, "Page number")
	filesCmd.Flags().Int("size", constants.DefaultPageSize, "Files per page")
}

func runFiles(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	projectID := mustGetInt64(cmd, "project")
	if projectID <= 0 {
		return errors.New("--project is required")
	}
	state := pagination.State{Page: mustGetInt(cmd, "page"), PageSize: mustGetInt(cmd, "size")}
	if state.Page < 1 || !pagination.IsAllowedPageSize(state.PageSize) {
		return fmt.Errorf("invalid page %d or size %d", state.Page, state.PageSize)
	}

	ctx := cmd.Context()
	client, err := connectBackend(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := client.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to get project %d: %w", projectID, err)
	}
	q := query.New(query.Files, p.ID, state)
	page, err := client.ListFiles(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if clamped := state.Clamp(page.Total()); clamped != state {
		state = clamped
		if page, err = client.ListFiles(ctx, q.WithState(state)); err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
	}

	printFiles(cmd.OutOrStdout(), p, page, state)
	return nil
}

func printFiles(out io.Writer, p *fileflow.Project, page *fileflow.Page[fileflow.StoredFile], state pagination.State) {
	fmt.Fprintf(out, "Project: %s\n\n", p.Name)
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No files found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tUPLOADED")
	fmt.Fprintln(w, "----\t----\t----\t--------")
	for _, f := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.TypeName(), format.Bytes(f.Size, 2), format.DateTime(f.UploadedAt.Time))
	}
	w.Flush()

	printPager(out, state, page.Total())
}

// printPager prints the summary line and page window for a list position.
func printPager(out io.Writer, state pagination.State, total int) {
	ctrl := pagination.Controller{Total: total, CurrentPage: state.Page, PageSize: state.PageSize}

	var window []string
	for _, m := range ctrl.Window() {
		if ctrl.IsCurrent(m) {
			window = append(window, "["+m.String()+"]")
		} else {
			window = append(window, m.String())
		}
	}

	from := state.Offset() + 1
	to := min(state.Offset()+state.PageSize, total)
	fmt.Fprintf(out, "\nShowing %d to %d of %s items\n", from, to, format.Count(total))
	fmt.Fprintf(out, "Pages: %s\n", strings.Join(window, " "))
}
