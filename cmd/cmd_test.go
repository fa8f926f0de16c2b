package cmd

import (
	"strings"
	"testing"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
)

func TestResolveServeConfig_FlagsFillGaps(t *testing.T) {
	cfg := &config.Config{}
	cfg.Web.Host = "127.0.0.1"

	if err := serveCmd.Flags().Set("port", "9090"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { serveCmd.Flags().Set("port", "8080") })

	resolveServeConfig(serveCmd, cfg)

	if cfg.Web.Port != 9090 {
		t.Errorf("expected port from flag, got %d", cfg.Web.Port)
	}
	if cfg.Web.Host != "127.0.0.1" {
		t.Errorf("expected environment host to win, got %s", cfg.Web.Host)
	}
	if cfg.Web.SecureCookies {
		t.Error("expected secure cookies to stay off")
	}
	if cfg.Web.AllowLocalhost {
		t.Error("expected localhost CORS to stay off without --dev-cors")
	}
}

func TestResolveServeConfig_DevCORS(t *testing.T) {
	cfg := &config.Config{}

	if err := serveCmd.Flags().Set("dev-cors", "true"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { serveCmd.Flags().Set("dev-cors", "false") })

	resolveServeConfig(serveCmd, cfg)

	if !cfg.Web.AllowLocalhost {
		t.Error("expected --dev-cors to allow localhost origins")
	}
}

func TestResolveServeConfig_EnvironmentWins(t *testing.T) {
	cfg := &config.Config{}
	cfg.Web.Port = 7000
	cfg.Web.SessionSecret = "from-env"

	resolveServeConfig(serveCmd, cfg)

	if cfg.Web.Port != 7000 || cfg.Web.SessionSecret != "from-env" {
		t.Errorf("expected environment values to be kept, got %+v", cfg.Web)
	}
	if cfg.Web.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %s", cfg.Web.Host)
	}
}

func TestPrintVersion(t *testing.T) {
	var buf strings.Builder
	printVersion(&buf)

	out := buf.String()
	if !strings.HasPrefix(out, "fileflow-web dev\n") {
		t.Errorf("unexpected version header: %q", out)
	}
	for _, want := range []string{"Commit:", "Built:", "Go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestPrintFiles(t *testing.T) {
	p := &fileflow.Project{ID: 3, Name: "Invoices"}
	page := &fileflow.Page[fileflow.StoredFile]{
		Items: []fileflow.StoredFile{
			{ID: "a", Name: "march.pdf", Size: 2048, FileType: &fileflow.FileType{Name: "PDF"}},
			{ID: "b", Name: "april.pdf", Size: 0},
		},
		Meta: fileflow.Meta{TotalRecords: 12},
	}

	var buf strings.Builder
	printFiles(&buf, p, page, pagination.State{Page: 2, PageSize: 10})

	out := buf.String()
	for _, want := range []string{
		"Project: Invoices\n",
		"march.pdf",
		"PDF",
		"Unknown",
		"Showing 11 to 12 of 12 items",
		"Pages: 1 [2]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintFiles_Empty(t *testing.T) {
	var buf strings.Builder
	printFiles(&buf, &fileflow.Project{ID: 3, Name: "Invoices"}, &fileflow.Page[fileflow.StoredFile]{}, pagination.State{Page: 1, PageSize: 10})

	if got := buf.String(); got != "Project: Invoices\n\nNo files found.\n" {
		t.Errorf("unexpected output %q", got)
	}
}
