package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/importer"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/urlmatch"
)

var errUnsupportedFile = errors.New("unsupported file type (want .csv, .json or .xlsx)")

func newWebsitesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "websites",
		Short: "Manage registered WordPress sites",
	}
	cmd.AddCommand(
		newWebsitesListCommand(a),
		newWebsitesAddCommand(a),
		newWebsitesUpdateCommand(a),
		newWebsitesDeleteCommand(a),
		newWebsitesImportCommand(a),
		newWebsitesTestCommand(a),
	)
	return cmd
}

func newWebsitesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered websites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.cache.Websites(cmd.Context())
			if err != nil {
				return infraerrors.Wrapf(err, "list websites")
			}
			out := cmd.OutOrStdout()
			if len(sites) == 0 {
				fmt.Fprintln(out, "No websites configured")
				return nil
			}

			t := newTable(out, table.Row{"Site Name", "Website URL", "Page ID"})
			for _, s := range sites {
				t.AppendRow(table.Row{s.SiteName, s.WebsiteURL, s.PageID})
			}
			t.AppendFooter(table.Row{"Total", len(sites), ""})
			t.Render()
			return nil
		},
	}
}

type websiteFlags struct {
	url      string
	name     string
	pageID   int
	username string
	password string
}

func (f *websiteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "website URL")
	cmd.Flags().StringVar(&f.name, "name", "", "site name (suggested from the homepage when omitted)")
	cmd.Flags().IntVar(&f.pageID, "page-id", models.DefaultPageID, "WordPress page that receives links")
	cmd.Flags().StringVar(&f.username, "username", "", "WordPress username")
	cmd.Flags().StringVar(&f.password, "app-password", "", "WordPress application password")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("app-password")
}

// request fills a missing name from the site's homepage metadata.
func (f *websiteFlags) request(cmd *cobra.Command, a *app) (models.WebsiteRequest, error) {
	req := models.WebsiteRequest{
		WebsiteURL:  urlmatch.NormalizeURL(f.url),
		SiteName:    strings.TrimSpace(f.name),
		PageID:      f.pageID,
		Username:    strings.TrimSpace(f.username),
		AppPassword: f.password,
	}
	if req.SiteName != "" {
		return req, nil
	}

	meta, err := a.client.SuggestMetadata(cmd.Context(), req.WebsiteURL)
	if err != nil {
		return req, infraerrors.Wrapf(err, "suggest site name (pass --name)")
	}
	req.SiteName = meta.SiteName
	fmt.Fprintf(cmd.OutOrStdout(), "Using site name %q\n", req.SiteName)
	return req, nil
}

func newWebsitesAddCommand(a *app) *cobra.Command {
	var f websiteFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a website",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd, a)
			if err != nil {
				return err
			}
			resp, err := a.cache.Create(cmd.Context(), req)
			if err != nil {
				return infraerrors.Wrapf(err, "add website")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newWebsitesUpdateCommand(a *app) *cobra.Command {
	var (
		f        websiteFlags
		original string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace a website's record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd, a)
			if err != nil {
				return err
			}
			resp, err := a.cache.Update(cmd.Context(), models.UpdateWebsiteRequest{
				OriginalURL:    original,
				WebsiteRequest: req,
			})
			if err != nil {
				return infraerrors.Wrapf(err, "update website")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&original, "original-url", "", "URL of the record to replace")
	_ = cmd.MarkFlagRequired("original-url")
	return cmd
}

func newWebsitesDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <website_url>",
		Short: "Remove a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.cache.Delete(cmd.Context(), args[0])
			if err != nil {
				return infraerrors.Wrapf(err, "delete website")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

// decodeWebsites reads a registry file by extension.
func decodeWebsites(path string) ([]models.Website, []importer.ImportError, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		sites, err := importer.DecodeWebsitesJSON(data)
		return sites, nil, err
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return importer.DecodeWebsitesCSV(f)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return importer.ParseWebsiteSheet(f)
	default:
		return nil, nil, fmt.Errorf("%s: %w", path, errUnsupportedFile)
	}
}

func newWebsitesImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Register every website in a .csv, .json or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, rowErrs, err := decodeWebsites(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := newTable(out, table.Row{"Row", "Website URL", "Result"})
			for _, e := range rowErrs {
				t.AppendRow(table.Row{e.Row, "", e.Error})
			}

			var created, failed int
			for i, s := range sites {
				req := models.WebsiteRequest{
					WebsiteURL:  s.WebsiteURL,
					SiteName:    s.SiteName,
					PageID:      s.PageID,
					Username:    s.Username,
					AppPassword: s.AppPassword,
				}
				resp, err := a.cache.Create(cmd.Context(), req)
				if err != nil {
					failed++
					a.logger.Debug("import row failed", infralogger.String("website_url", s.WebsiteURL), infralogger.Error(err))
					t.AppendRow(table.Row{i + 1, s.WebsiteURL, err.Error()})
					continue
				}
				created++
				t.AppendRow(table.Row{i + 1, s.WebsiteURL, resp.Message})
			}
			t.Render()
			fmt.Fprintf(out, "Imported %d websites, %d failed, %d rows rejected\n", created, failed, len(rowErrs))
			return nil
		},
	}
}

func newWebsitesTestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test <website_url>",
		Short: "Check a website's credentials against its link page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.TestConnection(cmd.Context(), args[0])
			if err != nil {
				return infraerrors.Wrapf(err, "test connection")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", status(res.Success), res.Message)
			if res.PageTitle != "" {
				fmt.Fprintf(out, "Page: %s\n", res.PageTitle)
			}
			return nil
		},
	}
}
