package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	"github.com/drijfveer/linkmanager/internal/models"
)

func newLinkCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Add or inspect backlinks on a single site",
	}
	cmd.AddCommand(newLinkAddCommand(a), newLinkListCommand(a))
	return cmd
}

func newLinkAddCommand(a *app) *cobra.Command {
	var (
		req    models.LinkRequest
		pageID int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a link to a website's link page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageID > 0 {
				req.PageID = &pageID
			}
			resp, err := a.client.AddLink(cmd.Context(), req)
			if err != nil {
				return infraerrors.Wrapf(err, "add link")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (page %d)\n", status(resp.Success), resp.Message, resp.PageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.WebsiteURL, "website-url", "", "registered website (any URL on the same root domain)")
	cmd.Flags().StringVar(&req.AnchorText, "anchor", "", "anchor text")
	cmd.Flags().StringVar(&req.LinkURL, "url", "", "link target URL")
	cmd.Flags().IntVar(&pageID, "page-id", 0, "override the website's link page")
	_ = cmd.MarkFlagRequired("website-url")
	_ = cmd.MarkFlagRequired("anchor")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newLinkListCommand(a *app) *cobra.Command {
	var (
		websiteURL string
		pageID     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the links already on a website's link page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.ListLinks(cmd.Context(), websiteURL, pageID)
			if err != nil {
				return infraerrors.Wrapf(err, "list links")
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"Anchor", "Href"})
			for _, l := range resp.Links {
				t.AppendRow(table.Row{l.Text, l.Href})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("Page %d", resp.PageID), fmt.Sprintf("%d links", resp.Total)})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&websiteURL, "website-url", "", "registered website")
	cmd.Flags().IntVar(&pageID, "page-id", 0, "page to read (defaults to the website's link page)")
	_ = cmd.MarkFlagRequired("website-url")
	return cmd
}
