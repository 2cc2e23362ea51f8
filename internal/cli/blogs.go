package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	"github.com/drijfveer/linkmanager/internal/models"
)

func newBlogsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Manage blog posts on registered sites",
	}
	cmd.AddCommand(newBlogsListCommand(a), newBlogsCreateCommand(a), newBlogsDeleteCommand(a))
	return cmd
}

func newBlogsListCommand(a *app) *cobra.Command {
	var websiteURL string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts on one site, or on every site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := a.client.ListBlogs(cmd.Context(), websiteURL)
			if err != nil {
				return infraerrors.Wrapf(err, "list blogs")
			}
			t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Website", "Status", "Title", "Date"})
			for _, p := range posts {
				t.AppendRow(table.Row{p.ID, p.WebsiteURL, p.Status, p.Title, p.Date})
			}
			t.AppendFooter(table.Row{"Total", len(posts), "", "", ""})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&websiteURL, "website-url", "", "restrict to one website")
	return cmd
}

func newBlogsCreateCommand(a *app) *cobra.Command {
	var (
		req         models.BlogCreateRequest
		contentFile string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				text, err := readFile(contentFile)
				if err != nil {
					return err
				}
				req.Content = text
			}
			if req.Content == "" {
				return errors.New("pass --content or --content-file")
			}
			post, err := a.client.CreateBlog(cmd.Context(), req)
			if err != nil {
				return infraerrors.Wrapf(err, "create blog")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %d (%s) %s\n", post.ID, post.Status, post.Link)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.WebsiteURL, "website-url", "", "registered website")
	cmd.Flags().StringVar(&req.Title, "title", "", "post title")
	cmd.Flags().StringVar(&req.Content, "content", "", "post body (HTML)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read the post body from a file")
	cmd.Flags().StringVar(&req.Excerpt, "excerpt", "", "post excerpt")
	cmd.Flags().StringVar(&req.Status, "status", "", "post status (default draft)")
	cmd.Flags().IntSliceVar(&req.Categories, "category", nil, "category ID (repeatable)")
	cmd.Flags().IntSliceVar(&req.Tags, "tag", nil, "tag ID (repeatable)")
	_ = cmd.MarkFlagRequired("website-url")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	return cmd
}

func newBlogsDeleteCommand(a *app) *cobra.Command {
	var (
		websiteURL string
		force      bool
	)
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Trash a post, or delete it outright with --force",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			resp, err := a.client.DeleteBlog(cmd.Context(), id, websiteURL, force)
			if err != nil {
				return infraerrors.Wrapf(err, "delete blog")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&websiteURL, "website-url", "", "registered website")
	cmd.Flags().BoolVar(&force, "force", false, "skip the trash")
	_ = cmd.MarkFlagRequired("website-url")
	return cmd
}
