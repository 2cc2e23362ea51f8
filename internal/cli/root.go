// Package cli implements linkctl, the operator command line for the link
// manager API.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/bulk"
	"github.com/drijfveer/linkmanager/internal/client"
)

// APIURLEnv overrides the default --api-url.
const APIURLEnv = "LINKMANAGER_API_URL"

// Version is reported by the version command.
var Version = "dev"

// app carries the global flags and the dependencies built from them. One app
// lives for one invocation, so the website cache spans the whole session.
type app struct {
	apiURL  string
	debug   bool
	timeout time.Duration
	delay   time.Duration

	client *client.Client
	cache  *client.WebsiteCache
	logger infralogger.Logger
}

func (a *app) init() error {
	level := string(infralogger.WarnLevel)
	if a.debug {
		level = string(infralogger.DebugLevel)
	}
	log, err := infralogger.New(infralogger.Config{
		Level:       level,
		Format:      infralogger.FormatConsole,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.logger = log.With(infralogger.String("api_url", a.apiURL))
	a.client = client.New(a.apiURL, a.timeout)
	a.cache = client.NewWebsiteCache(a.client)
	return nil
}

// NewRootCommand builds the linkctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	defaultURL := os.Getenv(APIURLEnv)
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}

	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Manage WordPress backlinks, websites and blog posts",
		Long:          `linkctl talks to the link manager API to register WordPress sites, add backlinks one by one or in bulk, and manage blog posts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", defaultURL, "link manager API base URL (env "+APIURLEnv+")")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "HTTP timeout per API request")
	flags.DurationVar(&a.delay, "delay", bulk.DefaultDelay, "pause between bulk submissions")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linkctl version %s\n", Version)
		},
	})

	root.AddCommand(
		newHealthCommand(a),
		newWebsitesCommand(a),
		newLinkCommand(a),
		newBulkCommand(a),
		newBlogsCommand(a),
	)
	return root
}

// Execute runs linkctl with the process arguments.
func Execute(ctx context.Context) error {
	// .env is optional
	_ = godotenv.Load()
	return NewRootCommand().ExecuteContext(ctx)
}
