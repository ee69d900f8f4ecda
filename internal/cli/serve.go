package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotframe/pkg/server"
)

// serveCommand runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host, port string
		pagesDir   string
		redisURL   string
		mongoURI   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout resolution and page rendering over HTTP",
		Long: `Serve layout resolution and page rendering over HTTP.

Configuration is read from SLOTFRAME_* environment variables
(SLOTFRAME_PORT, SLOTFRAME_REDIS_URL, SLOTFRAME_MONGO_URI, ...).
Flags override the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = host
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("pages") {
				cfg.PagesDir = pagesDir
			}
			if flags.Changed("redis") {
				cfg.RedisURL = redisURL
			}
			if flags.Changed("mongo") {
				cfg.MongoURI = mongoURI
			}
			if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil && !flags.Changed("verbose") {
				c.SetLogLevel(lvl)
			}

			ctx := cmd.Context()
			srv, err := server.Open(ctx, cfg, c.Logger)
			if err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			defer srv.Close()

			printKeyValue("Address", "http://"+cfg.Addr())
			printKeyValue("Metrics", "http://"+cfg.Addr()+"/metrics")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (SLOTFRAME_HOST)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (SLOTFRAME_PORT)")
	cmd.Flags().StringVar(&pagesDir, "pages", "", "page store directory (SLOTFRAME_PAGES_DIR)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache (SLOTFRAME_REDIS_URL)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the page store (SLOTFRAME_MONGO_URI)")
	return cmd
}
