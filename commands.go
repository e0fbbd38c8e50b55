package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wardrobe-stylist/app"
	"wardrobe-stylist/config"
	"wardrobe-stylist/models"
	"wardrobe-stylist/service"
)

type cli struct {
	envFile string
	cfg     *config.Config
	app     *app.App
}

// NewRootCmd builds the wardrobe command tree
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "wardrobe",
		Short:         "Virtual wardrobe stylist",
		Long:          `Catalog clothing items and get outfit recommendations from style tags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded outside production")

	root.AddCommand(
		c.newServeCmd(),
		c.newAddCmd(),
		c.newListCmd(),
		c.newDeleteCmd(),
		c.newTagsCmd(),
		c.newRecommendCmd(),
		c.newImportCmd(),
		c.newExportCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	config.LoadEnvFile(c.envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ConfigureLogging()

	a, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.app = a
	return nil
}

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
			addr := "0.0.0.0:" + c.cfg.Port
			srv := &http.Server{
				Addr:              addr,
				Handler:           c.app.Mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on %s", addr)
				log.Printf("Outfit predictor: POST %s/wardrobe/recommend", c.cfg.BaseURL)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed to start: %w", err)
			case <-ctx.Done():
			}

			log.Printf("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func (c *cli) newAddCmd() *cobra.Command {
	var category, tags string

	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Add a clothing item from an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			item, err := c.app.Wardrobe.AddItem(cmd.Context(), service.AddItemInput{
				Image:     data,
				FileName:  filepath.Base(args[0]),
				Category:  category,
				TagsInput: tags,
			})
			if err != nil {
				return fmt.Errorf("add item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s [%s]\n", item.Category, item.ID, strings.Join(item.Tags, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Shirt, Pants or Shoes")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma-separated style tags")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the wardrobe grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.app.Wardrobe.ListWardrobe(cmd.Context(), category)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, group := range resp.Groups {
				fmt.Fprintf(tw, "%s (%d)\n", group.Category, len(group.Items))
				for _, item := range group.Items {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.ID, item.ImageRef, strings.Join(item.Tags, ", "))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a clothing item and its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Wardrobe.DeleteItem(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in the wardrobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, tag := range c.app.Wardrobe.AllTags(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func (c *cli) newRecommendCmd() *cobra.Command {
	var categories []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend <tag>...",
		Short: "Recommend an outfit for the given style tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.app.Wardrobe.Recommend(cmd.Context(), models.RecommendRequest{
				Tags:       args,
				Categories: categories,
			})
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Message)
			for _, pick := range resp.Outfit.Picks {
				if !pick.Found {
					fmt.Fprintf(out, "  %-6s  no items found\n", pick.Category)
					continue
				}
				fmt.Fprintf(out, "  %-6s  %s  %.2f  [%s]\n", pick.Category, pick.Item.ImageRef, pick.Score, strings.Join(pick.Item.Tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "restrict to these categories")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (c *cli) newImportCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "import <folder>",
		Short: "Add every image in a folder to the wardrobe",
		Long: `Add every .png, .jpg or .jpeg in a folder to the wardrobe.
Category and tags are read from the file name: CATEGORY-TAG1_TAG2.png
(e.g. shirt-casual_summer.png). Images already in the wardrobe are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Importer.ImportFolder(cmd.Context(), args[0], category)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return printStats(cmd, "imported", stats)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category for files whose name has none")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "export <folder>",
		Short: "Write every wardrobe image to a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Importer.ExportImages(cmd.Context(), args[0], service.ParseImageSize(size))
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return printStats(cmd, "exported", stats)
		},
	}
	cmd.Flags().StringVarP(&size, "size", "s", string(service.SizeMedium), "thumb, medium or original")
	return cmd
}

func printStats(cmd *cobra.Command, verb string, stats *service.ImportStats) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d %s, %d skipped, %d failed out of %d\n", stats.Processed, verb, stats.Skipped, len(stats.Errors), stats.Total)
	for _, e := range stats.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
