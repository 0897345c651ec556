package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/internal/repository/yamlfile"
	"fullscope-site-backend/internal/usecase"
	"fullscope-site-backend/pkg/validation"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultPortfolioFile = "data/portfolio.yaml"

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage the portfolio photo catalog",
		Long: `Manage the photo catalog served by /api/portfolio/photos.

Example:
  portfolio list --tag interior
  portfolio add --src /Towebsite/exterior/Exterior5.jpeg --alt Exterior --tag exterior --width 1600 --height 1067
  portfolio remove --src /Towebsite/exterior/Exterior5.jpeg`,
		SilenceUsage: true,
	}

	defaultFile := os.Getenv("PORTFOLIO_FILE")
	if defaultFile == "" {
		defaultFile = defaultPortfolioFile
	}
	rootCmd.PersistentFlags().StringVarP(&file, "file", "f", defaultFile, "Catalog file (env PORTFOLIO_FILE)")

	portfolioUC := func() domain.PortfolioUsecase {
		return usecase.NewPortfolioUsecase(yamlfile.NewPortfolioRepository(file), validation.New())
	}

	rootCmd.AddCommand(newListCmd(portfolioUC), newAddCmd(portfolioUC), newRemoveCmd(portfolioUC))
	return rootCmd
}

func newListCmd(portfolioUC func() domain.PortfolioUsecase) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			photos, err := portfolioUC().ListPhotos(context.Background(), tag)
			if err != nil {
				return err
			}
			printPhotos(cmd.OutOrStdout(), photos)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "all", "Filter by tag (all, interior, exterior, commercial, detail)")
	return cmd
}

func newAddCmd(portfolioUC func() domain.PortfolioUsecase) *cobra.Command {
	var item domain.PhotoItem
	var tag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a photo to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item.Tag = domain.PhotoTag(tag)
			if err := portfolioUC().AddPhoto(context.Background(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", item.Src)
			return nil
		},
	}
	cmd.Flags().StringVar(&item.Src, "src", "", "Public path of the image, starting with /")
	cmd.Flags().StringVar(&item.Alt, "alt", "", "Alt text")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag (interior, exterior, commercial, detail)")
	cmd.Flags().IntVar(&item.W, "width", 0, "Intrinsic width in pixels")
	cmd.Flags().IntVar(&item.H, "height", 0, "Intrinsic height in pixels")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("alt")
	return cmd
}

func newRemoveCmd(portfolioUC func() domain.PortfolioUsecase) *cobra.Command {
	var src string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a photo from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := portfolioUC().RemovePhoto(context.Background(), src); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", src)
			return nil
		},
	}
	cmd.Flags().StringVar(&src, "src", "", "Public path of the image to remove")
	_ = cmd.MarkFlagRequired("src")
	return cmd
}

func printPhotos(out io.Writer, photos []domain.PhotoItem) {
	if len(photos) == 0 {
		fmt.Fprintln(out, "No photos.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SRC\tTAG\tSIZE\tALT")
	for _, p := range photos {
		size := "-"
		if p.W > 0 && p.H > 0 {
			size = fmt.Sprintf("%dx%d", p.W, p.H)
		}
		tag := string(p.Tag)
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Src, tag, size, p.Alt)
	}
	_ = w.Flush()
}
