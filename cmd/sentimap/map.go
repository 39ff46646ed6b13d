package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spacesedan/sentimap/internal/mapview"
	"github.com/spf13/cobra"
)

var (
	mapKeyword string
	mapYear    int
	mapChart   string
	mapZoom    string
	mapOut     string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render the sentiment choropleth as SVG",
	Long: `Fetches per-state sentiment for a keyword and year and writes the map.

Example:
  sentimap map --keyword stress --year 2020 --zoom Ohio --out ohio.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := buildDeps(cmd.Context(), cfg)
		defer d.Close()

		shapes, err := d.Atlas.Shapes(cmd.Context())
		if err != nil {
			return err
		}
		sentiments, err := d.Loader.Sentiments(cmd.Context(), mapKeyword, mapYear)
		if err != nil {
			return err
		}

		v := mapview.NewView(shapes)
		v.SetChartType(mapChart)
		v.SetSentiments(sentiments)
		if mapZoom != "" && !v.Click(mapZoom) {
			return fmt.Errorf("unknown state %q", mapZoom)
		}

		var w io.Writer = cmd.OutOrStdout()
		if mapOut != "" {
			f, err := os.Create(mapOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return v.Render(w, mapview.RenderOptions{})
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapKeyword, "keyword", "", "keyword to map")
	mapCmd.Flags().IntVar(&mapYear, "year", 2019, "year (2019-2022)")
	mapCmd.Flags().StringVar(&mapChart, "chart", mapview.ChartFilled, "chart type")
	mapCmd.Flags().StringVar(&mapZoom, "zoom", "", "state to zoom onto")
	mapCmd.Flags().StringVar(&mapOut, "out", "", "output file (default stdout)")
	mapCmd.MarkFlagRequired("keyword")
}
