package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/export"
	"github.com/commcap/prospector/internal/model"
)

var (
	searchCity     string
	searchIndustry string
	searchCSV      bool
	searchXLSX     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search and enrich prospects for a city and industry",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, pl, _ := newPipeline()

		query := searchIndustry + " in " + searchCity
		resp, err := pl.TextSearch(cmd.Context(), query)
		if err != nil {
			return eris.Wrapf(err, "search %q", query)
		}

		candidates := make([]model.Business, 0, len(resp.Places))
		for _, p := range resp.Places {
			candidates = append(candidates, model.Business{
				ID:      p.ID,
				Name:    p.DisplayName.Text,
				Address: p.FormattedAddress,
				Phone:   p.NationalPhoneNumber,
				Rating:  p.Rating,
				Types:   p.Types,
				Website: p.WebsiteURI,
				MapsURL: p.GoogleMapsURI,
			})
		}

		prospects := pipe.EnrichAll(cmd.Context(), candidates)
		zap.L().Info("search complete",
			zap.String("city", searchCity),
			zap.String("industry", searchIndustry),
			zap.Int("prospects", len(prospects)),
		)

		if searchCSV {
			name := export.Filename(searchCity, searchIndustry, time.Now())
			if err := os.WriteFile(name, []byte(export.CSV(prospects)), 0644); err != nil {
				return eris.Wrap(err, "write csv")
			}
			fmt.Println(name)
			return nil
		}

		if searchXLSX != "" {
			f, err := os.Create(searchXLSX)
			if err != nil {
				return eris.Wrap(err, "create xlsx")
			}
			defer f.Close()
			if err := export.XLSX(f, prospects); err != nil {
				return err
			}
			fmt.Println(searchXLSX)
			return nil
		}

		printProspects(prospects)
		return nil
	},
}

func printProspects(prospects []model.EnrichedProspect) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINDUSTRY\tEMPLOYEES\tSCORE\tPHONE")
	for i := range prospects {
		p := &prospects[i]
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			p.Name, p.Industry, p.EmployeeCount, p.MicroTicketScore, p.Phone)
	}
	w.Flush()
}

func init() {
	searchCmd.Flags().StringVar(&searchCity, "city", "", "city to search (required)")
	searchCmd.Flags().StringVar(&searchIndustry, "industry", "", "industry to search (required)")
	searchCmd.Flags().BoolVar(&searchCSV, "csv", false, "write a CSV file instead of printing")
	searchCmd.Flags().StringVar(&searchXLSX, "xlsx", "", "write an XLSX workbook to the given path")
	searchCmd.MarkFlagRequired("city")     //nolint:errcheck
	searchCmd.MarkFlagRequired("industry") //nolint:errcheck
	rootCmd.AddCommand(searchCmd)
}
