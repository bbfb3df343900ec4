package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commcap/prospector/internal/enrich"
)

var (
	calcDeals      int
	calcCommission float64
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Project monthly and yearly commission income",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := enrich.Project(calcDeals, calcCommission)
		fmt.Printf("monthly: $%.2f\nyearly: $%.2f\n", p.MonthlyIncome, p.YearlyIncome)
		return nil
	},
}

func init() {
	calcCmd.Flags().IntVar(&calcDeals, "deals", 10, "deals per month")
	calcCmd.Flags().Float64Var(&calcCommission, "commission", 500, "average commission per deal")
	rootCmd.AddCommand(calcCmd)
}
