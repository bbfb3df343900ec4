package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/commcap/prospector/internal/enrich"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment <industry>",
	Short: "Show likely equipment needs for an industry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		industry := strings.Join(args, " ")
		for _, s := range enrich.EquipmentFor(industry) {
			fmt.Printf("%s\t%s\t(typical deal $%.0f)\n", s.Equipment, s.Budget, s.DealSize)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(equipmentCmd)
}
