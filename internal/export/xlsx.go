package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/commcap/prospector/internal/model"
)

// XLSX writes prospects as a single-sheet workbook with the same
// columns as the CSV export.
func XLSX(w io.Writer, prospects []model.EnrichedProspect) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Prospects")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}

	for i := range prospects {
		row := sheet.AddRow()
		for _, v := range fieldValues(&prospects[i]) {
			row.AddCell().SetString(v)
		}
	}

	return eris.Wrap(file.Write(w), "export: write workbook")
}
