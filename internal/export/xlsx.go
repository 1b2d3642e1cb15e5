package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campaign-insights/internal/model"
)

// WriteXLSX writes all result tables into one workbook, one sheet per
// table.
func WriteXLSX(result *model.AnalysisResult, path string) error {
	f := xlsx.NewFile()

	for _, t := range Tables(result) {
		sheet, err := f.AddSheet(t.Name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", t.Name)
		}

		header := sheet.AddRow()
		for _, col := range t.Columns {
			header.AddCell().SetString(col)
		}
		for _, row := range t.Rows {
			r := sheet.AddRow()
			for _, cell := range row {
				r.AddCell().SetString(cell)
			}
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
