package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

const detailSheet = "detail"

// DetailXLSX writes the detail report as a spreadsheet with the same two
// header rows as DetailCSV. Numbers are stored as numeric cells and nulls as
// empty cells.
func DetailXLSX(rows []detail.Row, subject string, p period.Period, loc locale.Locale) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return Artifact{}, fmt.Errorf("naming sheet: %w", err)
	}

	labels, keys := detail.Headers(loc)

	for i, header := range [][]string{labels, keys} {
		for c, h := range header {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+1)
			if err := f.SetCellValue(detailSheet, cell, h); err != nil {
				return Artifact{}, fmt.Errorf("writing header: %w", err)
			}
		}
	}

	for r, row := range rows {
		rowIdx := r + 3

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetCellValue(detailSheet, cell, row.Date.Format(detail.DateLayout)); err != nil {
			return Artifact{}, fmt.Errorf("writing row %d: %w", r, err)
		}

		for fld := detail.FieldObserved; fld < detail.NumFields; fld++ {
			v := row.Get(fld)
			if !v.Valid {
				continue
			}

			cell, _ := excelize.CoordinatesToCellName(int(fld)+1, rowIdx)
			if err := f.SetCellValue(detailSheet, cell, v.Decimal.InexactFloat64()); err != nil {
				return Artifact{}, fmt.Errorf("writing row %d: %w", r, err)
			}
		}
	}

	footer, _ := excelize.CoordinatesToCellName(1, len(rows)+4)
	if err := f.SetCellValue(detailSheet, footer, loc.T(locale.DetailFooter)); err != nil {
		return Artifact{}, fmt.Errorf("writing footer: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("encoding workbook: %w", err)
	}

	return Artifact{
		Filename:    filename("detail", subject, p.PostStart, p.PostEnd, "xlsx"),
		ContentType: ContentTypeXLSX,
		Payload:     buf.Bytes(),
	}, nil
}
