package service

import (
	"context"
	"fmt"
	"html"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/repository"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Assets"

// Export - toàn bộ asset khớp facet + search, sắp theo title
func (s *assetService) Export(ctx context.Context, req model.ListAssetsRequest) (*excelize.File, error) {
	assets, _, err := s.find(ctx, req, repository.Page{Sort: repository.SortTitle})
	if err != nil {
		return nil, err
	}

	names := newOwnerNames(s.directory)
	rows := make([][]interface{}, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		owner, err := names.listLabel(ctx, a)
		if err != nil {
			return nil, err
		}

		row := []interface{}{a.ID, html.UnescapeString(a.Title)}
		for _, f := range model.Fields {
			if f.Key == model.FieldIssuedTo {
				row = append(row, owner)
				continue
			}
			row = append(row, html.UnescapeString(a.Attributes.Get(f.Key)))
		}
		row = append(row, a.CategoryName)
		rows = append(rows, row)
	}

	f, err := buildExportFile(rows)
	if err != nil {
		return nil, fmt.Errorf("build export file: %w", err)
	}
	return f, nil
}

func exportHeaders() []interface{} {
	headers := []interface{}{"ID", "Title"}
	for _, f := range model.Fields {
		headers = append(headers, f.Label)
	}
	return append(headers, model.CategoryLabel)
}

// buildExportFile - file trả về phải được caller Close; lỗi thì file đã được đóng
func buildExportFile(rows [][]interface{}) (f *excelize.File, err error) {
	f = excelize.NewFile()
	defer func() {
		if err == nil {
			return
		}
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close export file")
		}
		f = nil
	}()

	if err = f.SetSheetName("Sheet1", exportSheet); err != nil {
		return f, err
	}

	headers := exportHeaders()
	if err = f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return f, err
	}

	// header in đậm
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return f, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return f, fmt.Errorf("create header style: %w", err)
	}
	if err = f.SetCellStyle(exportSheet, "A1", lastCol+"1", style); err != nil {
		return f, fmt.Errorf("apply header style: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return f, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &rows[i]); err != nil {
			return f, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
