package service

import (
	"io"
	"strings"

	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"
	"meetup_bot/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReferenceService imports the interest and region vocabularies from an xlsx
// workbook and serves the resulting name lists to the dialog layer.
type ReferenceService struct {
	Refs *repository.ReferenceRepository
}

func NewReferenceService(refs *repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{Refs: refs}
}

func (s *ReferenceService) Interests() ([]string, error) {
	return s.Refs.InterestNames()
}

func (s *ReferenceService) Regions() ([]string, error) {
	return s.Refs.RegionNames()
}

// Sheet names recognized for each vocabulary, in lookup order.
var (
	interestSheets = []string{"Interests", "Интересы"}
	regionSheets   = []string{"Regions", "Регионы"}
)

// ImportWorkbook replaces both vocabularies from an uploaded workbook.
// Layout: either one sheet per vocabulary (named per the lists above, column
// A holds names, a header row is skipped if present), or a single two-column
// sheet with interests in column A and regions in column B.
func (s *ReferenceService) ImportWorkbook(r io.Reader) (interests, regions int, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Log.Warn("closing workbook", zap.Error(cerr))
		}
	}()

	interestNames := namedSheetColumn(f, interestSheets, 0)
	regionNames := namedSheetColumn(f, regionSheets, 0)

	// Single-sheet fallback: column A interests, column B regions.
	if interestNames == nil && regionNames == nil {
		sheets := f.GetSheetList()
		if len(sheets) > 0 {
			interestNames = sheetColumn(f, sheets[0], 0)
			regionNames = sheetColumn(f, sheets[0], 1)
		}
	}

	if len(interestNames) == 0 && len(regionNames) == 0 {
		return 0, 0, util.ErrEmptyWorkbook
	}

	if len(interestNames) > 0 {
		if err := s.Refs.ReplaceInterests(interestNames); err != nil {
			return 0, 0, err
		}
	}
	if len(regionNames) > 0 {
		if err := s.Refs.ReplaceRegions(regionNames); err != nil {
			return 0, 0, err
		}
	}
	return len(interestNames), len(regionNames), nil
}

func namedSheetColumn(f *excelize.File, names []string, col int) []string {
	for _, name := range names {
		if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
			return sheetColumn(f, name, col)
		}
	}
	return nil
}

// sheetColumn reads one column, trimming blanks and skipping a header row
// when the first cell looks like a label rather than data.
func sheetColumn(f *excelize.File, sheet string, col int) []string {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil
	}
	var out []string
	for i, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if i == 0 && isHeaderCell(cell) {
			continue
		}
		out = append(out, cell)
	}
	return out
}

func isHeaderCell(cell string) bool {
	lower := strings.ToLower(cell)
	for _, h := range []string{"interest", "интерес", "region", "регион", "name", "название"} {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
