package service

import (
	"bytes"
	"errors"
	"testing"

	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, build func(f *excelize.File)) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	build(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestImportNamedSheets(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferenceService(repository.NewReferenceRepository(db))

	buf := workbookBytes(t, func(f *excelize.File) {
		f.NewSheet("Interests")
		f.SetCellValue("Interests", "A1", "Интерес")
		f.SetCellValue("Interests", "A2", "музыка")
		f.SetCellValue("Interests", "A3", "спорт")
		f.NewSheet("Регионы")
		f.SetCellValue("Регионы", "A1", "Москва")
		f.SetCellValue("Регионы", "A2", "Казань")
	})

	interests, regions, err := svc.ImportWorkbook(buf)
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}
	if interests != 2 || regions != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", interests, regions)
	}

	names, err := svc.Interests()
	if err != nil {
		t.Fatalf("Interests: %v", err)
	}
	if len(names) != 2 || names[0] != "музыка" || names[1] != "спорт" {
		t.Errorf("interests = %v, header row not skipped", names)
	}

	names, err = svc.Regions()
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(names) != 2 || names[0] != "Казань" || names[1] != "Москва" {
		t.Errorf("regions = %v, want [Казань Москва]", names)
	}
}

func TestImportSingleSheetFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferenceService(repository.NewReferenceRepository(db))

	buf := workbookBytes(t, func(f *excelize.File) {
		sheet := f.GetSheetName(0)
		f.SetCellValue(sheet, "A1", "музыка")
		f.SetCellValue(sheet, "B1", "Москва")
		f.SetCellValue(sheet, "A2", "кино")
	})

	interests, regions, err := svc.ImportWorkbook(buf)
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}
	if interests != 2 || regions != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", interests, regions)
	}
}

func TestImportReplacesExistingVocabulary(t *testing.T) {
	db := newTestDB(t)
	refs := repository.NewReferenceRepository(db)
	svc := NewReferenceService(refs)

	if err := refs.ReplaceInterests([]string{"старое"}); err != nil {
		t.Fatalf("ReplaceInterests: %v", err)
	}

	buf := workbookBytes(t, func(f *excelize.File) {
		f.NewSheet("Interests")
		f.SetCellValue("Interests", "A1", "новое")
	})
	if _, _, err := svc.ImportWorkbook(buf); err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	names, err := svc.Interests()
	if err != nil {
		t.Fatalf("Interests: %v", err)
	}
	if len(names) != 1 || names[0] != "новое" {
		t.Errorf("interests = %v, want the import to replace wholesale", names)
	}
}

func TestImportEmptyWorkbook(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferenceService(repository.NewReferenceRepository(db))

	buf := workbookBytes(t, func(f *excelize.File) {})

	if _, _, err := svc.ImportWorkbook(buf); !errors.Is(err, util.ErrEmptyWorkbook) {
		t.Errorf("ImportWorkbook on empty file = %v, want ErrEmptyWorkbook", err)
	}
}
