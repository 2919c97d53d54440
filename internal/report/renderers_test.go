package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"

	"github.com/garyjia/keihi-ai/internal/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func sampleRecords() []expense.Record {
	return []expense.Record{
		{Merchant: "スターバックス", Date: "2025/09/01", Amount: 580, Category: "飲食費", PaymentMethod: "クレジットカード", Notes: "打合せ"},
		{Merchant: "タイムズ", Date: "2025/09/02", Amount: 800, Category: "駐車場", PaymentMethod: "現金", Notes: ""},
		{Merchant: "東横inn", Date: "2025/09/02", Amount: 7800, Category: "宿泊費", PaymentMethod: "クレジットカード", Notes: "出張"},
		{Merchant: "cafe_receipt", Date: "2025/10/01", Amount: 1000, Category: expense.CategoryOther, PaymentMethod: "現金", Notes: "手動確認推奨"},
	}
}

// All four renderers must report identical aggregates for the same
// record list.
func TestRenderersAgreeOnAggregates(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()
	records := sampleRecords()

	factory := NewFactory(dir, "", logger)
	formats := []string{FormatExcel, FormatCSV, FormatFreee, FormatPDF}

	wantTotal := 580 + 800 + 7800 + 1000
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			total, categories, err := factory.ForFormat(format).Render(records, "2025年9月", "山田太郎")
			require.NoError(t, err)
			assert.Equal(t, wantTotal, total)
			assert.Equal(t, 4, categories)

			info, err := os.Stat(ArtifactPath(dir, format))
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

// An empty batch still produces a valid artifact in every format.
func TestRenderersEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	factory := NewFactory(dir, "", logger)
	for _, format := range []string{FormatExcel, FormatCSV, FormatFreee, FormatPDF} {
		t.Run(format, func(t *testing.T) {
			total, categories, err := factory.ForFormat(format).Render(nil, "2025年9月", "")
			require.NoError(t, err)
			assert.Equal(t, 0, total)
			assert.Equal(t, 0, categories)

			_, err = os.Stat(ArtifactPath(dir, format))
			require.NoError(t, err)
		})
	}
}

func TestFlatCSVRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewFlatCSVRenderer(dir, zap.NewNop())

	total, categories, err := r.Render(sampleRecords(), "2025年9月", "山田太郎")
	require.NoError(t, err)
	assert.Equal(t, 10180, total)
	assert.Equal(t, 4, categories)

	data, err := os.ReadFile(ArtifactPath(dir, FormatCSV))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6) // header + 4 records + totals

	assert.Equal(t, []string{"No.", "店名", "日付", "カテゴリ", "金額（円）", "支払方法", "備考"}, rows[0])
	assert.Equal(t, []string{"1", "スターバックス", "2025/09/01", "飲食費", "580", "クレジットカード", "打合せ"}, rows[1])
	assert.Equal(t, []string{"合計", "", "", "", "10180", "", ""}, rows[5])
}

func TestFreeeCSVRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewFreeeCSVRenderer(dir, zap.NewNop())

	records := []expense.Record{
		{Merchant: "スターバックス", Date: "2025-09-01", Amount: 580, Category: "飲食費", PaymentMethod: "クレジットカード"},
		{Merchant: "不明な店", Date: "2025/09/03", Amount: 1000, Category: expense.CategoryOther, PaymentMethod: "現金"},
	}

	_, _, err := r.Render(records, "2025年9月", "山田太郎")
	require.NoError(t, err)

	data, err := os.ReadFile(ArtifactPath(dir, FormatFreee))
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, freeeHeader, rows[0])

	// Dashes in dates are normalized to slashes; categories map through
	// the account table; the memo carries merchant plus applicant.
	assert.Equal(t, "2025/09/01", rows[1][0])
	assert.Equal(t, "交際費", rows[1][1])
	assert.Equal(t, "課税仕入10%", rows[1][3])
	assert.Equal(t, "580", rows[1][4])
	assert.Equal(t, "現金", rows[1][5])
	assert.Equal(t, "580", rows[1][8])
	assert.Equal(t, "スターバックス（山田太郎）", rows[1][9])

	// Catch-all category maps to the miscellaneous default account.
	assert.Equal(t, "雑費", rows[2][1])
}

func TestFreeeCSVRendererOmitsApplicantWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	r := NewFreeeCSVRenderer(dir, zap.NewNop())

	records := []expense.Record{
		{Merchant: "タイムズ", Date: "2025/09/02", Amount: 800, Category: "駐車場"},
	}
	_, _, err := r.Render(records, "2025年9月", "")
	require.NoError(t, err)

	data, err := os.ReadFile(ArtifactPath(dir, FormatFreee))
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "タイムズ", rows[1][9])
}

func TestExcelRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewExcelRenderer(dir, zap.NewNop())

	total, categories, err := r.Render(sampleRecords(), "2025年9月", "山田太郎")
	require.NoError(t, err)
	assert.Equal(t, 10180, total)
	assert.Equal(t, 4, categories)

	f, err := excelize.OpenFile(ArtifactPath(dir, FormatExcel))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"経費一覧", "カテゴリ別集計"}, f.GetSheetList())

	title, err := f.GetCellValue("経費一覧", "A1")
	require.NoError(t, err)
	assert.Equal(t, "経費精算書　2025年9月　申請者: 山田太郎", title)

	// 1-based row numbering in input order.
	no, err := f.GetCellValue("経費一覧", "A3")
	require.NoError(t, err)
	assert.Equal(t, "1", no)
	merchant, err := f.GetCellValue("経費一覧", "B3")
	require.NoError(t, err)
	assert.Equal(t, "スターバックス", merchant)

	// The totals cell is a formula over the data range, agreeing with
	// the precomputed return value.
	formula, err := f.GetCellFormula("経費一覧", "E7")
	require.NoError(t, err)
	assert.Equal(t, "SUM(E3:E6)", formula)

	// Category sheet follows first-occurrence order.
	cat, err := f.GetCellValue("カテゴリ別集計", "A2")
	require.NoError(t, err)
	assert.Equal(t, "飲食費", cat)
	amt, err := f.GetCellValue("カテゴリ別集計", "B2")
	require.NoError(t, err)
	assert.Equal(t, "580", amt)
}

func TestExcelRendererUnnamedApplicant(t *testing.T) {
	dir := t.TempDir()
	r := NewExcelRenderer(dir, zap.NewNop())

	_, _, err := r.Render(nil, "2025年9月", "")
	require.NoError(t, err)

	f, err := excelize.OpenFile(ArtifactPath(dir, FormatExcel))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("経費一覧", "A1")
	require.NoError(t, err)
	assert.Equal(t, "経費精算書　2025年9月　申請者: 未記入", title)
}

func TestPDFRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewPDFRenderer(dir, "", zap.NewNop())

	total, categories, err := r.Render(sampleRecords(), "2025年9月", "山田太郎")
	require.NoError(t, err)
	assert.Equal(t, 10180, total)
	assert.Equal(t, 4, categories)

	data, err := os.ReadFile(ArtifactPath(dir, FormatPDF))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "not a PDF file")
}
