package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFixtureWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "October")
	rows := [][]interface{}{
		{"PIN CODE", "FULL NAME", "DATE", "HOURS WORKED", "OVERTIME HOURS", "TARGET"},
		{"1001", "Dana Karim", "2025-10-01", "9.5", "1.5", "8"},
		{"1002", "Omar Salih", "2025-10-01", "8", "off", "8"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("October", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestRunProcess_WritesSummaryAndCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.xlsx")
	output := filepath.Join(dir, "summary.xlsx")
	csvDir := filepath.Join(dir, "csv")
	writeFixtureWorkbook(t, input)
	require.NoError(t, os.MkdirAll(csvDir, 0o755))

	err := runProcess(context.Background(), processOptions{
		input:  input,
		output: output,
		csvDir: csvDir,
		topN:   5,
	})
	require.NoError(t, err)

	wb, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "By Employee")
	assert.Contains(t, wb.GetSheetList(), "Top Employees")

	_, err = os.Stat(filepath.Join(csvDir, "by_employee.csv"))
	assert.NoError(t, err)
}

func TestRunProcess_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runProcess(context.Background(), processOptions{
		input:  filepath.Join(dir, "absent.xlsx"),
		output: filepath.Join(dir, "summary.xlsx"),
		topN:   5,
	})
	require.Error(t, err)
}

func TestProcessCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"process"})
	err := cmd.Execute()
	require.Error(t, err)
}
