package formats

import (
	"bytes"
	"fmt"

	"github.com/redforge/a2aeval/src/orchestrator"
	"github.com/xuri/excelize/v2"
)

// RenderExcel builds a two-sheet workbook: a summary sheet with scanner
// metrics and a per-technique breakdown, and a vulnerabilities sheet.
func RenderExcel(result orchestrator.EvaluationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	f.SetCellValue(summarySheet, "A1", "A2A Security Evaluation Report")
	f.MergeCell(summarySheet, "A1", "E1")

	sm := result.ScannerMetrics
	metricRows := [][2]string{
		{"Accuracy", fmt.Sprintf("%.3f", sm.Accuracy)},
		{"Precision", fmt.Sprintf("%.3f", sm.Precision)},
		{"Recall", fmt.Sprintf("%.3f", sm.Recall)},
		{"F1 Score", fmt.Sprintf("%.3f", sm.F1Score)},
		{"FPR", fmt.Sprintf("%.3f", sm.FPR)},
		{"FNR", fmt.Sprintf("%.3f", sm.FNR)},
	}
	for i, row := range metricRows {
		r := i + 3
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row[1])
	}

	headerRow := len(metricRows) + 5
	headers := []string{"Technique", "TP", "FP", "FN", "TN", "F1"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c%d", 'A'+i, headerRow)
		f.SetCellValue(summarySheet, cell, h)
	}
	for i, sc := range sm.PerTechnique {
		r := headerRow + i + 1
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), sc.TechniqueID)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), sc.TP)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", r), sc.FP)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", r), sc.FN)
		f.SetCellValue(summarySheet, fmt.Sprintf("E%d", r), sc.TN)
		f.SetCellValue(summarySheet, fmt.Sprintf("F%d", r), sc.F1)
	}

	const vulnSheet = "Vulnerabilities"
	f.NewSheet(vulnSheet)
	vulnHeaders := []string{"ID", "Technique", "Severity", "CVSS", "Weakness", "Remediation"}
	for i, h := range vulnHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(vulnSheet, cell, h)
	}
	for i, v := range result.SubjectAssessment.Vulnerabilities {
		r := i + 2
		f.SetCellValue(vulnSheet, fmt.Sprintf("A%d", r), v.ID)
		f.SetCellValue(vulnSheet, fmt.Sprintf("B%d", r), v.TechniqueID)
		f.SetCellValue(vulnSheet, fmt.Sprintf("C%d", r), string(v.Severity))
		f.SetCellValue(vulnSheet, fmt.Sprintf("D%d", r), v.CVSSScore)
		f.SetCellValue(vulnSheet, fmt.Sprintf("E%d", r), v.WeaknessClassification)
		f.SetCellValue(vulnSheet, fmt.Sprintf("F%d", r), v.Remediation)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("formats: rendering excel: %w", err)
	}
	return buf.Bytes(), nil
}
