// Package formats renders an EvaluationResult into exportable document
// formats alongside the canonical JSON sink.
package formats

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/redforge/a2aeval/src/orchestrator"
)

// RenderPDF builds a PDF summarizing result: a scanner-metrics table
// followed by a vulnerability list. Only the first page is added
// explicitly; any later page comes from automatic page breaks.
func RenderPDF(result orchestrator.EvaluationResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("A2A Security Evaluation Report", true)
	pdf.SetAuthor("a2aeval", true)
	pdf.SetCreator("a2aeval", true)

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "A2A Security Evaluation Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Scanner Effectiveness", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	sm := result.ScannerMetrics
	for _, row := range [][2]string{
		{"Accuracy", fmt.Sprintf("%.3f", sm.Accuracy)},
		{"Precision", fmt.Sprintf("%.3f", sm.Precision)},
		{"Recall", fmt.Sprintf("%.3f", sm.Recall)},
		{"F1 Score", fmt.Sprintf("%.3f", sm.F1Score)},
		{"False Positive Rate", fmt.Sprintf("%.3f", sm.FPR)},
		{"False Negative Rate", fmt.Sprintf("%.3f", sm.FNR)},
	} {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	assessment := result.SubjectAssessment
	pdf.CellFormat(0, 8, fmt.Sprintf("Subject Assessment: %d/100 (%s, %s)", assessment.Score, assessment.Grade, assessment.Rating), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Technique", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Severity", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "CVSS", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Weakness", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, v := range assessment.Vulnerabilities {
		pdf.CellFormat(40, 6, v.TechniqueID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, string(v.Severity), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f", v.CVSSScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(95, 6, v.WeaknessClassification, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("formats: rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
