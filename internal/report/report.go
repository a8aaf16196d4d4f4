// Package report renders a human-readable diff between two checkpoint
// documents (rendered as YAML) using gonvenience/ytbx and homeport/dyff.
// Its only caller is the "besmarts diff" CLI verb; the optimizer's
// per-macro progress output does not use it (SPEC_FULL.md §3).
package report

import (
	"bytes"
	"fmt"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff"

	"github.com/ntBre/besmarts/internal/checkpoint"
)

// Diff compares two checkpoint documents and renders a dyff human report.
func Diff(from, to checkpoint.Document, fromLabel, toLabel string) (string, error) {
	fromInput, err := toInputFile(from, fromLabel)
	if err != nil {
		return "", fmt.Errorf("report: preparing %s: %w", fromLabel, err)
	}
	toInput, err := toInputFile(to, toLabel)
	if err != nil {
		return "", fmt.Errorf("report: preparing %s: %w", toLabel, err)
	}

	result, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("report: comparing documents: %w", err)
	}

	var buf bytes.Buffer
	humanReport := &dyff.HumanReport{
		Report:     result,
		NoTableStyle: false,
		DoNotInspectCerts: true,
	}
	if err := humanReport.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("report: rendering: %w", err)
	}
	return buf.String(), nil
}

func toInputFile(doc checkpoint.Document, label string) (ytbx.InputFile, error) {
	data, err := checkpoint.Encode(doc)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	nodes, err := ytbx.LoadDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, fmt.Errorf("report: parsing %s as YAML: %w", label, err)
	}
	return ytbx.InputFile{Location: label, Documents: nodes}, nil
}
