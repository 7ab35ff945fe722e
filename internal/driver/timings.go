package driver

import (
	"encoding/json"
	"fmt"

	"pyfmt/internal/diag"
	"pyfmt/internal/observ"
	"pyfmt/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Files   int                  `json:"files,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic renders a timer report as an info diagnostic whose note
// carries the JSON payload.
func TimingDiagnostic(kind, path string, files int, report observ.Report) diag.Diagnostic {
	payload := timingPayload{Kind: kind, Path: path, Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
	}
	if data, err := json.Marshal(payload); err == nil {
		entry.Notes = []diag.Note{{Span: source.Span{}, Msg: string(data)}}
	}
	return entry
}
