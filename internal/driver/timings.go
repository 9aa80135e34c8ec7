package driver

import (
	"encoding/json"
	"fmt"

	"tarn/internal/diag"
	"tarn/internal/names"
	"tarn/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings folds the timer's report into the bag as an INFO
// diagnostic. The detail carries the machine-readable JSON so tooling
// can scrape it from ordinary diagnostic output.
func AppendTimings(bag *diag.Bag, timer *observ.Timer, kind, path string) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg += ": " + payload.Path
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, names.Name{}, msg).WithDetail(string(data))

	if bag.Add(entry) {
		return
	}
	// The bag is full of real findings; timings still must not vanish.
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
