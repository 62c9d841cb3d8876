package recorder

import "vcpscan/pkg/model"

// NoopRecorder is used when no database path is configured
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *model.ScanResult) error       { return nil }
func (n *NoopRecorder) ScanSummaries(_ int) ([]ScanSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                               { return nil }
