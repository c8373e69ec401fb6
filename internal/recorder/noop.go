package recorder

import "VolumeScope/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not
// configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordProfile(_ *ProfileSnapshot) error                  { return nil }
func (n *NoopRecorder) RecordBreaks(_ string, _ []model.BreakSignal) error      { return nil }
func (n *NoopRecorder) RecordSimulation(_ *SimulationSummary) error             { return nil }
func (n *NoopRecorder) RecordChannels(_ string, _ []model.Channel) error        { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
