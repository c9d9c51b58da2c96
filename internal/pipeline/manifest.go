package pipeline

import (
	"github.com/TobiSchelling/ContentForge/internal/content"
	"github.com/TobiSchelling/ContentForge/internal/database"
)

// Stage is a point in the pipeline where an artifact can fail.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageParse    Stage = "parse"
	StagePolish   Stage = "polish"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusWarn    Status = "warn"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is one manifest entry: how an artifact fared at a stage.
type Outcome struct {
	Artifact content.Kind
	Stage    Stage
	Status   Status
	Err      error
}

// Manifest lists per-artifact outcomes in the order they were recorded.
type Manifest []Outcome

func (m *Manifest) record(kind content.Kind, stage Stage, status Status, err error) {
	*m = append(*m, Outcome{Artifact: kind, Stage: stage, Status: status, Err: err})
}

// Failed returns the outcomes whose status is failed.
func (m Manifest) Failed() []Outcome {
	var out []Outcome
	for _, o := range m {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// Lookup returns the outcome for an artifact at a stage.
func (m Manifest) Lookup(kind content.Kind, stage Stage) (Outcome, bool) {
	for _, o := range m {
		if o.Artifact == kind && o.Stage == stage {
			return o, true
		}
	}
	return Outcome{}, false
}

// Stage returns the outcomes recorded for one stage.
func (m Manifest) Stage(stage Stage) Manifest {
	var out Manifest
	for _, o := range m {
		if o.Stage == stage {
			out = append(out, o)
		}
	}
	return out
}

func (m Manifest) records(runID string) []database.ArtifactOutcome {
	rows := make([]database.ArtifactOutcome, len(m))
	for i, o := range m {
		rows[i] = database.ArtifactOutcome{
			RunID:    runID,
			Artifact: string(o.Artifact),
			Stage:    string(o.Stage),
			Status:   string(o.Status),
		}
		if o.Err != nil {
			msg := o.Err.Error()
			rows[i].Error = &msg
		}
	}
	return rows
}
