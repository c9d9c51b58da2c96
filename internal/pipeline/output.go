package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TobiSchelling/ContentForge/internal/nlp"
)

// Output file names written into a run directory.
const (
	GeneratedFile = "generated_content.md"
	PolishedFile  = "polished_content.md"
	AnalysisFile  = "content_analysis.json"
)

// Analysis is the machine-readable record of a run's features and manifest.
type Analysis struct {
	RunID          string           `json:"run_id"`
	Name           string           `json:"name"`
	Entities       []nlp.Entity     `json:"entities"`
	Keywords       []nlp.Keyword    `json:"keywords"`
	Topics         []string         `json:"topics"`
	KeyPhrases     []string         `json:"key_phrases"`
	Questions      []string         `json:"questions"`
	SentimentScore float64          `json:"sentiment_score"`
	Manifest       []ManifestRecord `json:"manifest"`
}

type ManifestRecord struct {
	Artifact string `json:"artifact"`
	Stage    string `json:"stage"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// NewAnalysis summarizes a result for content_analysis.json.
func NewAnalysis(r *Result) *Analysis {
	a := &Analysis{RunID: r.RunID, Name: r.Name}
	if f := r.Features; f != nil {
		a.Entities = f.Entities
		a.Keywords = f.Keywords
		a.Topics = f.Topics
		a.KeyPhrases = f.KeyPhrases
		a.Questions = f.Questions
		a.SentimentScore = f.SentimentScore
	}
	for _, o := range r.Manifest {
		rec := ManifestRecord{Artifact: string(o.Artifact), Stage: string(o.Stage), Status: string(o.Status)}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		a.Manifest = append(a.Manifest, rec)
	}
	return a
}

// WriteOutputs writes the reports and analysis of r into dir and returns the
// paths written.
func WriteOutputs(dir string, r *Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files := map[string]string{GeneratedFile: r.GeneratedReport}
	if r.PolishedReport != "" {
		files[PolishedFile] = r.PolishedReport
	}
	data, err := json.MarshalIndent(NewAnalysis(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	files[AnalysisFile] = string(data) + "\n"

	var written []string
	for _, name := range []string{GeneratedFile, PolishedFile, AnalysisFile} {
		body, ok := files[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// RunDir is the directory a run's files are written to under dataDir.
func RunDir(dataDir, runID string) string {
	return filepath.Join(dataDir, "runs", runID)
}
