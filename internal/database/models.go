package database

// Run is one pass of a transcript through the content pipeline.
type Run struct {
	ID                string
	Name              string
	Source            *string
	GeneratedMarkdown string
	PolishedMarkdown  *string
	AnalysisJSON      *string
	CreatedAt         *string
}

// Report returns the polished report when there is one, else the generated
// report.
func (r *Run) Report() string {
	if r.PolishedMarkdown != nil && *r.PolishedMarkdown != "" {
		return *r.PolishedMarkdown
	}
	return r.GeneratedMarkdown
}

// ArtifactOutcome records how one artifact fared at one pipeline stage.
type ArtifactOutcome struct {
	RunID    string
	Artifact string
	Stage    string // "generate", "parse" or "polish"
	Status   string // "ok", "warn", "failed" or "skipped"
	Error    *string
}

// Episode is a feed item seen by the collector.
type Episode struct {
	GUID          string
	FeedURL       string
	Title         string
	Link          *string
	TranscriptURL *string
	Status        string
	RunID         *string
	PublishedAt   *string
	CollectedAt   *string
}

// Episode statuses.
const (
	EpisodePending      = "pending"
	EpisodeProcessed    = "processed"
	EpisodeNoTranscript = "no_transcript"
	EpisodeFailed       = "failed"
)

// Stats holds aggregate database statistics.
type Stats struct {
	Runs             int
	PolishedRuns     int
	FailedArtifacts  int
	Episodes         int
	PendingEpisodes  int
	EpisodesNoScript int
}
