package feed

import (
	"context"
	"errors"
	"time"

	"github.com/TobiSchelling/ContentForge/internal/config"
	"github.com/TobiSchelling/ContentForge/internal/database"
	"github.com/TobiSchelling/ContentForge/internal/logger"
	"github.com/TobiSchelling/ContentForge/internal/pipeline"
	"github.com/TobiSchelling/ContentForge/internal/source"
)

// Runner processes one transcript, normally *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// TranscriptFetcher downloads transcripts, normally *source.Fetcher.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*source.Transcript, error)
	FetchFromPage(ctx context.Context, pageURL string) (*source.Transcript, error)
}

// Result holds the results of a collection run.
type Result struct {
	Found        int
	New          int
	Processed    int
	NoTranscript int
	Failed       int
	Runs         []*pipeline.Result
}

// Collector turns new feed episodes into pipeline runs.
type Collector struct {
	feeds   []config.Feed
	db      *database.DB
	parser  *Parser
	fetcher TranscriptFetcher
	runner  Runner
	log     logger.Logger
}

// NewCollector creates a collector over the configured feeds.
func NewCollector(feeds []config.Feed, db *database.DB, fetcher TranscriptFetcher, runner Runner, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{
		feeds:   feeds,
		db:      db,
		parser:  NewParser(),
		fetcher: fetcher,
		runner:  runner,
		log:     log,
	}
}

// Collect polls every feed, records unseen episodes and runs the pipeline
// on each pending episode in turn. Episodes left pending by an earlier
// interrupted run are retried.
func (c *Collector) Collect(ctx context.Context) *Result {
	r := &Result{}

	for _, fc := range c.feeds {
		eps, err := c.parser.Parse(ctx, fc.URL, fc.Name)
		if err != nil {
			c.log.Error(ctx, "Failed to parse feed %s: %v", fc.URL, err)
			continue
		}
		r.Found += len(eps)
		for _, e := range eps {
			inserted, err := c.db.InsertEpisode(record(e))
			if err != nil {
				c.log.Error(ctx, "Recording episode %q: %v", e.Title, err)
				continue
			}
			if inserted {
				r.New++
			}
		}
		c.log.Info(ctx, "Parsed %d episodes from %s", len(eps), fc.URL)
	}

	pending, err := c.db.GetPendingEpisodes()
	if err != nil {
		c.log.Error(ctx, "Loading pending episodes: %v", err)
		return r
	}
	for _, e := range pending {
		if ctx.Err() != nil {
			break
		}
		c.process(ctx, e, r)
	}

	c.log.Info(ctx, "Collection complete: %d new, %d processed, %d without transcript, %d failed",
		r.New, r.Processed, r.NoTranscript, r.Failed)
	return r
}

func (c *Collector) process(ctx context.Context, e database.Episode, r *Result) {
	t, err := c.transcript(ctx, e)
	if err != nil {
		status := database.EpisodeFailed
		if errors.Is(err, source.ErrNoTranscriptLink) || errors.Is(err, errNoSource) {
			status = database.EpisodeNoTranscript
			r.NoTranscript++
			c.log.Info(ctx, "No transcript for %q", e.Title)
		} else {
			r.Failed++
			c.log.Warn(ctx, "Fetching transcript for %q: %v", e.Title, err)
		}
		c.setStatus(ctx, e.GUID, status, nil)
		return
	}

	result, err := c.runner.Run(ctx, pipeline.Input{Name: e.Title, Source: t.Source, Transcript: t.Text})
	if err != nil {
		r.Failed++
		c.log.Error(ctx, "Pipeline failed for %q: %v", e.Title, err)
		c.setStatus(ctx, e.GUID, database.EpisodeFailed, nil)
		return
	}
	r.Processed++
	r.Runs = append(r.Runs, result)
	c.setStatus(ctx, e.GUID, database.EpisodeProcessed, &result.RunID)
}

var errNoSource = errors.New("episode has neither transcript tag nor link")

func (c *Collector) transcript(ctx context.Context, e database.Episode) (*source.Transcript, error) {
	switch {
	case e.TranscriptURL != nil && *e.TranscriptURL != "":
		return c.fetcher.Fetch(ctx, *e.TranscriptURL)
	case e.Link != nil && *e.Link != "":
		return c.fetcher.FetchFromPage(ctx, *e.Link)
	}
	return nil, errNoSource
}

func (c *Collector) setStatus(ctx context.Context, guid, status string, runID *string) {
	if err := c.db.SetEpisodeStatus(guid, status, runID); err != nil {
		c.log.Error(ctx, "Updating episode %s: %v", guid, err)
	}
}

func record(e Episode) *database.Episode {
	rec := &database.Episode{GUID: e.GUID, FeedURL: e.FeedURL, Title: e.Title}
	if e.Link != "" {
		rec.Link = &e.Link
	}
	if e.TranscriptURL != "" {
		rec.TranscriptURL = &e.TranscriptURL
	}
	if e.Published != nil {
		s := e.Published.UTC().Format(time.RFC3339)
		rec.PublishedAt = &s
	}
	return rec
}
