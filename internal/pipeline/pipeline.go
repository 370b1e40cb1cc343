// Package pipeline wires configured sources into an aggregator and runs
// lookups for audio files.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"bestlyrics/internal/config"
	"bestlyrics/internal/logger"
	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/metrics"
	"bestlyrics/internal/source"
	"bestlyrics/internal/source/lrclib"
	"bestlyrics/internal/source/lyricsovh"
	"bestlyrics/internal/source/musixmatch"
	"bestlyrics/internal/tagfile"

	"golang.org/x/sync/errgroup"
)

// Sources builds the enabled sources in priority order. The order of
// cfg.Sources does not matter.
func Sources(cfg config.Config, log *logger.Logger, m *metrics.Collector) []lyrics.Source {
	opts := source.Options{
		Logger:    log,
		Metrics:   m,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.SourceTimeout,
		RateLimit: cfg.RateLimit,
	}

	var sources []lyrics.Source
	if cfg.HasSource(config.SourceLRCLib) {
		sources = append(sources, lrclib.New(opts))
	}
	if cfg.HasSource(config.SourceLyricsOVH) {
		sources = append(sources, lyricsovh.New(opts))
	}
	if cfg.HasSource(config.SourceMusixmatch) {
		mxm := musixmatch.New(cfg.MusixmatchAPIKey, opts)
		if !mxm.Enabled() {
			log.Debug("Musixmatch has no API key and will be skipped")
		}
		sources = append(sources, mxm)
	}
	return sources
}

// NewAggregator creates an Aggregator over the sources enabled in cfg.
func NewAggregator(cfg config.Config, log *logger.Logger, m *metrics.Collector) *lyrics.Aggregator {
	return lyrics.NewAggregator(Sources(cfg, log, m), log, m, cfg.SourceTimeout)
}

// Finder runs one lyrics aggregation.
type Finder interface {
	Aggregate(ctx context.Context, q lyrics.Query) (lyrics.Result, error)
}

type Options struct {
	Embed     bool // write the selected lyrics into the file
	Overwrite bool // replace lyrics already embedded in the file
	Jobs      int  // files processed in parallel by RunDir; 0 means 4
}

type Hooks struct {
	OnFilesFound func(total int)
	OnProgress   func()
	OnWarning    func(msg string)
}

// FileResult is the outcome of a lookup for one file.
type FileResult struct {
	Path     string
	Query    lyrics.Query
	Result   lyrics.Result
	Embedded bool
	Skipped  bool // the file already had lyrics and Overwrite was off
}

// FetchFile reads the title and artist from the file at path and looks up
// its lyrics, embedding them when opts.Embed is set.
func FetchFile(ctx context.Context, f Finder, path string, opts Options, log *logger.Logger) (FileResult, error) {
	fr := FileResult{Path: path}

	if opts.Embed && !opts.Overwrite {
		existing, err := tagfile.ReadLyrics(path)
		if err != nil {
			return fr, err
		}
		if existing != "" {
			log.Debug("%s already has lyrics, skipping", path)
			fr.Skipped = true
			return fr, nil
		}
	}

	q, err := tagfile.ReadQuery(path)
	if err != nil {
		return fr, err
	}
	fr.Query = q

	res, err := f.Aggregate(ctx, q)
	if err != nil {
		return fr, err
	}
	fr.Result = res

	best, ok := res.Best()
	if !ok {
		log.Debug("No lyrics found for %q by %q", q.Title, q.Artist)
		return fr, nil
	}
	log.Debug("Selected %s (score %.1f) for %q by %q", best.Source, best.Score, q.Title, q.Artist)

	if opts.Embed {
		if err := tagfile.EmbedLyrics(path, best.Text); err != nil {
			return fr, err
		}
		fr.Embedded = true
	}
	return fr, nil
}

type Stats struct {
	Total    int
	Found    int
	Embedded int
	Skipped  int
	Failed   int
}

// RunDir runs FetchFile for every audio file under dir. Per-file failures
// are counted and reported through hooks; only cancellation and an
// unreadable dir abort the run.
func RunDir(ctx context.Context, f Finder, dir string, opts Options, log *logger.Logger, hooks Hooks) (Stats, error) {
	files, err := FindAudioFiles(dir)
	if err != nil {
		return Stats{}, err
	}
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("no audio files found in %s", dir)
	}
	if hooks.OnFilesFound != nil {
		hooks.OnFilesFound(len(files))
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 4
	}

	var (
		mu    sync.Mutex
		stats = Stats{Total: len(files)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, path := range files {
		g.Go(func() error {
			fr, err := FetchFile(gctx, f, path, opts, log)

			mu.Lock()
			defer mu.Unlock()
			if hooks.OnProgress != nil {
				hooks.OnProgress()
			}

			switch {
			case err != nil && ctx.Err() != nil:
				return ctx.Err()
			case err != nil:
				stats.Failed++
				msg := fmt.Sprintf("%s: %v", path, err)
				log.Warn("%s", msg)
				if hooks.OnWarning != nil {
					hooks.OnWarning(msg)
				}
			case fr.Skipped:
				stats.Skipped++
			default:
				if _, ok := fr.Result.Best(); ok {
					stats.Found++
				}
				if fr.Embedded {
					stats.Embedded++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("lyrics run interrupted: %w", err)
	}
	return stats, nil
}
