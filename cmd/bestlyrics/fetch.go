package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/pipeline"
	"bestlyrics/internal/progress"
	"bestlyrics/internal/web"

	"github.com/spf13/cobra"
)

var errNotFound = errors.New("no lyrics found from any source")

type fetchOptions struct {
	title, artist string
	file, dir     string
	jsonOutput    bool
	embed         bool
	overwrite     bool
	jobs          int
}

func newFetchCmd(a *app) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Look up lyrics for a song, an audio file or a folder",
		Example: `  bestlyrics fetch --title "Yellow" --artist "Coldplay"
  bestlyrics fetch --title "Yellow" --artist "Coldplay" --json
  bestlyrics fetch --file ~/Music/yellow.mp3 --embed
  bestlyrics fetch --dir ~/Music --embed --jobs 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			switch {
			case opts.dir != "":
				return runFetchDir(cmd, a, opts)
			case opts.file != "":
				return runFetchFile(cmd, a, opts, out)
			default:
				return runFetchQuery(cmd, a, opts, out)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Song title")
	cmd.Flags().StringVarP(&opts.artist, "artist", "a", "", "Artist name")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read title and artist from this audio file's tags")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Process every audio file under this folder")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the same JSON body as the HTTP API")
	cmd.Flags().BoolVarP(&opts.embed, "embed", "e", false, "Write the selected lyrics into the audio file")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace lyrics already embedded in the file")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Files processed in parallel with --dir")

	cmd.MarkFlagsMutuallyExclusive("file", "dir")
	cmd.MarkFlagsMutuallyExclusive("title", "file")
	cmd.MarkFlagsMutuallyExclusive("title", "dir")
	cmd.MarkFlagsMutuallyExclusive("json", "dir")

	return cmd
}

func runFetchQuery(cmd *cobra.Command, a *app, opts fetchOptions, out io.Writer) error {
	q, err := lyrics.NewQuery(opts.title, opts.artist)
	if err != nil {
		return fmt.Errorf("--title and --artist are required: %w", err)
	}

	res, err := pipeline.NewAggregator(a.cfg, a.log, a.metrics).Aggregate(cmd.Context(), q)
	if err != nil {
		return err
	}
	return printResult(out, res, opts.jsonOutput)
}

func runFetchFile(cmd *cobra.Command, a *app, opts fetchOptions, out io.Writer) error {
	agg := pipeline.NewAggregator(a.cfg, a.log, a.metrics)
	fr, err := pipeline.FetchFile(cmd.Context(), agg, opts.file, pipeline.Options{
		Embed:     opts.embed,
		Overwrite: opts.overwrite,
	}, a.log)
	if err != nil {
		return err
	}
	if fr.Skipped {
		a.log.Info("%s already has lyrics (use --overwrite to replace them)", opts.file)
		return nil
	}

	if !opts.jsonOutput {
		fmt.Fprintf(out, "%s - %s\n", fr.Query.Artist, fr.Query.Title)
	}
	if err := printResult(out, fr.Result, opts.jsonOutput); err != nil {
		return err
	}
	if fr.Embedded {
		a.log.Info("Embedded lyrics into %s", opts.file)
	}
	return nil
}

func runFetchDir(cmd *cobra.Command, a *app, opts fetchOptions) error {
	agg := pipeline.NewAggregator(a.cfg, a.log, a.metrics)

	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnFilesFound: func(total int) {
			a.log.Info("Found %d audio files in %s", total, opts.dir)
			if !a.cfg.Verbose {
				bar = progress.New(os.Stderr, "Lyrics", total)
			}
		},
		OnProgress: func() {
			if bar != nil {
				bar.Increment()
			}
		},
	}

	stats, err := pipeline.RunDir(cmd.Context(), agg, opts.dir, pipeline.Options{
		Embed:     opts.embed,
		Overwrite: opts.overwrite,
		Jobs:      opts.jobs,
	}, a.log, hooks)

	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	a.log.Info("Found lyrics for %d of %d files (%d embedded, %d skipped, %d failed)",
		stats.Found, stats.Total, stats.Embedded, stats.Skipped, stats.Failed)
	return nil
}

// printResult writes the selected lyrics, or the API body with asJSON.
// An empty result is reported as errNotFound in both modes.
func printResult(out io.Writer, res lyrics.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(web.ResponseBody(res)); err != nil {
			return err
		}
	}

	best, ok := res.Best()
	if !ok {
		if !asJSON {
			fmt.Fprintf(out, "No lyrics found (tried: %s)\n", joinSources(res.Tried))
		}
		return errNotFound
	}
	if asJSON {
		return nil
	}

	synced := ""
	if best.Synced {
		synced = ", synced"
	}
	fmt.Fprintf(out, "Source: %s (score %.1f%s)\n", best.Source, best.Score, synced)
	if len(res.Ranked) > 1 {
		others := make([]string, 0, len(res.Ranked)-1)
		for _, c := range res.Ranked[1:] {
			others = append(others, fmt.Sprintf("%s %.1f", c.Source, c.Score))
		}
		fmt.Fprintf(out, "Also: %s\n", strings.Join(others, ", "))
	}
	fmt.Fprintf(out, "\n%s\n", best.Text)
	return nil
}

func joinSources(ids []lyrics.SourceID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
