// Command wordfetch looks a word up across the configured dictionary
// sources and prints the aggregate senses.
//
// By default output is human-readable; -json prints the raw aggregate.
// -media downloads pronunciation audio and the entry picture next to
// the configured media directory.
//
// Exit codes: 0 = found, 1 = error, 2 = word not found.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch"
	"github.com/heartmarshall/wordfetch/internal/fetch/cambridge"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
	"github.com/heartmarshall/wordfetch/internal/fetch/wiktionary"
	"github.com/heartmarshall/wordfetch/internal/lookup"
	"github.com/heartmarshall/wordfetch/internal/media"
	"github.com/heartmarshall/wordfetch/internal/typo"
)

func main() {
	sourcesFlag := flag.String("sources", "", "comma-separated source IDs (default: configured sources)")
	timeout := flag.Duration("timeout", 60*time.Second, "overall lookup timeout")
	asJSON := flag.Bool("json", false, "print the aggregate result as JSON")
	withMedia := flag.Bool("media", false, "download audio and picture files")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wordfetch [flags] <word>")
		os.Exit(1)
	}
	word := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sources := cfg.Lookup.Sources
	if *sourcesFlag != "" {
		sources = nil
		for _, part := range strings.Split(*sourcesFlag, ",") {
			id, err := domain.ParseSourceID(strings.TrimSpace(part))
			if err != nil {
				logger.Error("bad source", slog.String("error", err.Error()))
				os.Exit(1)
			}
			sources = append(sources, id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := httpx.NewClient(cfg.HTTP, logger)
	registry := fetch.NewRegistry(
		cambridge.New(client, logger),
		wiktionary.NewRussian(client, logger),
		wiktionary.NewEnglish(client, logger),
	)
	svc := lookup.NewService(
		registry,
		typo.NewCollector(registry, cfg.Typo, logger),
		typo.NewVerifier(registry, cfg.Typo.MaxWorkers, logger),
		cfg.Lookup,
		cfg.Typo,
		logger,
	)

	op, err := svc.Lookup(ctx, word, sources)
	if err != nil {
		logger.Error("lookup", slog.String("error", err.Error()))
		os.Exit(1)
	}
	res, err := op.Wait(ctx)
	if err != nil {
		logger.Error("lookup timed out", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *asJSON {
		out := struct {
			Word        string
			Senses      []domain.Sense
			Statuses    map[domain.SourceID]domain.SourceStatus
			Errors      map[domain.SourceID]string
			Suggestions []string
		}{res.Word, res.Senses, res.Statuses, res.Errors, res.Suggestions}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out) //nolint:errcheck
	} else {
		printResult(cfg, res)
	}

	if res.Empty() {
		os.Exit(2)
	}

	if *withMedia {
		downloadMedia(ctx, client, cfg, res, logger)
	}
}

func printResult(cfg *config.Config, res lookup.Result) {
	if res.Empty() {
		fmt.Printf("no results for %q\n", res.Word)
		if len(res.Suggestions) > 0 {
			fmt.Printf("did you mean: %s\n", strings.Join(res.Suggestions, ", "))
		}
		for src, msg := range res.Errors {
			fmt.Printf("  %s: %s\n", src, msg)
		}
		return
	}

	fmt.Println(res.Word)
	for i, s := range res.Senses {
		fmt.Printf("%d. ", i+1)
		if s.PartOfSpeech != "" {
			fmt.Printf("[%s] ", s.PartOfSpeech)
		}
		fmt.Println(s.Definition)
		if ipa := domain.PickDialect(s.IPA, cfg.Lookup.DialectPriority); ipa != "" {
			fmt.Printf("   %s\n", ipa)
		}
		for _, ex := range s.Examples {
			fmt.Printf("   - %s\n", ex)
		}
		if len(s.Synonyms) > 0 {
			fmt.Printf("   syn: %s\n", strings.Join(s.Synonyms, ", "))
		}
	}
}

func downloadMedia(ctx context.Context, client *httpx.Client, cfg *config.Config, res lookup.Result, logger *slog.Logger) {
	dl := media.NewDownloader(client, cfg.Media, logger)
	for _, s := range res.Senses {
		if url := domain.PickDialect(s.AudioURLs, cfg.Lookup.DialectPriority); url != "" {
			dlCtx, cancel := context.WithTimeout(ctx, cfg.Media.DownloadTimeout)
			name, err := dl.Download(dlCtx, url, "")
			cancel()
			if err != nil {
				logger.Warn("audio download failed", slog.String("error", err.Error()))
			} else {
				fmt.Printf("audio: %s\n", name)
			}
			break
		}
	}
	for _, s := range res.Senses {
		if s.PictureURL != "" {
			dlCtx, cancel := context.WithTimeout(ctx, cfg.Media.DownloadTimeout)
			name, err := dl.Download(dlCtx, s.PictureURL, s.PictureReferer)
			cancel()
			if err != nil {
				logger.Warn("picture download failed", slog.String("error", err.Error()))
			} else {
				fmt.Printf("picture: %s\n", name)
			}
			break
		}
	}
}
