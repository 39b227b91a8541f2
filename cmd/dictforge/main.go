// Command dictforge assembles a canonical JSONL dictionary corpus from
// Kaikki and StarDict/FreeDict sources, enriched with Tatoeba example
// sentences.
//
// Flags:
//
//	--in-lang    override the configured input language
//	--out-lang   override the configured output language
//	--dry-run    skip the Tatoeba enrichment pass
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/heartmarshall/dictforge/internal/applog"
	"github.com/heartmarshall/dictforge/internal/assemble"
	"github.com/heartmarshall/dictforge/internal/cache"
	"github.com/heartmarshall/dictforge/internal/config"
	"github.com/heartmarshall/dictforge/internal/fetch"
	"github.com/heartmarshall/dictforge/internal/kindle"
	"github.com/heartmarshall/dictforge/internal/provider"
	"github.com/heartmarshall/dictforge/internal/source/kaikki"
	"github.com/heartmarshall/dictforge/internal/source/stardict"
)

func main() {
	inLangFlag := flag.String("in-lang", "", "override the configured input language")
	outLangFlag := flag.String("out-lang", "", "override the configured output language")
	dryRunFlag := flag.Bool("dry-run", false, "skip Tatoeba enrichment")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *inLangFlag != "" {
		cfg.InLang = *inLangFlag
	}
	if *outLangFlag != "" {
		cfg.OutLang = *outLangFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := applog.New(cfg.Log)

	kindleIn, err := kindle.LangCode(cfg.InLang, cfg.KindleLangOverride)
	if err != nil {
		logger.Error("resolve kindle locale", slog.String("error", err.Error()))
		os.Exit(1)
	}
	kindleOut, _ := kindle.LangCode(cfg.OutLang, "")
	logger.Info("resolved kindle locales", slog.String("in", kindleIn), slog.String("out", kindleOut))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Minute}
	layout := cache.New(cfg.CacheDir)

	kaikkiSource := kaikki.New(layout, fetch.New("kaikki", client, logger), logger)
	stardictSource := stardict.New(layout, fetch.New("stardict", client, logger), client, logger)

	ingestors := []assemble.DictionaryIngestor{
		assemble.KaikkiIngestor{Source: kaikkiSource},
		assemble.StarDictIngestor{Source: stardictSource},
	}

	var examples provider.ExampleProvider
	if !*dryRunFlag {
		tatoeba := provider.NewTatoebaProvider(cfg.InLang, cfg.OutLang, cfg.CacheDir, client, logger)
		if err := tatoeba.Load(ctx); err != nil {
			logger.Error("load tatoeba examples", slog.String("error", err.Error()))
			os.Exit(1)
		}
		examples = tatoeba
	}

	assembler := assemble.New(cfg, layout, ingestors, examples, logger)

	path, stats, err := assembler.Run(ctx)
	if err != nil {
		logger.Error("assembly failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("assembly complete",
		slog.String("path", path),
		slog.Int("final_headword_count", stats.FinalHeadwordCount),
		slog.Int("kaikki_total", stats.KaikkiTotal),
		slog.Int("kaikki_unique", stats.KaikkiUnique),
		slog.Int("tatoeba_total", stats.TatoebaTotal),
		slog.Int("tatoeba_unique", stats.TatoebaUnique),
		slog.Int("overlap", stats.Overlap),
		slog.Int("enriched_from_tatoeba", stats.EnrichedFromTatoeba),
	)

	fmt.Printf("corpus written to %s (%d headwords)\n", path, stats.FinalHeadwordCount)
}
