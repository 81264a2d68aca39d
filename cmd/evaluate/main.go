package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/application/services"
	"github.com/zatekoja/holistic-provider-directory/internal/bootstrap"
	"github.com/zatekoja/holistic-provider-directory/internal/evaluation"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	querysvc "github.com/zatekoja/holistic-provider-directory/internal/query/services"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

func main() {
	var (
		casesPath string
		enforce   bool
	)
	flag.StringVar(&casesPath, "cases", "", "golden cases JSON; empty uses the built-in set")
	flag.BoolVar(&enforce, "enforce", false, "exit non-zero when the default thresholds are missed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env, cfg.Log.Level)

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer store.Close()

	keywords := querysvc.DefaultSymptomKeywords
	if cfg.Matching.SymptomKeywordsPath != "" {
		if keywords, err = querysvc.LoadSymptomKeywords(cfg.Matching.SymptomKeywordsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load symptom keywords")
		}
	}

	cases, err := evaluation.LoadGoldenCases(casesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load golden cases")
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		log.Fatal().Err(err).Msg("Invalid golden cases")
	}

	svc := services.NewProviderService(
		records.NewProviderAdapter(store.Records),
		querysvc.NewProviderQueryService(keywords),
		nil, nil,
	)
	summary, err := evaluation.NewRunner(svc).Run(ctx, cases)
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	violations := evaluation.DefaultThresholds.Check(summary)
	for _, v := range violations {
		log.Warn().Str("violation", v).Msg("Threshold missed")
	}
	if enforce && len(violations) > 0 {
		os.Exit(1)
	}
}
