package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/bootstrap"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

// catalogue of modalities the fake providers are drawn from. Each entry
// lists the services and credentials typical of that practice.
var modalities = []struct {
	specialty  string
	credential string
	services   []string
}{
	{"Functional Medicine", "MD", []string{"Gut Health Assessment", "Hormone Balancing", "Chronic Fatigue Care"}},
	{"Acupuncture", "LAc", []string{"Acupuncture", "Cupping", "Moxibustion"}},
	{"Traditional Chinese Medicine", "DACM", []string{"Herbal Formulas", "Tui Na", "Acupuncture"}},
	{"Naturopathic Medicine", "ND", []string{"Botanical Medicine", "Nutrition Planning", "Detox Programs"}},
	{"Chiropractic Care", "DC", []string{"Spinal Adjustment", "Posture Correction", "Sports Injury Care"}},
	{"Massage Therapy", "LMT", []string{"Deep Tissue Massage", "Myofascial Release", "Lymphatic Drainage"}},
	{"Nutrition Counseling", "CN", []string{"Meal Planning", "Anti-Inflammatory Diets", "Weight Management"}},
	{"Health Coaching", "NBC-HWC", []string{"Stress Management", "Sleep Coaching", "Habit Building"}},
	{"Homeopathy", "CCH", []string{"Constitutional Remedies", "Allergy Support"}},
	{"Herbal Medicine", "RH", []string{"Herbal Consultations", "Custom Tinctures"}},
}

var insurers = []string{"Aetna", "Blue Cross", "Cigna", "UnitedHealthcare", "Premera", "Kaiser", "Humana"}

var waitTimes = []string{"1-2 days", "3-5 days", "1 week", "2 weeks", "3+ weeks"}

func main() {
	var (
		count int
		seed  uint64
		out   string
		reset bool
	)
	flag.IntVar(&count, "count", 50, "number of providers to generate")
	flag.Uint64Var(&seed, "seed", 0, "random seed; 0 picks one")
	flag.StringVar(&out, "out", "", "write the providers as a JSON catalogue instead of the configured store")
	flag.BoolVar(&reset, "reset", false, "delete existing postgres providers before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Env, cfg.Log.Level)

	faker := gofakeit.New(seed)
	generated := generateProviders(faker, count)

	if out != "" {
		if err := writeCatalogue(out, generated); err != nil {
			log.Fatal().Err(err).Str("path", out).Msg("Failed to write catalogue")
		}
		log.Info().Int("providers", len(generated)).Str("path", out).Msg("Catalogue written")
		return
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer store.Close()

	if reset || os.Getenv("RESET_DB") == "true" {
		pg := store.Postgres()
		if pg == nil {
			log.Fatal().Str("backend", cfg.Store.Backend).Msg("Reset is only supported for the postgres store")
		}
		if _, err := pg.DB().ExecContext(ctx, `TRUNCATE TABLE providers RESTART IDENTITY`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset providers")
		}
		log.Info().Msg("Existing providers removed")
	}

	repo := records.NewProviderAdapter(store.Records)
	created := 0
	for _, p := range generated {
		if _, err := repo.Create(ctx, p); err != nil {
			log.Warn().Err(err).Str("name", p.Name).Msg("Failed to create provider")
			continue
		}
		created++
	}
	log.Info().Int("created", created).Int("requested", count).Msg("Seed complete")
}

// generateProviders builds count plausible providers. IDs are left unset so
// the store assigns them.
func generateProviders(faker *gofakeit.Faker, count int) []*entities.Provider {
	out := make([]*entities.Provider, 0, count)
	for i := 0; i < count; i++ {
		primary := modalities[faker.Number(0, len(modalities)-1)]
		specialties := []string{primary.specialty}
		credentials := []string{primary.credential}
		services := append([]string(nil), primary.services...)
		if faker.Bool() {
			second := modalities[faker.Number(0, len(modalities)-1)]
			if second.specialty != primary.specialty {
				specialties = append(specialties, second.specialty)
				credentials = append(credentials, second.credential)
				services = append(services, second.services[0])
			}
		}

		insurance := []string{}
		for _, insurer := range insurers {
			if faker.Number(0, 2) == 0 {
				insurance = append(insurance, insurer)
			}
		}

		name := faker.Name()
		if primary.credential == "MD" || primary.credential == "DACM" {
			name = "Dr. " + name
		}

		var nextAvailable *string
		if faker.Bool() {
			date := faker.FutureDate().Format("2006-01-02")
			nextAvailable = &date
		}

		out = append(out, &entities.Provider{
			Name:      name + ", " + strings.Join(credentials, ", "),
			Specialty: specialties,
			Location: entities.Location{
				Address: faker.Street(),
				City:    faker.City(),
				State:   faker.StateAbr(),
				ZipCode: faker.Zip(),
			},
			Bio:         fmt.Sprintf("%s practitioner. %s", primary.specialty, faker.Sentence(14)),
			Credentials: credentials,
			Services:    services,
			Insurance:   insurance,
			Rating:      math.Round(faker.Float64Range(3.5, 5.0)*10) / 10,
			Availability: entities.Availability{
				NextAvailable: nextAvailable,
				WaitTime:      waitTimes[faker.Number(0, len(waitTimes)-1)],
			},
			Photo: fmt.Sprintf("https://images.example.com/providers/%d.jpg", i+1),
			ContactInfo: entities.ContactInfo{
				Phone:   faker.Phone(),
				Email:   faker.Email(),
				Website: faker.URL(),
			},
		})
	}
	return out
}

// writeCatalogue stores providers in the flat record shape the memory store
// loads, numbering them from 1.
func writeCatalogue(path string, providers []*entities.Provider) error {
	recs := make([]entities.ProviderRecord, 0, len(providers))
	for i, p := range providers {
		rec := records.Denormalize(p)
		rec.ID = int64(i + 1)
		recs = append(recs, rec)
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
