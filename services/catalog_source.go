package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krshsl/admitwise/backend/models"
)

// HTTPCatalogSource fetches universities per allow-listed country from a public
// universities API and enriches each entry with academic and financial attributes.
type HTTPCatalogSource struct {
	baseURL   string
	countries []string
	enricher  *Enricher
	client    *http.Client
}

type apiUniversity struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	AlphaTwoCode  string   `json:"alpha_two_code"`
	StateProvince *string  `json:"state-province"`
	WebPages      []string `json:"web_pages"`
}

func NewHTTPCatalogSource(baseURL string, countries []string, enricher *Enricher) *HTTPCatalogSource {
	return &HTTPCatalogSource{
		baseURL:   strings.TrimRight(baseURL, "/"),
		countries: countries,
		enricher:  enricher,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchUniversities fails as a whole if any country cannot be fetched
func (s *HTTPCatalogSource) FetchUniversities(ctx context.Context) ([]models.University, error) {
	seen := map[string]bool{}
	var universities []models.University

	for _, country := range s.countries {
		entries, err := s.fetchCountry(ctx, country)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			state := ""
			if e.StateProvince != nil {
				state = *e.StateProvince
			}
			u := s.enricher.Enrich(e.Name, e.Country, state)
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			universities = append(universities, u)
		}
	}

	slog.Info("Fetched universities from catalog API", "countries", len(s.countries), "count", len(universities))
	return universities, nil
}

func (s *HTTPCatalogSource) fetchCountry(ctx context.Context, country string) ([]apiUniversity, error) {
	endpoint := s.baseURL + "/search?country=" + url.QueryEscape(country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("universities API error: %d - %s", resp.StatusCode, string(body))
	}

	var entries []apiUniversity
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode universities for %s: %w", country, err)
	}
	return entries, nil
}

// FixtureCatalogSource serves a built-in list of well-known universities
type FixtureCatalogSource struct {
	enricher *Enricher
}

func NewFixtureCatalogSource(enricher *Enricher) *FixtureCatalogSource {
	return &FixtureCatalogSource{enricher: enricher}
}

var fixtureUniversities = []struct {
	name, country, state string
}{
	{"Massachusetts Institute of Technology", "United States", "Massachusetts"},
	{"University of California, Berkeley", "United States", "California"},
	{"University of Michigan", "United States", "Michigan"},
	{"Arizona State University", "United States", "Arizona"},
	{"University of Oxford", "United Kingdom", "England"},
	{"University of Edinburgh", "United Kingdom", "Scotland"},
	{"University of Manchester", "United Kingdom", "England"},
	{"University of Toronto", "Canada", "Ontario"},
	{"University of British Columbia", "Canada", "British Columbia"},
	{"McGill University", "Canada", "Quebec"},
	{"University of Melbourne", "Australia", "Victoria"},
	{"University of Sydney", "Australia", "New South Wales"},
	{"Technical University of Munich", "Germany", "Bavaria"},
	{"Heidelberg University", "Germany", "Baden-Württemberg"},
	{"Delft University of Technology", "Netherlands", ""},
	{"University of Amsterdam", "Netherlands", ""},
	{"Trinity College Dublin", "Ireland", ""},
	{"KTH Royal Institute of Technology", "Sweden", ""},
	{"University of Oslo", "Norway", ""},
	{"University of Helsinki", "Finland", ""},
	{"National University of Singapore", "Singapore", ""},
	{"University of Tokyo", "Japan", "Tokyo"},
	{"ETH Zurich", "Switzerland", "Zurich"},
	{"University of Auckland", "New Zealand", "Auckland"},
}

func (s *FixtureCatalogSource) FetchUniversities(ctx context.Context) ([]models.University, error) {
	universities := make([]models.University, 0, len(fixtureUniversities))
	for _, f := range fixtureUniversities {
		universities = append(universities, s.enricher.Enrich(f.name, f.country, f.state))
	}
	return universities, nil
}

// Enricher derives the academic and financial attributes a bare university listing lacks.
// Output depends only on the seed, the intake year and the university's name and country.
type Enricher struct {
	seed       uint64
	intakeYear int
}

func NewEnricher(seed uint64, intakeYear int) *Enricher {
	return &Enricher{seed: seed, intakeYear: intakeYear}
}

var coursePool = []string{
	"Computer Science", "Data Science", "Artificial Intelligence", "Software Engineering",
	"Cybersecurity", "Electrical Engineering", "Mechanical Engineering", "Civil Engineering",
	"Business Administration", "Finance", "Economics", "Marketing",
	"Mathematics", "Statistics", "Physics", "Chemistry",
	"Biology", "Biotechnology", "Psychology", "Medicine",
	"Law", "International Relations", "Architecture", "Public Health",
}

type costProfile struct {
	symbol      string
	tuitionMin  int
	tuitionSpan int
	livingMin   int
	livingSpan  int
	feeOptions  []int
}

var defaultCosts = costProfile{symbol: "$", tuitionMin: 18000, tuitionSpan: 20000, livingMin: 12000, livingSpan: 8000, feeOptions: []int{50, 75, 100}}

var countryCosts = map[string]costProfile{
	"united states":  {symbol: "$", tuitionMin: 28000, tuitionSpan: 30000, livingMin: 15000, livingSpan: 10000, feeOptions: []int{75, 90, 100}},
	"united kingdom": {symbol: "£", tuitionMin: 18000, tuitionSpan: 16000, livingMin: 12000, livingSpan: 6000, feeOptions: []int{0, 25}},
	"canada":         {symbol: "C$", tuitionMin: 20000, tuitionSpan: 18000, livingMin: 13000, livingSpan: 5000, feeOptions: []int{100, 125, 150}},
	"australia":      {symbol: "A$", tuitionMin: 30000, tuitionSpan: 15000, livingMin: 21000, livingSpan: 5000, feeOptions: []int{0, 100}},
	"germany":        {symbol: "€", tuitionMin: 0, tuitionSpan: 3000, livingMin: 11000, livingSpan: 3000, feeOptions: []int{0, 75}},
	"norway":         {symbol: "€", tuitionMin: 0, tuitionSpan: 1000, livingMin: 14000, livingSpan: 3000, feeOptions: []int{0}},
	"finland":        {symbol: "€", tuitionMin: 0, tuitionSpan: 12000, livingMin: 10000, livingSpan: 3000, feeOptions: []int{0, 100}},
	"netherlands":    {symbol: "€", tuitionMin: 10000, tuitionSpan: 10000, livingMin: 12000, livingSpan: 4000, feeOptions: []int{0, 100}},
	"ireland":        {symbol: "€", tuitionMin: 15000, tuitionSpan: 12000, livingMin: 12000, livingSpan: 5000, feeOptions: []int{50}},
	"singapore":      {symbol: "S$", tuitionMin: 25000, tuitionSpan: 15000, livingMin: 15000, livingSpan: 5000, feeOptions: []int{20, 50}},
}

var deadlines = []string{"01-15", "02-01", "03-15", "05-01", "06-30"}

// Enrich builds a complete catalog entry for a listed university
func (e *Enricher) Enrich(name, country, state string) models.University {
	key := fingerprint(name, country)
	rng := rand.New(rand.NewPCG(e.seed, key))

	rate := 5 + rng.IntN(86)
	gpa := 3.9 - float64(rate)/100*1.2 + (rng.Float64()-0.5)*0.2
	gpa = math.Round(math.Max(2.5, math.Min(3.9, gpa))*10) / 10

	n := 6 + rng.IntN(9)
	courses := make([]string, 0, n)
	for _, i := range rng.Perm(len(coursePool))[:n] {
		courses = append(courses, coursePool[i])
	}

	levels := []string{"Bachelor"}
	if rng.Float64() < 0.85 {
		levels = append(levels, "Master")
		if rng.Float64() < 0.5 {
			levels = append(levels, "PhD")
		}
	}

	ielts := []string{"6.0", "6.5", "7.0"}[rng.IntN(3)]
	toefl := []int{80, 90, 100}[rng.IntN(3)]

	costs, ok := countryCosts[strings.ToLower(country)]
	if !ok {
		costs = defaultCosts
	}
	tuitionLow := costs.tuitionMin + rng.IntN(costs.tuitionSpan/1000+1)*1000
	tuitionHigh := tuitionLow + 4000 + rng.IntN(4)*1000
	if tuitionLow == 0 {
		tuitionHigh = costs.tuitionSpan
	}
	livingLow := costs.livingMin + rng.IntN(costs.livingSpan/1000+1)*1000
	livingHigh := livingLow + 3000
	fee := costs.feeOptions[rng.IntN(len(costs.feeOptions))]

	return models.University{
		ID:                   universityID(name, key),
		Name:                 name,
		Country:              country,
		State:                state,
		Courses:              courses,
		StudyLevels:          levels,
		GPARequirement:       gpa,
		LanguageRequirement:  fmt.Sprintf("IELTS %s / TOEFL %d", ielts, toefl),
		AcceptanceRate:       strconv.Itoa(rate) + "%",
		ApplicationDeadline:  fmt.Sprintf("%d-%s", e.intakeYear, deadlines[rng.IntN(len(deadlines))]),
		TuitionFeeRange:      costs.symbol + formatAmount(tuitionLow) + " - " + costs.symbol + formatAmount(tuitionHigh),
		ApplicationFee:       costs.symbol + formatAmount(fee),
		LivingCostRange:      costs.symbol + formatAmount(livingLow) + " - " + costs.symbol + formatAmount(livingHigh),
		TotalEstimate:        costs.symbol + formatAmount((tuitionLow+tuitionHigh)/2+(livingLow+livingHigh)/2) + " per year",
		ScholarshipAvailable: rng.Float64() < 0.6,
	}
}

func fingerprint(name, country string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(country)) + "|" + strings.ToLower(strings.TrimSpace(name))))
	return h.Sum64()
}

// universityID is a readable slug plus a short hash; it fits the 64-char column
func universityID(name string, key uint64) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 48 {
			break
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "university"
	}
	return fmt.Sprintf("%s-%08x", slug, uint32(key))
}

// formatAmount renders 12500 as "12,500"
func formatAmount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
