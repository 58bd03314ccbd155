// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/jobscout/internal/httputil"
	"github.com/pdiddy/jobscout/pkg/types"
)

// indeedAPIBase is the Indeed GraphQL endpoint. Declared as a var so
// tests can substitute an httptest server.
var indeedAPIBase = "https://apis.indeed.com/graphql"

// indeedQueryTmpl builds the jobSearch GraphQL query. The company: prefix
// on the what clause restricts results to the employer's own postings;
// the optional date filter maps the recency bound onto dateOnIndeed.
var indeedQueryTmpl = template.Must(template.New("jobsearch").Parse(`query GetCompanyJobData {
  jobSearch(
    what: "company:{{.Employer}}"
    location: {where: "{{.Location}}", radius: {{.Radius}}, radiusUnit: MILES}
    limit: {{.Limit}}
    sort: RELEVANCE
    {{- if .MaxAgeHours}}
    filters: {composite: {filters: [{range: {field: "dateOnIndeed", range: {lessThanOrEqualTo: "{{.MaxAgeHours}}h"}}}]}}
    {{- end}}
  ) {
    pageInfo { nextCursor }
    results {
      job {
        key
        title
        datePublished
        description { html }
        location { formatted { long } }
        compensation {
          baseSalary { range { ... on Range { min max } } }
          estimated { currencyCode baseSalary { range { ... on Range { min max } } } }
          currencyCode
        }
        attributes { key label }
        employer { name }
        recruit { viewJobUrl }
      }
    }
  }
}`))

// IndeedBackend queries the Indeed jobSearch GraphQL API.
type IndeedBackend struct {
	Client *http.Client
	Cfg    types.ScrapeConfig
}

// Name returns the backend identifier.
func (b *IndeedBackend) Name() string { return "indeed" }

// Scrape issues one bounded jobSearch query. The API enforces the result
// cap server-side; the recency filter is an upper age bound only.
func (b *IndeedBackend) Scrape(ctx context.Context, employer, location string, maxAgeHours, cap int) ([]types.JobRecord, error) {
	radius := b.Cfg.RadiusMiles
	if radius <= 0 {
		radius = 50
	}

	var q bytes.Buffer
	err := indeedQueryTmpl.Execute(&q, struct {
		Employer    string
		Location    string
		Radius      int
		Limit       int
		MaxAgeHours int
	}{
		Employer:    escapeGraphQLString(employer),
		Location:    escapeGraphQLString(location),
		Radius:      radius,
		Limit:       cap,
		MaxAgeHours: maxAgeHours,
	})
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	body, err := json.Marshal(map[string]string{"query": q.String()})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, indeedAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", b.Cfg.UserAgent)
	country := b.Cfg.Country
	if country == "" {
		country = "US"
	}
	req.Header.Set("indeed-co", country)
	req.Header.Set("origin", "https://www.indeed.com")
	req.Header.Set("referer", "https://www.indeed.com/")

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Indeed API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Indeed API returned HTTP %d", resp.StatusCode)
	}

	var ir indeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("parsing Indeed response: %w", err)
	}
	if ir.Data.JobSearch == nil {
		return nil, fmt.Errorf("Indeed response missing jobSearch data")
	}

	var records []types.JobRecord
	for _, res := range ir.Data.JobSearch.Results {
		records = append(records, convertIndeedJob(res.Job))
	}
	return records, nil
}

func convertIndeedJob(j indeedJob) types.JobRecord {
	r := types.JobRecord{
		Title:       j.Title,
		Company:     j.Employer.Name,
		Location:    j.Location.Formatted.Long,
		Description: j.Description.HTML,
		DirectURL:   j.Recruit.ViewJobURL,
		ListingURL:  "https://www.indeed.com/viewjob?jk=" + j.Key,
		JobType:     jobTypeFromAttributes(j.Attributes),
	}

	if j.DatePublished > 0 {
		r.DatePosted = time.UnixMilli(j.DatePublished).UTC()
	}

	// Prefer the employer-stated salary, fall back to Indeed's estimate.
	comp := j.Compensation
	if comp.BaseSalary.Range.Min > 0 || comp.BaseSalary.Range.Max > 0 {
		r.CompensationMin = comp.BaseSalary.Range.Min
		r.CompensationMax = comp.BaseSalary.Range.Max
		r.CompensationCurrency = comp.CurrencyCode
	} else if comp.Estimated.BaseSalary.Range.Min > 0 || comp.Estimated.BaseSalary.Range.Max > 0 {
		r.CompensationMin = comp.Estimated.BaseSalary.Range.Min
		r.CompensationMax = comp.Estimated.BaseSalary.Range.Max
		r.CompensationCurrency = comp.Estimated.CurrencyCode
	}

	return r
}

// jobTypeLabels maps the attribute labels Indeed uses for employment
// types onto the normalized JobType values.
var jobTypeLabels = map[string]string{
	"full-time":  "fulltime",
	"part-time":  "parttime",
	"contract":   "contract",
	"temporary":  "temporary",
	"internship": "internship",
}

func jobTypeFromAttributes(attrs []indeedAttribute) string {
	for _, a := range attrs {
		if t, ok := jobTypeLabels[strings.ToLower(a.Label)]; ok {
			return t
		}
	}
	return ""
}

func escapeGraphQLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Indeed GraphQL JSON structures.
type indeedResponse struct {
	Data struct {
		JobSearch *indeedJobSearch `json:"jobSearch"`
	} `json:"data"`
}

type indeedJobSearch struct {
	PageInfo struct {
		NextCursor string `json:"nextCursor"`
	} `json:"pageInfo"`
	Results []struct {
		Job indeedJob `json:"job"`
	} `json:"results"`
}

type indeedJob struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	DatePublished int64  `json:"datePublished"`
	Description   struct {
		HTML string `json:"html"`
	} `json:"description"`
	Location struct {
		Formatted struct {
			Long string `json:"long"`
		} `json:"formatted"`
	} `json:"location"`
	Compensation indeedCompensation `json:"compensation"`
	Attributes   []indeedAttribute  `json:"attributes"`
	Employer     struct {
		Name string `json:"name"`
	} `json:"employer"`
	Recruit struct {
		ViewJobURL string `json:"viewJobUrl"`
	} `json:"recruit"`
}

type indeedCompensation struct {
	BaseSalary indeedBaseSalary `json:"baseSalary"`
	Estimated  struct {
		CurrencyCode string           `json:"currencyCode"`
		BaseSalary   indeedBaseSalary `json:"baseSalary"`
	} `json:"estimated"`
	CurrencyCode string `json:"currencyCode"`
}

type indeedBaseSalary struct {
	Range struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"range"`
}

type indeedAttribute struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
