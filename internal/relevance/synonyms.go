// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import "strings"

// jobSynonyms maps canonical role names to related role terms. The table
// is immutable lookup data; matching logic never special-cases entries,
// so roles can be added or removed without touching the matcher.
var jobSynonyms = map[string][]string{
	// Product/Program Management
	"product manager": {"product manager", "program manager", "product owner", "pm"},
	"program manager": {"program manager", "product manager", "project manager", "pm"},
	"project manager": {"project manager", "program manager", "product manager", "pm"},

	// Software Engineering
	"software engineer": {"software engineer", "developer", "programmer", "software developer", "engineer"},
	"developer":         {"developer", "software engineer", "programmer", "software developer", "engineer"},
	"programmer":        {"programmer", "developer", "software engineer", "software developer"},
	"engineer":          {"engineer", "software engineer", "developer", "programmer"},

	// Data roles
	"data scientist": {"data scientist", "data analyst", "analytics", "data engineer"},
	"data analyst":   {"data analyst", "data scientist", "analytics", "business analyst"},
	"data engineer":  {"data engineer", "data scientist", "analytics engineer"},

	// Design roles
	"designer":    {"designer", "ux designer", "ui designer", "product designer", "graphic designer"},
	"ux designer": {"ux designer", "ui designer", "product designer", "designer"},
	"ui designer": {"ui designer", "ux designer", "product designer", "designer"},

	// Marketing roles
	"marketing manager": {"marketing manager", "marketing", "digital marketing", "marketing specialist"},
	"marketing":         {"marketing", "marketing manager", "digital marketing", "marketing specialist"},

	// Sales roles
	"sales":           {"sales", "account manager", "sales manager", "sales representative"},
	"account manager": {"account manager", "sales", "sales manager", "customer success"},

	// Operations roles
	"operations": {"operations", "ops", "operations manager", "business operations"},
	"ops":        {"ops", "operations", "operations manager", "business operations"},

	// Finance roles
	"analyst":           {"analyst", "financial analyst", "business analyst", "data analyst"},
	"financial analyst": {"financial analyst", "analyst", "finance", "business analyst"},

	// HR roles
	"hr":        {"hr", "human resources", "recruiter", "talent acquisition"},
	"recruiter": {"recruiter", "hr", "human resources", "talent acquisition"},

	// Customer roles
	"customer success": {"customer success", "account manager", "customer support"},
	"customer support": {"customer support", "customer success", "support"},
}

// relatedTerms maps single keywords to adjacent vocabulary, used to widen
// the expansion when the query itself has no synonym entry.
var relatedTerms = map[string][]string{
	"data":       {"analyst", "science", "scientist", "analytics", "engineer"},
	"software":   {"developer", "engineer", "programming", "coding", "development"},
	"product":    {"manager", "management", "owner", "lead"},
	"machine":    {"learning", "ml", "ai", "artificial"},
	"python":     {"programming", "developer", "engineer", "coding"},
	"marketing":  {"digital", "growth", "brand", "campaign"},
	"sales":      {"business", "development", "account", "revenue"},
	"design":     {"ui", "ux", "graphic", "visual", "creative"},
	"finance":    {"financial", "accounting", "analyst", "investment"},
	"operations": {"ops", "operational", "logistics", "supply"},
}

// expandQuery returns the term set a query is scored against when direct
// containment fails: the query itself, its synonym entry if one exists,
// and related terms for each query token. Order is deterministic and
// duplicates are dropped.
func expandQuery(query string) []string {
	seen := map[string]bool{query: true}
	terms := []string{query}

	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	for _, s := range jobSynonyms[query] {
		add(s)
	}
	for _, tok := range strings.Fields(query) {
		for _, rel := range relatedTerms[tok] {
			add(rel)
		}
	}
	return terms
}
