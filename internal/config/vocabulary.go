package config

import "strings"

// Category names. Every indexed file receives exactly one.
const (
	CategoryTimelines = "Timelines"
	CategoryWitnesses = "Witnesses"
	CategoryMedical   = "Medical"
	CategoryFilings   = "Filings & Notices"
	CategoryMedia     = "Media"
	CategoryOther     = "Other"
)

// Categories lists the fixed category values in rule order.
var Categories = []string{
	CategoryTimelines,
	CategoryWitnesses,
	CategoryMedical,
	CategoryFilings,
	CategoryMedia,
	CategoryOther,
}

// CategoryRule assigns Category when Pattern matches the lowercased
// "name rel_path" haystack.
type CategoryRule struct {
	Category string `yaml:"category" json:"category"`
	Pattern  string `yaml:"pattern" json:"pattern"`
}

// GapRule reports Message when Pattern matches none of the file names.
type GapRule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Message string `yaml:"message" json:"message"`
}

// Vocabulary is the full set of matching tables used by a run. Components
// compile it once and never mutate it.
type Vocabulary struct {
	Aliases       []AliasEntry   `yaml:"aliases" json:"aliases"`
	Stopwords     []string       `yaml:"stopwords" json:"stopwords"`
	CategoryRules []CategoryRule `yaml:"category_rules" json:"category_rules"`
	GapRules      []GapRule      `yaml:"gap_rules" json:"gap_rules"`
	DatePatterns  []string       `yaml:"date_patterns" json:"date_patterns"`
}

// DefaultVocabulary returns a fresh copy of the built-in tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Aliases: []AliasEntry{
			{Canonical: "OCSO", Aliases: []string{"OCSO", "Oakland County Sheriff", "Oakland County Sheriff's Office"}},
			{Canonical: "OSCO", Aliases: []string{"OSCO"}},
			{Canonical: "Cody McKenzie", Aliases: []string{"Cody McKenzie", "Cody Elis McKenzie", "McKenzie", "Cody"}},
			{Canonical: "Jeffery Snyder", Aliases: []string{"Jeffery Snyder", "Jeffrey Snyder", "Snyder", "Jeffery Joseph Snyder", "Jeffrey Joseph Snyder"}},
			{Canonical: "Liberty Bar", Aliases: []string{"Liberty Bar"}},
			{Canonical: "Pontiac", Aliases: []string{"Pontiac"}},
			{Canonical: "MiCOURT", Aliases: []string{"MiCOURT", "Mi Court"}},
			{Canonical: "FOIA", Aliases: []string{"FOIA", "Freedom of Information"}},
			{Canonical: "WC-117", Aliases: []string{"WC-117", "WC 117"}},
			{Canonical: "MDCR", Aliases: []string{"MDCR", "Michigan Department of Civil Rights"}},
			{Canonical: "Expert Realty Solutions", Aliases: []string{"Expert Realty Solutions", "Expert Realty", "Expert Realty Solution"}},
			{Canonical: "Prosecutor", Aliases: []string{"Prosecutor", "Prosecutor Packet"}},
			{Canonical: "Ethics Complaint", Aliases: []string{"Ethics Complaint"}},
			{Canonical: "Retaliation", Aliases: []string{"Retaliation"}},
			{Canonical: "Termination", Aliases: []string{"Termination"}},
			{Canonical: "Wage Loss", Aliases: []string{"Wage Loss", "Lost Wages"}},
			{Canonical: "Assault", Aliases: []string{"Assault"}},
			{Canonical: "Battery", Aliases: []string{"Battery"}},
			{Canonical: "LEO", Aliases: []string{"LEO", "law enforcement"}},
			{Canonical: "Shelby", Aliases: []string{"Shelby"}},
		},
		Stopwords: []string{"exhibit", "case", "copy", "final", "packet", "cover", "sheet", "talking", "points"},
		CategoryRules: []CategoryRule{
			{Category: CategoryTimelines, Pattern: `timeline|chronolog|summary`},
			{Category: CategoryWitnesses, Pattern: `witness|victim statement|testimony|impact statement|contact list`},
			{Category: CategoryMedical, Pattern: `medical|er\b|hospital|trinity|injury|bill|diagnosis|therapy|ptsd`},
			{Category: CategoryFilings, Pattern: `court|complaint|summons|motion|notice|filing|foia|police report|ocso|osco|mcl|mcr|micourt`},
			{Category: CategoryMedia, Pattern: `\.(mov|mp4|mkv|avi|webm|wav|mp3|m4a|aac|flac|jpg|jpeg|png|heic)$`},
		},
		GapRules: []GapRule{
			{Pattern: `police report|ocso|osco`, Message: "Police report not found by filename keywords (check if stored elsewhere or named differently)."},
			{Pattern: `\bvideo\b|\.mov\b|\.mp4\b|\.mkv\b`, Message: "Video evidence not found by filename keywords/extensions."},
			{Pattern: `\bmedical\b|\ber\b|hospital|trinity|bill|diagnosis`, Message: "Medical records/bills not found by filename keywords."},
			{Pattern: `foia`, Message: "FOIA items not found by filename keyword."},
			{Pattern: `contact list|witness`, Message: "Witness contact list not found by filename keyword."},
		},
		// Boundaries are enforced by the recognizer, not the patterns.
		DatePatterns: []string{
			`20\d{2}-\d{2}-\d{2}`,
			`(?i)(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+20\d{2}`,
			`\d{1,2}/\d{1,2}/20\d{2}`,
		},
	}
}

// Vocabulary returns the built-in tables extended with the entities section.
// Configured aliases for an existing canonical are appended to its list;
// unknown canonicals are added in configuration order.
func (c *Config) Vocabulary() Vocabulary {
	v := DefaultVocabulary()

	pos := make(map[string]int, len(v.Aliases))
	for i, e := range v.Aliases {
		pos[e.Canonical] = i
	}

	for _, extra := range c.Entities.Aliases {
		canonical := strings.TrimSpace(extra.Canonical)
		if canonical == "" {
			continue
		}
		i, ok := pos[canonical]
		if !ok {
			v.Aliases = append(v.Aliases, AliasEntry{Canonical: canonical, Aliases: []string{canonical}})
			i = len(v.Aliases) - 1
			pos[canonical] = i
		}
		for _, a := range extra.Aliases {
			a = strings.TrimSpace(a)
			if a != "" && !containsFold(v.Aliases[i].Aliases, a) {
				v.Aliases[i].Aliases = append(v.Aliases[i].Aliases, a)
			}
		}
	}

	for _, w := range c.Entities.Stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && !containsFold(v.Stopwords, w) {
			v.Stopwords = append(v.Stopwords, w)
		}
	}

	return v
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
