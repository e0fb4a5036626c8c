package industry

import "strings"

const DefaultCatchAll = "Other"

type rule struct {
	keywords []string
	industry string
}

// Rules are checked in order; the first rule with a keyword contained in the
// lower-cased title wins.
var rules = []rule{
	{keywords: []string{"engineer", "developer", "analyst"}, industry: "Information Technology"},
	{keywords: []string{"pharmacy", "nurse", "health"}, industry: "Healthcare"},
	{keywords: []string{"manager", "director", "executive"}, industry: "Management"},
	{keywords: []string{"technician", "machinery", "electrician"}, industry: "Technical Services"},
	{keywords: []string{"sales", "marketing", "advertising"}, industry: "Sales and Marketing"},
	{keywords: []string{"accountant", "financial", "auditor"}, industry: "Financial and Professional"},
	{keywords: []string{"teacher", "education", "instructor"}, industry: "Education"},
	{keywords: []string{"construction", "architect"}, industry: "Construction"},
	{keywords: []string{"designer", "artist", "animator"}, industry: "Creative Arts"},
	{keywords: []string{"mechanic", "machinist"}, industry: "Advanced Manufacturing"},
	{keywords: []string{"biologist", "chemist", "scientist"}, industry: "Bioscience"},
	{keywords: []string{"logistics", "transportation", "supply chain"}, industry: "Transportation and Logistics"},
	{keywords: []string{"energy", "environmental"}, industry: "Energy"},
	{keywords: []string{"hospitality", "hotel", "food service"}, industry: "Hospitality"},
}

type Classifier struct {
	CatchAll string
}

func NewClassifier(catchAll string) Classifier {
	catchAll = strings.TrimSpace(catchAll)
	if catchAll == "" {
		catchAll = DefaultCatchAll
	}
	return Classifier{CatchAll: catchAll}
}

// Classify returns the industry for a job title. Keyword matches on the title
// take precedence over the source label; an empty or generic source label
// falls back to the catch-all bucket.
func (c Classifier) Classify(title, sourceIndustry string) string {
	t := strings.ToLower(title)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(t, kw) {
				return r.industry
			}
		}
	}

	src := strings.TrimSpace(sourceIndustry)
	if src == "" || isGeneric(src) {
		return c.catchAll()
	}
	return src
}

func (c Classifier) IsCatchAll(industry string) bool {
	return strings.EqualFold(strings.TrimSpace(industry), c.catchAll())
}

func (c Classifier) catchAll() string {
	if c.CatchAll == "" {
		return DefaultCatchAll
	}
	return c.CatchAll
}

func isGeneric(label string) bool {
	switch strings.ToLower(label) {
	case "general", "other", "others", "misc", "n/a", "na", "unknown":
		return true
	}
	return false
}
