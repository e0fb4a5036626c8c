package recommend

import "careerxr/internal/domain/skill"

type Level string

const (
	LevelJunior Level = "junior"
	LevelSenior Level = "senior"
)

// Experience is a VR scene offered for a recommended career.
type Experience struct {
	Name   string
	Layout string
	Level  Level
}

type ExperienceCatalog struct {
	AdvancedSkill string
	Junior        []Experience
	Senior        []Experience

	// keyed by normalized industry label
	byIndustry map[string][]Experience
}

func DefaultExperiences(advancedSkill string) ExperienceCatalog {
	return ExperienceCatalog{
		AdvancedSkill: advancedSkill,
		Junior: []Experience{
			{Name: "Beginner World", Layout: "studio", Level: LevelJunior},
			{Name: "Basic Engineering Experience", Layout: "environment-two", Level: LevelJunior},
		},
		Senior: []Experience{
			{Name: "Advanced Design Lab", Layout: "profession-room", Level: LevelSenior},
			{Name: "Complex Project Simulation", Layout: "profession-room", Level: LevelSenior},
		},
	}
}

// AddIndustry appends industry specific experiences. Labels that differ only
// by case or surrounding space share one entry, in insertion order.
func (c *ExperienceCatalog) AddIndustry(industryName string, exps ...Experience) {
	key := skill.Normalize(industryName)
	if key == "" {
		return
	}
	if c.byIndustry == nil {
		c.byIndustry = make(map[string][]Experience)
	}
	c.byIndustry[key] = append(c.byIndustry[key], exps...)
}

// LevelFor is senior when the selection contains the advanced skill label.
func (c ExperienceCatalog) LevelFor(selected []string) Level {
	adv := skill.Normalize(c.AdvancedSkill)
	if adv == "" {
		return LevelJunior
	}
	for _, s := range selected {
		if skill.Normalize(s) == adv {
			return LevelSenior
		}
	}
	return LevelJunior
}

// For returns the experiences for an industry: industry specific scenes of
// the requested level first, then the generic ones.
func (c ExperienceCatalog) For(industryName string, level Level) []Experience {
	out := make([]Experience, 0)
	for _, e := range c.byIndustry[skill.Normalize(industryName)] {
		if e.Level == level {
			out = append(out, e)
		}
	}
	if level == LevelSenior {
		return append(out, c.Senior...)
	}
	return append(out, c.Junior...)
}
