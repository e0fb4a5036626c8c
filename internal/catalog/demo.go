package catalog

import (
	"time"

	"careerxr/internal/domain/industry"
	"careerxr/internal/domain/job"
	"careerxr/internal/domain/skill"

	"github.com/google/uuid"
)

var demoJobs = []struct {
	title  string
	skills []string
}{
	{title: "Software Developer", skills: []string{"Problem Solving", "Java", "SQL", "Data Analysis", "Communication"}},
	{title: "Data Analyst", skills: []string{"Data Analysis", "SQL", "Communication", "Forecasting Demand", "Financial Reporting"}},
}

// Demo is the small built-in catalog used when no source is reachable and the
// caller explicitly asks for sample data.
func Demo(classifier industry.Classifier) job.Catalog {
	set := skill.NewSet()
	jobs := make([]job.Job, 0, len(demoJobs))
	for _, d := range demoJobs {
		for _, s := range d.skills {
			set.Add(s)
		}
		jobs = append(jobs, job.Job{
			ID:       uuid.NewSHA1(jobNamespace, []byte("demo:"+d.title)),
			Title:    d.title,
			Industry: classifier.Classify(d.title, ""),
			Skills:   append([]string(nil), d.skills...),
		})
	}
	return job.Catalog{Skills: set.Items(), Jobs: jobs, Source: "demo", LoadedAt: time.Now()}
}
