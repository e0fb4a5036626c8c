package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"careerxr/internal/catalog"
	"careerxr/internal/domain/recommend"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List unique catalog skills in first-seen order",
	RunE:  runSkills,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List catalog jobs, optionally filtered by industry",
	RunE:  runJobs,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score catalog jobs against a skill selection",
	Long:  "Scores every catalog job against the selected skills and prints those at or above the threshold, best first.",
	RunE:  runRecommend,
}

var (
	jobsIndustry string
	jobsJSON     bool

	recSkills    []string
	recMode      string
	recThreshold float64
	recMin       int
	recMax       int
	recGroup     bool
	recJSON      bool
)

func init() {
	jobsCmd.Flags().StringVarP(&jobsIndustry, "industry", "i", "", "Only jobs in this industry (case-insensitive)")
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print JSON instead of a table")

	def := recommend.DefaultConfig()
	recommendCmd.Flags().StringSliceVarP(&recSkills, "skill", "s", nil, "Selected skill (repeatable or comma separated)")
	recommendCmd.Flags().StringVar(&recMode, "mode", string(def.Mode), "Scoring mode: ratio or count")
	recommendCmd.Flags().Float64Var(&recThreshold, "threshold", def.Threshold, "Minimum score to recommend")
	recommendCmd.Flags().IntVar(&recMin, "min", def.MinSelected, "Minimum number of selected skills")
	recommendCmd.Flags().IntVar(&recMax, "max", def.MaxSelected, "Maximum number of selected skills")
	recommendCmd.Flags().BoolVar(&recGroup, "group", false, "Group recommendations by industry")
	recommendCmd.Flags().BoolVar(&recJSON, "json", false, "Print JSON instead of a table")
	if err := recommendCmd.MarkFlagRequired("skill"); err != nil {
		panic(fmt.Sprintf("failed to mark skill flag as required: %v", err))
	}

	rootCmd.AddCommand(skillsCmd, jobsCmd, recommendCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	for _, s := range cat.Skills {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}

func runJobs(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	store := catalog.NewStore(cat)
	jobs := store.Jobs(jobsIndustry)

	out := cmd.OutOrStdout()
	if jobsJSON {
		return writeJSON(out, jobs)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tINDUSTRY\tSKILLS")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", j.Title, j.Industry, strings.Join(j.Skills, ", "))
	}
	return tw.Flush()
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	mode, err := recommend.ParseMode(recMode)
	if err != nil {
		return err
	}
	cfg := recommend.Config{
		Mode:             mode,
		Threshold:        recThreshold,
		MinSelected:      recMin,
		MaxSelected:      recMax,
		CatchAllIndustry: classifier().CatchAll,
	}
	// An untouched ratio default makes no sense as a count threshold.
	if mode == recommend.ModeCount && !cmd.Flags().Changed("threshold") {
		cfg.Threshold = 1
	}

	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	recs, err := recommend.Rank(cfg, cat.Jobs, recSkills)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if recGroup {
		groups := recommend.Group(cfg, recs)
		if recJSON {
			return writeJSON(out, groups)
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s (best %.2f)\n", g.Industry, g.BestScore)
			if err := writeRecs(out, g.Recommendations, "  "); err != nil {
				return err
			}
		}
		return nil
	}
	if recJSON {
		return writeJSON(out, recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "no matching careers")
		return nil
	}
	return writeRecs(out, recs, "")
}

func writeRecs(w io.Writer, recs []recommend.Recommendation, indent string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%sSCORE\tTITLE\tINDUSTRY\tMATCHED\n", indent)
	for _, r := range recs {
		fmt.Fprintf(tw, "%s%.2f\t%s\t%s\t%s\n", indent, r.Score, r.Job.Title, r.Job.Industry, strings.Join(r.Matched, ", "))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
