package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"careerxr/internal/domain/job"
	"careerxr/internal/domain/recommend"
	"careerxr/internal/infrastructure/cache"
)

const catalogReloadLockKey = cache.KeyPrefixCatalog + "reload:lock"

type recommendationCacheKeyInput struct {
	Skills    []string `json:"skills"`
	Mode      string   `json:"mode"`
	Threshold string   `json:"threshold"`
	Grouped   bool     `json:"grouped"`
	Catalog   string   `json:"catalog"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// RecommendationCacheKey expects the selection already normalized by
// recommend.NormalizeSelection. cat must be the snapshot the result is ranked
// against, so a result computed before a reload never lands under a key the
// reloaded catalog reads.
func RecommendationCacheKey(selected []string, cfg recommend.Config, grouped bool, cat job.Catalog) string {
	skills := make([]string, 0, len(selected))
	for _, s := range selected {
		s = normalizeSearchValue(s)
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}

	in := recommendationCacheKeyInput{
		Skills:    skills,
		Mode:      string(cfg.Mode),
		Threshold: strconv.FormatFloat(cfg.Threshold, 'f', -1, 64),
		Grouped:   grouped,
		Catalog:   catalogVersion(cat),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	h := hex.EncodeToString(sum[:])
	return cache.KeyPrefixRecommend + h
}

func catalogVersion(cat job.Catalog) string {
	return strconv.FormatUint(cat.Generation, 10) + "@" + strconv.FormatInt(cat.LoadedAt.UnixNano(), 10)
}
