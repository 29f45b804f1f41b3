package service

import (
	"sort"
	"strings"

	"carelog/internal/model"
)

// MentionAll is the literal all-staff token.
const MentionAll = "@全員"

// ResolveMentions extracts the staff addressed by @-tokens in a diary body:
// the all-staff token, @<job type name> for a whole job category, and
// @<staff name> for one person. Pure function, inactive staff never match.
func ResolveMentions(text string, staff []model.Staff, jobs []model.JobType) []int {
	if text == "" {
		return nil
	}

	seen := make(map[int]bool)
	add := func(st model.Staff) {
		if st.IsActive {
			seen[st.ID] = true
		}
	}

	if strings.Contains(text, MentionAll) {
		for _, st := range staff {
			add(st)
		}
	}

	matchedJobs := make(map[int]bool)
	for _, j := range jobs {
		if j.Name != "" && strings.Contains(text, "@"+j.Name) {
			matchedJobs[j.ID] = true
		}
	}
	for _, st := range staff {
		if matchedJobs[st.JobTypeID] {
			add(st)
		}
		if st.Name != "" && strings.Contains(text, "@"+st.Name) {
			add(st)
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
