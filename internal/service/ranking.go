package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"carelog/internal/model"

	"gorm.io/gorm"
)

const rankingSize = 5

// RankingService builds the top-5 leaderboard. Without filters it ranks
// the denormalized running totals directly; with filters it replays one of
// the two raw logs. A category filter forces the replay onto the action
// log because only action log rows reference a diary whose category can be
// resolved; ledger-only entries (manual adjustments with no diary) are
// excluded from category views by policy.
type RankingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db, now: time.Now}
}

type rankingPredicate struct {
	from, to  time.Time
	dayOfWeek int // -1 when inactive, else 0 (Sunday) .. 6 (Saturday)
	slot      string
}

func (f *rankingPredicate) match(ts time.Time) bool {
	if f.dayOfWeek >= 0 && int(ts.Weekday()) != f.dayOfWeek {
		return false
	}
	switch f.slot {
	case "morning":
		if ts.Hour() >= 12 {
			return false
		}
	case "afternoon":
		if ts.Hour() < 12 {
			return false
		}
	}
	return true
}

func filterActive(v string) bool { return v != "" && v != "all" }

// Compute returns at most five entries, ranked 1..n, positive totals only,
// ties broken by ascending staff id.
func (s *RankingService) Compute(ctx context.Context, filter model.RankingFilter) ([]model.RankingEntry, error) {
	staff, jobNames, err := s.activeStaff(ctx)
	if err != nil {
		return nil, err
	}

	hasNoFilters := !filterActive(filter.Category) && !filterActive(filter.Period) &&
		!filterActive(filter.DayOfWeek) && !filterActive(filter.TimeSlot)
	if hasNoFilters {
		totals := make(map[int]int, len(staff))
		for _, st := range staff {
			totals[st.ID] = st.CurrentPoints
		}
		return s.rank(totals, staff, jobNames), nil
	}

	pred, err := s.predicate(filter)
	if err != nil {
		return nil, err
	}

	var totals map[int]int
	if filterActive(filter.Category) {
		totals, err = s.replayActionLogs(ctx, filter.Category, pred)
	} else {
		totals, err = s.replayPointLogs(ctx, pred)
	}
	if err != nil {
		return nil, err
	}
	return s.rank(totals, staff, jobNames), nil
}

func (s *RankingService) predicate(filter model.RankingFilter) (*rankingPredicate, error) {
	pred := &rankingPredicate{dayOfWeek: -1, slot: ""}
	now := s.now()

	switch filter.Period {
	case "", "all":
	case "this_week":
		start := now.AddDate(0, 0, -int(now.Weekday()))
		pred.from = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		pred.to = now
	case "this_month":
		pred.from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		pred.to = now
	case "last_month":
		pred.from = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		pred.to = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(-time.Second)
	default:
		return nil, fmt.Errorf("period %q: %w", filter.Period, ErrInvalidStatus)
	}

	if filterActive(filter.DayOfWeek) {
		d, err := strconv.Atoi(filter.DayOfWeek)
		if err != nil || d < 0 || d > 6 {
			return nil, invalid("day_of_week", "must be 0-6")
		}
		pred.dayOfWeek = d
	}
	if filterActive(filter.TimeSlot) {
		if filter.TimeSlot != "morning" && filter.TimeSlot != "afternoon" {
			return nil, invalid("time_slot", "must be morning or afternoon")
		}
		pred.slot = filter.TimeSlot
	}
	return pred, nil
}

// replayActionLogs sums points_awarded per staff from action log rows whose
// diary resolves to the requested category. Rows without a diary carry no
// category and never count here.
func (s *RankingService) replayActionLogs(ctx context.Context, category string, pred *rankingPredicate) (map[int]int, error) {
	q := s.db.WithContext(ctx).Model(&model.ActionLog{})
	if !pred.from.IsZero() {
		q = q.Where("created_at >= ?", pred.from)
	}
	if !pred.to.IsZero() {
		q = q.Where("created_at <= ?", pred.to)
	}
	var logs []model.ActionLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query action logs: %w", err)
	}

	categoryByDiary, err := s.diaryCategories(ctx, logs)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]int)
	for _, log := range logs {
		if !pred.match(log.CreatedAt) {
			continue
		}
		if log.DiaryID == nil || categoryByDiary[*log.DiaryID] != category {
			continue
		}
		totals[log.StaffID] += log.PointsAwarded
	}
	return totals, nil
}

// replayPointLogs sums ledger amounts per staff under the date/day/slot
// predicate; no diary linkage is needed without a category filter.
func (s *RankingService) replayPointLogs(ctx context.Context, pred *rankingPredicate) (map[int]int, error) {
	q := s.db.WithContext(ctx).Model(&model.PointLog{})
	if !pred.from.IsZero() {
		q = q.Where("created_at >= ?", pred.from)
	}
	if !pred.to.IsZero() {
		q = q.Where("created_at <= ?", pred.to)
	}
	var logs []model.PointLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query point logs: %w", err)
	}

	totals := make(map[int]int)
	for _, log := range logs {
		if !pred.match(log.CreatedAt) {
			continue
		}
		totals[log.StaffID] += log.Amount
	}
	return totals, nil
}

func (s *RankingService) diaryCategories(ctx context.Context, logs []model.ActionLog) (map[int]string, error) {
	idSet := make(map[int]bool)
	for _, log := range logs {
		if log.DiaryID != nil {
			idSet[*log.DiaryID] = true
		}
	}
	if len(idSet) == 0 {
		return map[int]string{}, nil
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var diaries []model.Diary
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&diaries).Error; err != nil {
		return nil, fmt.Errorf("query diaries: %w", err)
	}
	var categories []model.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	nameByID := make(map[int]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	out := make(map[int]string, len(diaries))
	for _, d := range diaries {
		out[d.ID] = nameByID[d.CategoryID]
	}
	return out, nil
}

func (s *RankingService) activeStaff(ctx context.Context) ([]model.Staff, map[int]string, error) {
	var staff []model.Staff
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&staff).Error; err != nil {
		return nil, nil, fmt.Errorf("query staff: %w", err)
	}
	var jobs []model.JobType
	if err := s.db.WithContext(ctx).Find(&jobs).Error; err != nil {
		return nil, nil, fmt.Errorf("query job types: %w", err)
	}
	jobNames := make(map[int]string, len(jobs))
	for _, j := range jobs {
		jobNames[j.ID] = j.Name
	}
	return staff, jobNames, nil
}

func (s *RankingService) rank(totals map[int]int, staff []model.Staff, jobNames map[int]string) []model.RankingEntry {
	entries := make([]model.RankingEntry, 0, len(staff))
	for _, st := range staff {
		total := totals[st.ID]
		if total <= 0 {
			continue
		}
		entries = append(entries, model.RankingEntry{
			StaffID:     st.ID,
			Name:        st.Name,
			JobTypeName: jobNames[st.JobTypeID],
			TotalPoints: total,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].StaffID < entries[j].StaffID
	})

	if len(entries) > rankingSize {
		entries = entries[:rankingSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
