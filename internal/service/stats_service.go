package service

import (
	"fmt"
	"math"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
)

// Bucket names shared by every dimension.
const (
	BucketNotSet = "NotSet"
	// BucketUnrecognized collects stored literals outside the expected
	// vocabulary (typically rows imported before a value was added to the
	// fixed set). Keeping them in an explicit bucket keeps bucket sums equal
	// to the grand total.
	BucketUnrecognized = "Unrecognized"
)

// BucketStat count and percentage share of one enum bucket
type BucketStat struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// DimensionStats maps each bucket name to its stat
type DimensionStats map[string]BucketStat

// DefectStats binary split on defect id presence
type DefectStats struct {
	WithDefect    BucketStat `json:"withDefect"`
	WithoutDefect BucketStat `json:"withoutDefect"`
}

// XPSStats aggregate report over the full XPS record set
type XPSStats struct {
	Total            int            `json:"total"`
	TestStatus       DimensionStats `json:"testStatus"`
	AutomationStatus DimensionStats `json:"automationStatus"`
	Module           DimensionStats `json:"module"`
	SchemeLevel      DimensionStats `json:"schemeLevel"`
	Client           DimensionStats `json:"client"`
	Defects          DefectStats    `json:"defects"`
}

// EMemberStats aggregate report over the full eMember record set
type EMemberStats struct {
	Total            int            `json:"total"`
	TestStatus       DimensionStats `json:"testStatus"`
	AutomationStatus DimensionStats `json:"automationStatus"`
	Portal           DimensionStats `json:"portal"`
	Defects          DefectStats    `json:"defects"`
}

// StatsService computes aggregate statistics per variant
type StatsService interface {
	XPSStats() (*XPSStats, error)
	EMemberStats() (*EMemberStats, error)
}

type statsService struct {
	xpsRepo     repository.XPSTestCaseRepository
	ememberRepo repository.EMemberTestCaseRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	xpsRepo repository.XPSTestCaseRepository,
	ememberRepo repository.EMemberTestCaseRepository,
) StatsService {
	return &statsService{xpsRepo: xpsRepo, ememberRepo: ememberRepo}
}

func (s *statsService) XPSStats() (*XPSStats, error) {
	tcs, err := s.xpsRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch test cases: %w", err)
	}

	return AggregateXPS(tcs), nil
}

func (s *statsService) EMemberStats() (*EMemberStats, error) {
	tcs, err := s.ememberRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch test cases: %w", err)
	}

	return AggregateEMember(tcs), nil
}

// AggregateXPS computes the per-dimension breakdown for the complete XPS
// record set. Pure function of its input.
func AggregateXPS(tcs []models.XPSTestCase) *XPSStats {
	total := len(tcs)

	return &XPSStats{
		Total:            total,
		TestStatus:       aggregateDimension(total, models.TestStatuses, tcs, func(tc models.XPSTestCase) string { return tc.TestStatus }),
		AutomationStatus: aggregateDimension(total, models.AutomationStatuses, tcs, func(tc models.XPSTestCase) string { return tc.AutomationStatus }),
		Module:           aggregateDimension(total, models.XPSModules, tcs, func(tc models.XPSTestCase) string { return tc.Module }),
		SchemeLevel:      aggregateDimension(total, models.XPSSchemeLevels, tcs, func(tc models.XPSTestCase) string { return tc.SchemeLevel }),
		Client:           aggregateDimension(total, models.XPSClients, tcs, func(tc models.XPSTestCase) string { return tc.Client }),
		Defects:          aggregateDefects(total, tcs, func(tc models.XPSTestCase) string { return tc.DefectID }),
	}
}

// AggregateEMember computes the per-dimension breakdown for the complete
// eMember record set.
func AggregateEMember(tcs []models.EMemberTestCase) *EMemberStats {
	total := len(tcs)

	return &EMemberStats{
		Total:            total,
		TestStatus:       aggregateDimension(total, models.TestStatuses, tcs, func(tc models.EMemberTestCase) string { return tc.TestStatus }),
		AutomationStatus: aggregateDimension(total, models.AutomationStatuses, tcs, func(tc models.EMemberTestCase) string { return tc.AutomationStatus }),
		Portal:           aggregateDimension(total, models.EMemberPortals, tcs, func(tc models.EMemberTestCase) string { return tc.Portal }),
		Defects:          aggregateDefects(total, tcs, func(tc models.EMemberTestCase) string { return tc.DefectID }),
	}
}

// aggregateDimension buckets one classification field over the record set.
// Every expected literal and NotSet are always present, including zero-count
// ones; Unrecognized appears only when a stored value falls outside the
// expected vocabulary.
func aggregateDimension[T any](total int, expected []string, tcs []T, field func(T) string) DimensionStats {
	counts := make(map[string]int, len(expected)+2)
	for _, lit := range expected {
		counts[lit] = 0
	}
	counts[BucketNotSet] = 0

	for _, tc := range tcs {
		v := field(tc)
		switch {
		case v == "":
			counts[BucketNotSet]++
		default:
			if _, ok := counts[v]; ok && v != BucketNotSet && v != BucketUnrecognized {
				counts[v]++
			} else {
				counts[BucketUnrecognized]++
			}
		}
	}

	stats := make(DimensionStats, len(counts))
	for name, count := range counts {
		if name == BucketUnrecognized && count == 0 {
			continue
		}
		stats[name] = BucketStat{Count: count, Percentage: percentage(count, total)}
	}
	return stats
}

func aggregateDefects[T any](total int, tcs []T, defectID func(T) string) DefectStats {
	with := 0
	for _, tc := range tcs {
		if defectID(tc) != "" {
			with++
		}
	}
	return DefectStats{
		WithDefect:    BucketStat{Count: with, Percentage: percentage(with, total)},
		WithoutDefect: BucketStat{Count: total - with, Percentage: percentage(total-with, total)},
	}
}

// percentage formats count/total as a two-decimal percent string, rounding
// ties away from zero (so 3.125 prints "3.13", not the %.2f half-even "3.12").
func percentage(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", math.Round(float64(count)/float64(total)*10000)/100)
}
