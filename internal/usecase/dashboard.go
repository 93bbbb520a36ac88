package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	trendWindow   = 180 * 24 * time.Hour
	topSourcesMax = 5
)

type StatusStat struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type MonthlyTrend struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	LeadsCreated int     `json:"leads_created"`
	TotalValue   float64 `json:"total_value"`
}

type SourceStat struct {
	Source     string  `json:"source"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

type DashboardStats struct {
	StatusStats      map[entity.LeadStatus]StatusStat `json:"status_stats"`
	TotalLeads       int                              `json:"total_leads"`
	ConversionRate   float64                          `json:"conversion_rate"`
	AvgDealSize      float64                          `json:"avg_deal_size"`
	RecentActivities []*entity.Activity               `json:"recent_activities"`
	MonthlyTrends    []MonthlyTrend                   `json:"monthly_trends"`
	TopSources       []SourceStat                     `json:"top_sources"`
}

type DashboardUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Now        func() time.Time
}

func NewDashboardUseCase(leads entity.LeadRepositoryInterface, activities *ActivityRecorder) *DashboardUseCase {
	return &DashboardUseCase{Leads: leads, Activities: activities, Now: entity.Now}
}

func (uc *DashboardUseCase) Stats(ctx context.Context) (*DashboardStats, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	aggs, err := uc.Leads.AggregateByStatus(ctx)
	if err != nil {
		return nil, translate(err, "dashboard")
	}

	stats := &DashboardStats{
		StatusStats:   make(map[entity.LeadStatus]StatusStat, len(aggs)),
		MonthlyTrends: []MonthlyTrend{},
		TopSources:    []SourceStat{},
	}
	for _, a := range aggs {
		stats.StatusStats[a.Status] = StatusStat{Count: a.Count, Value: a.Value}
		stats.TotalLeads += a.Count
	}

	won := stats.StatusStats[entity.StatusWon]
	lost := stats.StatusStats[entity.StatusLost]
	stats.ConversionRate = ConversionRate(won.Count, lost.Count)
	if won.Count > 0 {
		stats.AvgDealSize = round2(won.Value / float64(won.Count))
	}

	if stats.RecentActivities, err = uc.Activities.Recent(ctx, defaultRecentActivities); err != nil {
		return nil, err
	}

	recent, err := uc.Leads.ListCreatedSince(ctx, uc.Now().Add(-trendWindow))
	if err != nil {
		return nil, translate(err, "dashboard")
	}
	stats.MonthlyTrends = monthlyTrends(recent)

	sources, err := uc.Leads.TopSources(ctx, topSourcesMax)
	if err != nil {
		return nil, translate(err, "dashboard")
	}
	for _, s := range sources {
		stats.TopSources = append(stats.TopSources, SourceStat{Source: s.Source, Count: s.Count, TotalValue: s.TotalValue})
	}
	return stats, nil
}

// ConversionRate é won/(won+lost) em porcentagem com duas casas; 0 sem leads fechados.
func ConversionRate(won, lost int) float64 {
	closed := won + lost
	if closed == 0 {
		return 0
	}
	return round2(float64(won) / float64(closed) * 100)
}

func monthlyTrends(leads []*entity.Lead) []MonthlyTrend {
	type key struct{ year, month int }
	buckets := map[key]*MonthlyTrend{}
	for _, l := range leads {
		k := key{l.CreatedAt.Year(), int(l.CreatedAt.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyTrend{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.LeadsCreated++
		b.TotalValue += l.Value
	}

	out := make([]MonthlyTrend, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
