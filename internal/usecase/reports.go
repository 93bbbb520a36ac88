package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	topAssigneesMax = 10
	unassigned      = "unassigned"
)

type ReportPeriod struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	TotalDays *int       `json:"total_days"`
}

type ReportSummary struct {
	TotalLeads     int     `json:"total_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgDealSize    float64 `json:"avg_deal_size"`
	TotalValue     float64 `json:"total_value"`
	ClosedWon      int     `json:"closed_won"`
	ClosedLost     int     `json:"closed_lost"`
}

type DailyTrend struct {
	Date         string  `json:"date"`
	LeadsCreated int     `json:"leads_created"`
	TotalValue   float64 `json:"total_value"`
	WonDeals     int     `json:"won_deals"`
	LostDeals    int     `json:"lost_deals"`
}

type AssigneePerformance struct {
	AssignedTo     string  `json:"assigned_to"`
	LeadsCount     int     `json:"leads_count"`
	TotalValue     float64 `json:"total_value"`
	WonDeals       int     `json:"won_deals"`
	ConversionRate float64 `json:"conversion_rate"`
}

type SourcePerformance struct {
	Source      string  `json:"source"`
	LeadsCount  int     `json:"leads_count"`
	TotalValue  float64 `json:"total_value"`
	WonDeals    int     `json:"won_deals"`
	AvgDealSize float64 `json:"avg_deal_size"`
}

type PipelineStage struct {
	Status     entity.LeadStatus `json:"status"`
	Count      int               `json:"count"`
	TotalValue float64           `json:"total_value"`
}

// ReportStats é o relatório por intervalo de criação dos leads.
type ReportStats struct {
	Period            ReportPeriod                     `json:"period"`
	Summary           ReportSummary                    `json:"summary"`
	StatusStats       map[entity.LeadStatus]StatusStat `json:"status_stats"`
	DailyTrends       []DailyTrend                     `json:"daily_trends"`
	UserPerformance   []AssigneePerformance            `json:"user_performance"`
	SourcePerformance []SourcePerformance              `json:"source_performance"`
	PipelineAnalysis  []PipelineStage                  `json:"pipeline_analysis"`
}

type ReportFilter struct {
	StartDate *time.Time        `json:"start_date"`
	EndDate   *time.Time        `json:"end_date"`
	Period    string            `json:"period"`
	UserID    string            `json:"user_id"`
	Status    entity.LeadStatus `json:"status"`
}

type FunnelStage struct {
	Count          int     `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
	StageOrder     int     `json:"stage_order"`
}

type PeriodTotals struct {
	Leads          int     `json:"leads"`
	Value          float64 `json:"value"`
	ConversionRate float64 `json:"conversion_rate"`
}

type TeamMember struct {
	User        string  `json:"user"`
	LeadsCount  int     `json:"leads_count"`
	TotalValue  float64 `json:"total_value"`
	AvgDealSize float64 `json:"avg_deal_size"`
}

type AdvancedReport struct {
	TotalLeads         int                               `json:"total_leads"`
	LeadsByPeriod      map[string]int                    `json:"leads_by_period"`
	ConversionRates    map[entity.LeadStatus]float64     `json:"conversion_rates"`
	AvgDealSize        float64                           `json:"avg_deal_size"`
	TotalPipelineValue float64                           `json:"total_pipeline_value"`
	FunnelData         map[entity.LeadStatus]FunnelStage `json:"funnel_data"`
	PeriodComparison   map[string]PeriodTotals           `json:"period_comparison,omitempty"`
	TeamPerformance    []TeamMember                      `json:"team_performance"`
	LeadSources        map[string]int                    `json:"lead_sources"`
}

type ExportReportInput struct {
	Format     string       `json:"format"`
	ReportType string       `json:"report_type"`
	Filters    ReportFilter `json:"filters"`
}

type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportsUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewReportsUseCase(leads entity.LeadRepositoryInterface) *ReportsUseCase {
	return &ReportsUseCase{Leads: leads}
}

// Stats agrega os leads criados entre start e end (inclusivos, nil não limita).
func (uc *ReportsUseCase) Stats(ctx context.Context, start, end *time.Time) (*ReportStats, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	leads, err := uc.Leads.List(ctx, entity.LeadFilter{CreatedFrom: start, CreatedTo: end})
	if err != nil {
		return nil, translate(err, "report")
	}

	stats := &ReportStats{
		Period:      ReportPeriod{StartDate: utcPtr(start), EndDate: utcPtr(end)},
		StatusStats: map[entity.LeadStatus]StatusStat{},
	}
	if start != nil && end != nil {
		days := int(end.Sub(*start).Hours() / 24)
		stats.Period.TotalDays = &days
	}

	var wonValue float64
	for _, l := range leads {
		s := stats.StatusStats[l.Status]
		s.Count++
		s.Value += l.Value
		stats.StatusStats[l.Status] = s
		stats.Summary.TotalValue += l.Value
		switch l.Status {
		case entity.StatusWon:
			stats.Summary.ClosedWon++
			wonValue += l.Value
		case entity.StatusLost:
			stats.Summary.ClosedLost++
		}
	}
	stats.Summary.TotalLeads = len(leads)
	stats.Summary.ConversionRate = percentOf(stats.Summary.ClosedWon, len(leads))
	if stats.Summary.ClosedWon > 0 {
		stats.Summary.AvgDealSize = round2(wonValue / float64(stats.Summary.ClosedWon))
	}

	stats.DailyTrends = dailyTrends(leads)
	stats.UserPerformance = assigneePerformance(leads)
	stats.SourcePerformance = sourcePerformance(leads)

	stats.PipelineAnalysis = []PipelineStage{}
	for _, status := range entity.PipelineStatuses {
		if s, ok := stats.StatusStats[status]; ok {
			stats.PipelineAnalysis = append(stats.PipelineAnalysis, PipelineStage{Status: status, Count: s.Count, TotalValue: s.Value})
		}
	}
	return stats, nil
}

// Advanced agrupa por período ("day", "week", "month", "quarter", "year") e, com
// as duas datas, compara com a janela anterior de mesmo tamanho.
func (uc *ReportsUseCase) Advanced(ctx context.Context, filter ReportFilter) (*AdvancedReport, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if err := checkReportFilter(filter); err != nil {
		return nil, err
	}

	leads, err := uc.Leads.List(ctx, leadFilterOf(filter))
	if err != nil {
		return nil, translate(err, "report")
	}

	report := &AdvancedReport{
		TotalLeads:      len(leads),
		LeadsByPeriod:   map[string]int{},
		ConversionRates: map[entity.LeadStatus]float64{},
		FunnelData:      make(map[entity.LeadStatus]FunnelStage, len(entity.PipelineStatuses)),
		TeamPerformance: []TeamMember{},
		LeadSources:     map[string]int{},
	}

	counts := map[entity.LeadStatus]int{}
	team := map[string]*TeamMember{}
	for _, l := range leads {
		report.TotalPipelineValue += l.Value
		report.LeadsByPeriod[periodKey(l.CreatedAt, filter.Period)]++
		counts[l.Status]++

		source := l.Source
		if source == "" {
			source = "unknown"
		}
		report.LeadSources[source]++

		owner := l.AssignedTo
		if owner == "" {
			owner = unassigned
		}
		m, ok := team[owner]
		if !ok {
			m = &TeamMember{User: owner}
			team[owner] = m
		}
		m.LeadsCount++
		m.TotalValue += l.Value
	}
	if len(leads) > 0 {
		report.AvgDealSize = round2(report.TotalPipelineValue / float64(len(leads)))
	}

	for status, n := range counts {
		report.ConversionRates[status] = percentOf(n, len(leads))
	}
	for i, status := range entity.PipelineStatuses {
		report.FunnelData[status] = FunnelStage{
			Count:          counts[status],
			ConversionRate: report.ConversionRates[status],
			StageOrder:     i,
		}
	}

	for _, m := range team {
		m.AvgDealSize = round2(m.TotalValue / float64(m.LeadsCount))
		report.TeamPerformance = append(report.TeamPerformance, *m)
	}
	sort.Slice(report.TeamPerformance, func(i, j int) bool {
		a, b := report.TeamPerformance[i], report.TeamPerformance[j]
		if a.TotalValue != b.TotalValue {
			return a.TotalValue > b.TotalValue
		}
		return a.User < b.User
	})

	if filter.StartDate != nil && filter.EndDate != nil {
		prev, err := uc.previousWindow(ctx, filter)
		if err != nil {
			return nil, err
		}
		report.PeriodComparison = map[string]PeriodTotals{
			"current_period": {
				Leads:          len(leads),
				Value:          report.TotalPipelineValue,
				ConversionRate: report.ConversionRates[entity.StatusWon],
			},
			"previous_period": prev,
		}
	}
	return report, nil
}

func (uc *ReportsUseCase) previousWindow(ctx context.Context, filter ReportFilter) (PeriodTotals, error) {
	span := filter.EndDate.Sub(*filter.StartDate)
	from := filter.StartDate.Add(-span)
	to := filter.StartDate.Add(-time.Microsecond)
	prev := filter
	prev.StartDate, prev.EndDate = &from, &to

	leads, err := uc.Leads.List(ctx, leadFilterOf(prev))
	if err != nil {
		return PeriodTotals{}, translate(err, "report")
	}
	var totals PeriodTotals
	won := 0
	for _, l := range leads {
		totals.Value += l.Value
		if l.Status == entity.StatusWon {
			won++
		}
	}
	totals.Leads = len(leads)
	totals.ConversionRate = percentOf(won, len(leads))
	return totals, nil
}

// Export gera CSV. report_type "leads" lista os leads e "performance" os totais.
func (uc *ReportsUseCase) Export(ctx context.Context, input ExportReportInput) (*ReportFile, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if !strings.EqualFold(input.Format, "csv") {
		return nil, NewDomainError(CodeValidation, "export format %q is not supported", input.Format)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch input.ReportType {
	case "leads":
		if err := checkReportFilter(input.Filters); err != nil {
			return nil, err
		}
		leads, err := uc.Leads.List(ctx, leadFilterOf(input.Filters))
		if err != nil {
			return nil, translate(err, "report")
		}
		_ = w.Write([]string{"title", "company", "contact_name", "email", "phone", "status", "value", "source", "created_at"})
		for _, l := range leads {
			_ = w.Write([]string{
				l.Title, l.Company, l.ContactName, l.Email, l.Phone, string(l.Status),
				strconv.FormatFloat(l.Value, 'f', 2, 64), l.Source, l.CreatedAt.Format(time.RFC3339),
			})
		}
	case "performance":
		report, err := uc.Advanced(ctx, input.Filters)
		if err != nil {
			return nil, err
		}
		_ = w.Write([]string{"Metric", "Value"})
		_ = w.Write([]string{"Total Leads", strconv.Itoa(report.TotalLeads)})
		_ = w.Write([]string{"Average Deal Size", fmt.Sprintf("R$ %.2f", report.AvgDealSize)})
		_ = w.Write([]string{"Total Pipeline Value", fmt.Sprintf("R$ %.2f", report.TotalPipelineValue)})
		for _, status := range entity.PipelineStatuses {
			if rate, ok := report.ConversionRates[status]; ok {
				_ = w.Write([]string{"Conversion Rate - " + string(status), fmt.Sprintf("%.2f%%", rate)})
			}
		}
	default:
		return nil, NewDomainError(CodeValidation, "report_type must be leads or performance")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &TechnicalError{Code: "EXPORT_ERROR", Message: "failed to write report", Err: err}
	}
	return &ReportFile{
		Filename:    "report_" + input.ReportType + ".csv",
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return NewDomainError(CodeValidation, "end_date must not be before start_date")
	}
	return nil
}

func checkReportFilter(f ReportFilter) error {
	if err := checkRange(f.StartDate, f.EndDate); err != nil {
		return err
	}
	if f.Status != "" && !f.Status.Valid() {
		return NewDomainError(CodeInvalidStatus, "invalid status %q", f.Status)
	}
	switch f.Period {
	case "", "day", "week", "month", "quarter", "year":
		return nil
	default:
		return NewDomainError(CodeValidation, "period must be day, week, month, quarter or year")
	}
}

func leadFilterOf(f ReportFilter) entity.LeadFilter {
	return entity.LeadFilter{
		Status:      f.Status,
		AssignedTo:  f.UserID,
		CreatedFrom: f.StartDate,
		CreatedTo:   f.EndDate,
	}
}

func periodKey(t time.Time, period string) string {
	switch period {
	case "day":
		return t.Format("2006-01-02")
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "quarter":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case "year":
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func dailyTrends(leads []*entity.Lead) []DailyTrend {
	buckets := map[string]*DailyTrend{}
	for _, l := range leads {
		day := l.CreatedAt.Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &DailyTrend{Date: day}
			buckets[day] = b
		}
		b.LeadsCreated++
		b.TotalValue += l.Value
		switch l.Status {
		case entity.StatusWon:
			b.WonDeals++
		case entity.StatusLost:
			b.LostDeals++
		}
	}

	out := make([]DailyTrend, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func assigneePerformance(leads []*entity.Lead) []AssigneePerformance {
	byOwner := map[string]*AssigneePerformance{}
	for _, l := range leads {
		owner := l.AssignedTo
		if owner == "" {
			owner = unassigned
		}
		p, ok := byOwner[owner]
		if !ok {
			p = &AssigneePerformance{AssignedTo: owner}
			byOwner[owner] = p
		}
		p.LeadsCount++
		p.TotalValue += l.Value
		if l.Status == entity.StatusWon {
			p.WonDeals++
		}
	}

	out := make([]AssigneePerformance, 0, len(byOwner))
	for _, p := range byOwner {
		p.ConversionRate = percentOf(p.WonDeals, p.LeadsCount)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalValue != out[j].TotalValue {
			return out[i].TotalValue > out[j].TotalValue
		}
		return out[i].AssignedTo < out[j].AssignedTo
	})
	if len(out) > topAssigneesMax {
		out = out[:topAssigneesMax]
	}
	return out
}

func sourcePerformance(leads []*entity.Lead) []SourcePerformance {
	bySource := map[string]*SourcePerformance{}
	for _, l := range leads {
		source := l.Source
		if source == "" {
			source = "unknown"
		}
		p, ok := bySource[source]
		if !ok {
			p = &SourcePerformance{Source: source}
			bySource[source] = p
		}
		p.LeadsCount++
		p.TotalValue += l.Value
		if l.Status == entity.StatusWon {
			p.WonDeals++
		}
	}

	out := make([]SourcePerformance, 0, len(bySource))
	for _, p := range bySource {
		p.AvgDealSize = round2(p.TotalValue / float64(p.LeadsCount))
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeadsCount != out[j].LeadsCount {
			return out[i].LeadsCount > out[j].LeadsCount
		}
		return out[i].Source < out[j].Source
	})
	return out
}
