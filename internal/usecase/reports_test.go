package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var reportDay = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// seedLead grava direto no repositório para controlar created_at.
func (h *harness) seedLead(t *testing.T, title string, status entity.LeadStatus, value float64, source, owner string, created time.Time) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead(title, status, entity.PriorityMedium, value, "user-user")
	require.NoError(t, err)
	lead.Source = source
	lead.AssignedTo = owner
	lead.CreatedAt = created
	lead.UpdatedAt = created
	require.NoError(t, h.leads.Create(context.Background(), lead))
	return lead
}

func seedReportLeads(t *testing.T, h *harness) {
	t.Helper()
	h.seedLead(t, "Antigo", entity.StatusWon, 9999, "site", "ana", reportDay.Add(-30*24*time.Hour))
	h.seedLead(t, "A", entity.StatusWon, 3000, "site", "ana", reportDay)
	h.seedLead(t, "B", entity.StatusLost, 1000, "site", "bruno", reportDay)
	h.seedLead(t, "C", entity.StatusNew, 500, "", "", reportDay.Add(24*time.Hour))
	h.seedLead(t, "D", entity.StatusWon, 5000, "indicação", "bruno", reportDay.Add(2*24*time.Hour))
}

func TestReports_Stats(t *testing.T) {
	h := newHarness(t)
	seedReportLeads(t, h)
	uc := usecase.NewReportsUseCase(h.leads)
	ctx := asUser(entity.RoleUser)

	start, end := reportDay.Add(-time.Hour), reportDay.Add(3*24*time.Hour)
	stats, err := uc.Stats(ctx, &start, &end)
	require.NoError(t, err)

	require.NotNil(t, stats.Period.TotalDays)
	assert.Equal(t, 3, *stats.Period.TotalDays)
	assert.Equal(t, usecase.ReportSummary{
		TotalLeads:     4,
		ConversionRate: 50,
		AvgDealSize:    4000,
		TotalValue:     9500,
		ClosedWon:      2,
		ClosedLost:     1,
	}, stats.Summary)
	assert.Equal(t, usecase.StatusStat{Count: 2, Value: 8000}, stats.StatusStats[entity.StatusWon])

	assert.Equal(t, []usecase.DailyTrend{
		{Date: "2026-03-10", LeadsCreated: 2, TotalValue: 4000, WonDeals: 1, LostDeals: 1},
		{Date: "2026-03-11", LeadsCreated: 1, TotalValue: 500},
		{Date: "2026-03-12", LeadsCreated: 1, TotalValue: 5000, WonDeals: 1},
	}, stats.DailyTrends)

	require.Len(t, stats.UserPerformance, 3)
	assert.Equal(t, usecase.AssigneePerformance{AssignedTo: "bruno", LeadsCount: 2, TotalValue: 6000, WonDeals: 1, ConversionRate: 50}, stats.UserPerformance[0])
	assert.Equal(t, "ana", stats.UserPerformance[1].AssignedTo)
	assert.Equal(t, "unassigned", stats.UserPerformance[2].AssignedTo)

	require.Len(t, stats.SourcePerformance, 3)
	assert.Equal(t, usecase.SourcePerformance{Source: "site", LeadsCount: 2, TotalValue: 4000, WonDeals: 1, AvgDealSize: 2000}, stats.SourcePerformance[0])

	var order []entity.LeadStatus
	for _, stage := range stats.PipelineAnalysis {
		order = append(order, stage.Status)
	}
	assert.Equal(t, []entity.LeadStatus{entity.StatusNew, entity.StatusWon, entity.StatusLost}, order)

	t.Run("sem datas considera tudo", func(t *testing.T) {
		all, err := uc.Stats(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, all.Summary.TotalLeads)
		assert.Nil(t, all.Period.TotalDays)
	})

	t.Run("fim antes do início", func(t *testing.T) {
		_, err := uc.Stats(ctx, &end, &start)
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})

	t.Run("sem usuário", func(t *testing.T) {
		_, err := uc.Stats(context.Background(), nil, nil)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})
}

func TestReports_Advanced(t *testing.T) {
	h := newHarness(t)
	seedReportLeads(t, h)
	uc := usecase.NewReportsUseCase(h.leads)
	ctx := asUser(entity.RoleManager)

	start, end := reportDay.Add(-time.Hour), reportDay.Add(3*24*time.Hour)
	report, err := uc.Advanced(ctx, usecase.ReportFilter{StartDate: &start, EndDate: &end, Period: "day"})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalLeads)
	assert.Equal(t, 9500.0, report.TotalPipelineValue)
	assert.Equal(t, 2375.0, report.AvgDealSize)
	assert.Equal(t, map[string]int{"2026-03-10": 2, "2026-03-11": 1, "2026-03-12": 1}, report.LeadsByPeriod)
	assert.Equal(t, 50.0, report.ConversionRates[entity.StatusWon])
	assert.Equal(t, usecase.FunnelStage{Count: 2, ConversionRate: 50, StageOrder: 4}, report.FunnelData[entity.StatusWon])
	assert.Equal(t, usecase.FunnelStage{StageOrder: 2}, report.FunnelData[entity.StatusProposal])
	assert.Equal(t, map[string]int{"site": 2, "indicação": 1, "unknown": 1}, report.LeadSources)
	require.NotEmpty(t, report.TeamPerformance)
	assert.Equal(t, "bruno", report.TeamPerformance[0].User)

	// "Antigo" fica fora da janela anterior
	require.Contains(t, report.PeriodComparison, "previous_period")
	assert.Equal(t, 0, report.PeriodComparison["previous_period"].Leads)
	assert.Equal(t, 4, report.PeriodComparison["current_period"].Leads)

	t.Run("filtra por responsável e status", func(t *testing.T) {
		r, err := uc.Advanced(ctx, usecase.ReportFilter{UserID: "ana", Status: entity.StatusWon, Period: "year"})
		require.NoError(t, err)
		assert.Equal(t, 2, r.TotalLeads)
		assert.Equal(t, map[string]int{"2026": 2}, r.LeadsByPeriod)
		assert.Nil(t, r.PeriodComparison)
	})

	t.Run("chaves de semana e trimestre", func(t *testing.T) {
		r, err := uc.Advanced(ctx, usecase.ReportFilter{Period: "quarter"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"2026-Q1": 5}, r.LeadsByPeriod)

		r, err = uc.Advanced(ctx, usecase.ReportFilter{StartDate: &start, EndDate: &start, Period: "week"})
		require.NoError(t, err)
		assert.Empty(t, r.LeadsByPeriod)
	})

	t.Run("período inválido", func(t *testing.T) {
		_, err := uc.Advanced(ctx, usecase.ReportFilter{Period: "decade"})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})

	t.Run("status inválido", func(t *testing.T) {
		_, err := uc.Advanced(ctx, usecase.ReportFilter{Status: "arquivado"})
		assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
	})
}

func TestReports_ExportCSV(t *testing.T) {
	h := newHarness(t)
	seedReportLeads(t, h)
	uc := usecase.NewReportsUseCase(h.leads)
	ctx := asUser(entity.RoleUser)

	start := reportDay.Add(-time.Hour)
	file, err := uc.Export(ctx, usecase.ExportReportInput{
		Format:     "csv",
		ReportType: "leads",
		Filters:    usecase.ReportFilter{StartDate: &start},
	})
	require.NoError(t, err)
	assert.Equal(t, "report_leads.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"title", "company", "contact_name", "email", "phone", "status", "value", "source", "created_at"}, records[0])
	titles := map[string]bool{}
	for _, r := range records[1:] {
		titles[r[0]] = true
	}
	assert.False(t, titles["Antigo"])

	perf, err := uc.Export(ctx, usecase.ExportReportInput{Format: "CSV", ReportType: "performance"})
	require.NoError(t, err)
	records, err = csv.NewReader(bytes.NewReader(perf.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, records[0])
	assert.Equal(t, []string{"Total Leads", "5"}, records[1])
	assert.Contains(t, records, []string{"Conversion Rate - fechado_ganho", "60.00%"})

	for _, in := range []usecase.ExportReportInput{
		{Format: "pdf", ReportType: "leads"},
		{Format: "csv", ReportType: "funnel"},
	} {
		_, err := uc.Export(ctx, in)
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de, "%+v", in)
		assert.Equal(t, usecase.CodeValidation, de.Code)
	}
}
