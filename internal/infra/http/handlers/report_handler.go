package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ReportHandler struct {
	ReportsUC *usecase.ReportsUseCase
}

func NewReportHandler(uc *usecase.ReportsUseCase) *ReportHandler {
	return &ReportHandler{ReportsUC: uc}
}

// Stats aceita ?start_date=&end_date=.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start_date")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	end, err := queryTime(r, "end_date")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	stats, err := h.ReportsUC.Stats(r.Context(), start, end)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ReportHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	var filter usecase.ReportFilter
	if !decodeJSON(w, r, &filter) {
		return
	}
	report, err := h.ReportsUC.Advanced(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var input usecase.ExportReportInput
	if !decodeJSON(w, r, &input) {
		return
	}
	file, err := h.ReportsUC.Export(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
