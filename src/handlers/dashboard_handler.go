package handlers

import (
	"moneywise-server/src/services"
	"net/http"
)

func GetDashboard(svc *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		summary, err := svc.Summary(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to build dashboard", err, userField(p))
			return
		}
		if summary.FullName == "" {
			summary.FullName = p.Email
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func GetDashboardOverview(svc *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		overview, err := svc.Overview(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to build dashboard overview", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

func GetMonthlyReport(svc *services.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		report, err := svc.Monthly(r.Context(), p.UserID, r.URL.Query().Get("month"))
		if err != nil {
			fail(w, "failed to build report", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
