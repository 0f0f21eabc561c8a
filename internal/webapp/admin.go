package webapp

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
)

func (s *Server) adminPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)
	query := r.URL.Query()

	data := pageData{
		User:       sess.User,
		Message:    query.Get("message"),
		Error:      query.Get("error"),
		Mode:       query.Get("mode"),
		EmployeeID: query.Get("employeeId"),
		Date:       strings.TrimSpace(query.Get("date")),
		From:       strings.TrimSpace(query.Get("from")),
		To:         strings.TrimSpace(query.Get("to")),
		ReturnPath: adminReturnPath(query),
	}
	if data.Date == "" {
		data.Date = todayDate()
	}
	if data.From == "" {
		data.From = todayDate()
	}
	if data.To == "" {
		data.To = todayDate()
	}

	employees, err := s.api.Employees(r.Context(), sess.Token)
	if err != nil {
		// No live directory endpoint is not an error the screen surfaces;
		// the filter falls back to a static list and everything else works.
		logger.From(r.Context()).Debug("employee directory unavailable, using fallback", "error", err)
		employees = fallbackDirectory()
	}
	data.Employees = employees

	// Daywise and summary share one table; whichever query the URL names is
	// what renders.
	switch data.Mode {
	case "daywise":
		entries, err := s.api.AdminAttendance(r.Context(), sess.Token, data.EmployeeID, data.Date)
		if err != nil {
			logger.From(r.Context()).Warn("load daywise attendance", "date", data.Date, "error", err)
			data.Error = firstNonEmpty(data.Error, err.Error())
		} else {
			data.Attendance = buildAttendanceRows(entries, "")
		}
	case "summary":
		entries, err := s.api.AdminSummary(r.Context(), sess.Token, data.EmployeeID, data.From, data.To)
		if err != nil {
			logger.From(r.Context()).Warn("load attendance summary", "from", data.From, "to", data.To, "error", err)
			data.Error = firstNonEmpty(data.Error, err.Error())
		} else {
			data.Attendance = buildAttendanceRows(entries, "")
			data.CanExport = true
		}
	}

	// Pending corrections load on every render, so approving or rejecting
	// always comes back to a fresh list with an empty selection.
	pending, err := s.api.PendingCorrections(r.Context(), sess.Token)
	if err != nil {
		logger.From(r.Context()).Warn("load pending corrections", "error", err)
		data.Error = firstNonEmpty(data.Error, err.Error())
	} else {
		data.Corrections = buildCorrectionRows(pending)
	}

	if err := s.render(w, r, s.adminTmpl, data); err != nil {
		http.Error(w, "template render failed", http.StatusInternalServerError)
	}
}

// approveSelected transitions every posted correction id to APPROVED, one
// request at a time in posted order. There is no batch endpoint and no
// rollback: a failure mid-sequence leaves the earlier approvals in place,
// and the reload reports what happened.
func (s *Server) approveSelected(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin?error=Invalid+form+submission", http.StatusFound)
		return
	}

	returnPath := sanitizeReturnPath(r.FormValue("return"))
	ids := r.Form["correction_id"]
	if len(ids) == 0 {
		// The submit control is disabled with nothing checked, so this only
		// happens for hand-crafted requests.
		http.Redirect(w, r, withNotice(returnPath, "error", "Select at least one correction"), http.StatusFound)
		return
	}

	approved := 0
	failed := 0
	for _, id := range ids {
		if err := s.api.Decide(r.Context(), sess.Token, id, amsapi.StatusApproved); err != nil {
			logger.From(r.Context()).Warn("approve correction failed", "correctionId", id, "error", err)
			failed++
			continue
		}
		approved++
	}

	if failed > 0 {
		notice := fmt.Sprintf("Approved %d correction(s); %d failed", approved, failed)
		http.Redirect(w, r, withNotice(returnPath, "error", notice), http.StatusFound)
		return
	}
	http.Redirect(w, r, withNotice(returnPath, "message", fmt.Sprintf("Approved %d correction(s)", approved)), http.StatusFound)
}

func (s *Server) rejectCorrection(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin?error=Invalid+form+submission", http.StatusFound)
		return
	}
	returnPath := sanitizeReturnPath(r.FormValue("return"))

	correctionID := chi.URLParam(r, "id")
	if correctionID == "" {
		http.NotFound(w, r)
		return
	}

	if err := s.api.Decide(r.Context(), sess.Token, correctionID, amsapi.StatusRejected); err != nil {
		logger.From(r.Context()).Warn("reject correction failed", "correctionId", correctionID, "error", err)
		http.Redirect(w, r, withNotice(returnPath, "error", err.Error()), http.StatusFound)
		return
	}
	http.Redirect(w, r, withNotice(returnPath, "message", "Correction rejected"), http.StatusFound)
}

// adminReturnPath rebuilds the current admin URL without one-shot notices so
// approve/reject land back on the same filters.
func adminReturnPath(query url.Values) string {
	params := url.Values{}
	for _, key := range []string{"mode", "employeeId", "date", "from", "to"} {
		if value := query.Get(key); value != "" {
			params.Set(key, value)
		}
	}
	if len(params) == 0 {
		return "/admin"
	}
	return "/admin?" + params.Encode()
}

func sanitizeReturnPath(raw string) string {
	if raw == "/admin" || strings.HasPrefix(raw, "/admin?") {
		return raw
	}
	return "/admin"
}

func withNotice(returnPath, key, value string) string {
	parsed, err := url.Parse(returnPath)
	if err != nil {
		return "/admin?" + key + "=" + url.QueryEscape(value)
	}
	params := parsed.Query()
	params.Set(key, value)
	parsed.RawQuery = params.Encode()
	return parsed.String()
}

// fallbackDirectory keeps the employee filter usable when the backend has no
// directory endpoint.
func fallbackDirectory() []amsapi.Employee {
	return []amsapi.Employee{
		{ID: "a6bedfe5-83fe-4914-a4bc-1ccde1ea2795", Name: "Demo Employee"},
	}
}
