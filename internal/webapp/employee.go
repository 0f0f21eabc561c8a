package webapp

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
)

func (s *Server) employeePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)
	query := r.URL.Query()

	date := strings.TrimSpace(query.Get("date"))
	if date == "" {
		date = todayDate()
	}

	data := pageData{
		User:       sess.User,
		Date:       date,
		Message:    query.Get("message"),
		Error:      query.Get("error"),
		SelectedID: query.Get("selected"),
	}

	// The table is always re-fetched; there is no cached copy to merge into.
	entries, err := s.api.MyAttendance(r.Context(), sess.Token, date)
	if err != nil {
		logger.From(r.Context()).Warn("load attendance", "date", date, "error", err)
		data.Error = firstNonEmpty(data.Error, err.Error())
	} else {
		data.Attendance = buildAttendanceRows(entries, data.SelectedID)
	}

	// A selection only counts if it refers to a listed row; a stale id from
	// an old link just leaves the correction form hidden.
	for i := range data.Attendance {
		if data.Attendance[i].Selected {
			data.Selected = &data.Attendance[i]
			break
		}
	}

	if query.Get("corrections") == "1" {
		data.ShowMyCorrections = true
		corrections, err := s.api.MyCorrections(r.Context(), sess.Token)
		if err != nil {
			logger.From(r.Context()).Warn("load my corrections", "error", err)
			data.Error = firstNonEmpty(data.Error, err.Error())
		} else {
			data.MyCorrections = buildCorrectionRows(corrections)
		}
	}

	if err := s.render(w, r, s.employeeTmpl, data); err != nil {
		http.Error(w, "template render failed", http.StatusInternalServerError)
	}
}

func (s *Server) clockIn(w http.ResponseWriter, r *http.Request) {
	s.clock(w, r, false)
}

func (s *Server) clockOut(w http.ResponseWriter, r *http.Request) {
	s.clock(w, r, true)
}

func (s *Server) clock(w http.ResponseWriter, r *http.Request, out bool) {
	sess := s.sessionFromRequest(r)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Redirect(w, r, employeePath(url.Values{"error": {"Invalid form submission"}}), http.StatusFound)
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	if date == "" {
		date = todayDate()
	}
	params := url.Values{"date": {date}}

	// Geolocation is best-effort: the browser fills lat/lng when permitted,
	// and empty values simply stay out of the forwarded payload.
	payload := amsapi.ClockPayload{
		Lat: strings.TrimSpace(r.FormValue("lat")),
		Lng: strings.TrimSpace(r.FormValue("lng")),
	}

	file, _, err := r.FormFile("selfie")
	switch {
	case err == nil:
		raw, readErr := io.ReadAll(io.LimitReader(file, 10<<20))
		file.Close()
		if readErr != nil {
			params.Set("error", "Unable to read selfie")
			http.Redirect(w, r, employeePath(params), http.StatusFound)
			return
		}
		if len(raw) > 0 {
			normalized, normErr := normalizeSelfie(raw)
			if normErr != nil {
				params.Set("error", "Selfie must be a png, jpeg, or webp image")
				http.Redirect(w, r, employeePath(params), http.StatusFound)
				return
			}
			payload.Selfie = normalized
			payload.SelfieName = "selfie.jpg"
		}
	case errors.Is(err, http.ErrMissingFile):
		// Selfie is optional.
	default:
		params.Set("error", "Unable to read selfie")
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}

	action := s.api.ClockIn
	confirmation := "Clocked In!"
	if out {
		action = s.api.ClockOut
		confirmation = "Clocked Out!"
	}

	if err := action(r.Context(), sess.Token, payload); err != nil {
		logger.From(r.Context()).Warn("clock submission failed", "out", out, "error", err)
		params.Set("error", err.Error())
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}

	params.Set("message", confirmation)
	http.Redirect(w, r, employeePath(params), http.StatusFound)
}

func (s *Server) submitCorrection(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, employeePath(url.Values{"error": {"Invalid form submission"}}), http.StatusFound)
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	if date == "" {
		date = todayDate()
	}
	params := url.Values{"date": {date}}

	attendanceID := strings.TrimSpace(r.FormValue("attendance_id"))
	if attendanceID == "" {
		// Client-side guard: no entry selected means no network call at all.
		params.Set("error", "Please select an attendance entry first")
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}

	proposedIn, err := parseLocalDateTime(strings.TrimSpace(r.FormValue("proposed_in_time")))
	if err != nil {
		params.Set("selected", attendanceID)
		params.Set("error", "Invalid proposed in time")
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}
	proposedOut, err := parseLocalDateTime(strings.TrimSpace(r.FormValue("proposed_out_time")))
	if err != nil {
		params.Set("selected", attendanceID)
		params.Set("error", "Invalid proposed out time")
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}

	submission := amsapi.CorrectionSubmission{
		AttendanceID:    attendanceID,
		ProposedInTime:  proposedIn,
		ProposedOutTime: proposedOut,
		Reason:          strings.TrimSpace(r.FormValue("reason")),
	}

	if err := s.api.SubmitCorrection(r.Context(), sess.Token, submission); err != nil {
		logger.From(r.Context()).Warn("submit correction failed", "attendanceId", attendanceID, "error", err)
		params.Set("selected", attendanceID)
		params.Set("error", err.Error())
		http.Redirect(w, r, employeePath(params), http.StatusFound)
		return
	}

	// Success clears the selection, which closes the form. The my-corrections
	// list is a separate explicit load.
	params.Set("message", "Correction request submitted")
	http.Redirect(w, r, employeePath(params), http.StatusFound)
}

func employeePath(params url.Values) string {
	if len(params) == 0 {
		return "/employee"
	}
	return "/employee?" + params.Encode()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
