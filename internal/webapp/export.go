package webapp

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
)

const exportSheetName = "Attendance"

// exportSummary streams the summary table as an .xlsx attachment. The rows
// are the same derived view the admin screen renders, so hours stay a
// computed value here too.
func (s *Server) exportSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(r)
	query := r.URL.Query()

	employeeID := query.Get("employeeId")
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))
	if from == "" {
		from = todayDate()
	}
	if to == "" {
		to = todayDate()
	}

	entries, err := s.api.AdminSummary(r.Context(), sess.Token, employeeID, from, to)
	if err != nil {
		logger.From(r.Context()).Warn("export summary failed", "from", from, "to", to, "error", err)
		params := url.Values{
			"mode":  {"summary"},
			"from":  {from},
			"to":    {to},
			"error": {err.Error()},
		}
		if employeeID != "" {
			params.Set("employeeId", employeeID)
		}
		http.Redirect(w, r, "/admin?"+params.Encode(), http.StatusFound)
		return
	}

	file := excelize.NewFile()
	defer file.Close()
	_ = file.SetSheetName("Sheet1", exportSheetName)

	headers := []string{"Date", "Employee", "In Time", "Out Time", "Hours", "Location", "Status"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			http.Error(w, "unable to build export", http.StatusInternalServerError)
			return
		}
		if err := file.SetCellValue(exportSheetName, cell, header); err != nil {
			http.Error(w, "unable to build export", http.StatusInternalServerError)
			return
		}
	}

	for i, entry := range entries {
		row := buildAttendanceRow(entry, "")
		values := []string{row.WorkDate, row.Employee, row.InTime, row.OutTime, row.Hours, row.Location, row.Status}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				http.Error(w, "unable to build export", http.StatusInternalServerError)
				return
			}
			if err := file.SetCellValue(exportSheetName, cell, value); err != nil {
				http.Error(w, "unable to build export", http.StatusInternalServerError)
				return
			}
		}
	}

	fileName := "attendance-" + from + "-to-" + to + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if err := file.Write(w); err != nil {
		logger.From(r.Context()).Error("write export", "error", err)
	}
}
