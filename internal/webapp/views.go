package webapp

import (
	"fmt"
	"strconv"
	"time"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
)

const displayPlaceholder = "-"

// pageData feeds all three templates; each screen reads its own slice of
// fields and ignores the rest.
type pageData struct {
	Error   string
	Message string
	User    *amsapi.User

	// Employee screen.
	Date              string
	SelectedID        string
	Selected          *attendanceRow
	Attendance        []attendanceRow
	ShowMyCorrections bool
	MyCorrections     []correctionRow

	// Admin screen.
	Mode        string
	EmployeeID  string
	From        string
	To          string
	Employees   []amsapi.Employee
	Corrections []correctionRow
	CanExport   bool
	ReturnPath  string
}

type attendanceRow struct {
	ID       string
	WorkDate string
	Employee string
	InTime   string
	OutTime  string
	Hours    string
	Location string
	Status   string
	Selected bool
}

type correctionRow struct {
	ID          string
	Employee    string
	WorkDate    string
	ProposedIn  string
	ProposedOut string
	Reason      string
	Status      string
}

func buildAttendanceRows(entries []amsapi.AttendanceEntry, selectedID string) []attendanceRow {
	rows := make([]attendanceRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, buildAttendanceRow(entry, selectedID))
	}
	return rows
}

func buildAttendanceRow(entry amsapi.AttendanceEntry, selectedID string) attendanceRow {
	return attendanceRow{
		ID:       entry.ID,
		WorkDate: entry.WorkDate,
		Employee: displayName(entry.User),
		InTime:   timeOfDayDisplay(entry.InTime),
		OutTime:  timeOfDayDisplay(entry.OutTime),
		Hours:    hoursWorkedDisplay(entry.InTime, entry.OutTime),
		Location: coordinateDisplay(entry.InLat, entry.InLng),
		Status:   entry.Status,
		Selected: selectedID != "" && entry.ID == selectedID,
	}
}

func buildCorrectionRows(corrections []amsapi.CorrectionRequest) []correctionRow {
	rows := make([]correctionRow, 0, len(corrections))
	for _, correction := range corrections {
		workDate := displayPlaceholder
		if correction.Attendance != nil && correction.Attendance.WorkDate != "" {
			workDate = correction.Attendance.WorkDate
		}
		rows = append(rows, correctionRow{
			ID:          correction.ID,
			Employee:    displayName(correction.Requester),
			WorkDate:    workDate,
			ProposedIn:  dateTimeDisplay(correction.ProposedInTime),
			ProposedOut: dateTimeDisplay(correction.ProposedOutTime),
			Reason:      correction.Reason,
			Status:      correction.Status,
		})
	}
	return rows
}

// hoursWorkedDisplay derives hours worked at render time; it is never a
// stored value. Either side missing means there is nothing to compute.
func hoursWorkedDisplay(in, out *time.Time) string {
	if in == nil || out == nil {
		return displayPlaceholder
	}
	return strconv.FormatFloat(out.Sub(*in).Hours(), 'f', 2, 64)
}

func timeOfDayDisplay(t *time.Time) string {
	if t == nil {
		return displayPlaceholder
	}
	return t.Local().Format("3:04:05 PM")
}

func dateTimeDisplay(t *time.Time) string {
	if t == nil {
		return displayPlaceholder
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

func coordinateDisplay(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return displayPlaceholder
	}
	return strconv.FormatFloat(*lat, 'f', -1, 64) + ", " + strconv.FormatFloat(*lng, 'f', -1, 64)
}

func displayName(user *amsapi.User) string {
	if user == nil {
		return "N/A"
	}
	if user.FullName != "" {
		return user.FullName
	}
	if user.Email != "" {
		return user.Email
	}
	return "N/A"
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}

// parseLocalDateTime reads a datetime-local form value in the server's
// timezone. Empty input means the field was deliberately left blank.
func parseLocalDateTime(raw string) (*time.Time, error) {
	trimmed := raw
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("invalid date-time value %q", trimmed)
}
