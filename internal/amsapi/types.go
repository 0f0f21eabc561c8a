package amsapi

import "time"

// Roles the backend assigns to authenticated users.
const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// Correction decision statuses accepted by the backend.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AttendanceEntry struct {
	ID       string     `json:"id"`
	WorkDate string     `json:"workDate"`
	InTime   *time.Time `json:"inTime"`
	OutTime  *time.Time `json:"outTime"`
	InLat    *float64   `json:"inLat"`
	InLng    *float64   `json:"inLng"`
	Status   string     `json:"status"`
	User     *User      `json:"user"`
}

type AttendanceRef struct {
	ID       string `json:"id"`
	WorkDate string `json:"workDate"`
}

type CorrectionRequest struct {
	ID              string         `json:"id"`
	Attendance      *AttendanceRef `json:"attendance"`
	Requester       *User          `json:"requester"`
	ProposedInTime  *time.Time     `json:"proposedInTime"`
	ProposedOutTime *time.Time     `json:"proposedOutTime"`
	Reason          string         `json:"reason"`
	Status          string         `json:"status"`
}

type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClockPayload carries the optional pieces of a clock-in/out submission.
// Empty coordinate strings and a nil selfie are omitted from the request.
type ClockPayload struct {
	Lat        string
	Lng        string
	SelfieName string
	Selfie     []byte
}

// CorrectionSubmission is an employee's proposal to amend an attendance
// entry. Nil proposed times mean "no change requested" for that side and
// are left out of the request body entirely.
type CorrectionSubmission struct {
	AttendanceID    string     `json:"attendanceId"`
	ProposedInTime  *time.Time `json:"proposedInTime,omitempty"`
	ProposedOutTime *time.Time `json:"proposedOutTime,omitempty"`
	Reason          string     `json:"reason"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type decisionRequest struct {
	Status string `json:"status"`
}
