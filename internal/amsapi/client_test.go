package amsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestLoginReturnsUserAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if body["username"] != "asha" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "tok-123",
			"user":        map[string]string{"id": "u1", "fullName": "Asha", "role": RoleEmployee},
		})
	})

	user, token, err := client.Login(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
	if user.ID != "u1" || user.FullName != "Asha" || user.Role != RoleEmployee {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLoginSurfacesBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Bad credentials"})
	})

	_, _, err := client.Login(context.Background(), "asha", "wrong")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Bad credentials" {
		t.Errorf("message = %q, want Bad credentials", apiErr.Message)
	}
}

func TestLoginFallsBackWhenErrorBodyUnreadable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "not json")
	})

	_, _, err := client.Login(context.Background(), "asha", "wrong")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Message != "invalid credentials" {
		t.Errorf("message = %q, want invalid credentials", apiErr.Message)
	}
}

func TestClockInOmitsMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attendance/clock-in" {
			t.Errorf("path = %s, want /attendance/clock-in", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("lat"); got != "12.9" {
			t.Errorf("lat = %q, want 12.9", got)
		}
		if _, ok := r.MultipartForm.Value["lng"]; ok {
			t.Error("lng sent despite empty value")
		}
		if _, ok := r.MultipartForm.File["selfie"]; ok {
			t.Error("selfie sent despite nil bytes")
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := client.ClockIn(context.Background(), "tok-123", ClockPayload{Lat: "12.9"})
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
}

func TestClockOutSendsSelfie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attendance/clock-out" {
			t.Errorf("path = %s, want /attendance/clock-out", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("selfie")
		if err != nil {
			t.Fatalf("selfie part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "me.jpg" {
			t.Errorf("filename = %q, want me.jpg", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "jpegbytes" {
			t.Errorf("selfie bytes = %q", data)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.ClockOut(context.Background(), "tok-123", ClockPayload{
		Lat:        "12.9",
		Lng:        "77.6",
		SelfieName: "me.jpg",
		Selfie:     []byte("jpegbytes"),
	})
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
}

func TestMyAttendanceSendsDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attendance/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2024-05-01" {
			t.Errorf("date = %q, want 2024-05-01", got)
		}
		json.NewEncoder(w).Encode([]map[string]string{{"id": "a1", "workDate": "2024-05-01"}})
	})

	entries, err := client.MyAttendance(context.Background(), "tok", "2024-05-01")
	if err != nil {
		t.Fatalf("MyAttendance: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "a1" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestAdminSummarySendsRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("employeeId") != "u1" || query.Get("from") != "2024-05-01" || query.Get("to") != "2024-05-31" {
			t.Errorf("unexpected query: %v", query)
		}
		json.NewEncoder(w).Encode([]AttendanceEntry{})
	})

	if _, err := client.AdminSummary(context.Background(), "tok", "u1", "2024-05-01", "2024-05-31"); err != nil {
		t.Fatalf("AdminSummary: %v", err)
	}
}

func TestPendingCorrectionsFiltersByStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attendance/corrections/all" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != StatusPending {
			t.Errorf("status = %q, want %s", got, StatusPending)
		}
		json.NewEncoder(w).Encode([]CorrectionRequest{{ID: "c1", Status: StatusPending}})
	})

	corrections, err := client.PendingCorrections(context.Background(), "tok")
	if err != nil {
		t.Fatalf("PendingCorrections: %v", err)
	}
	if len(corrections) != 1 || corrections[0].ID != "c1" {
		t.Errorf("unexpected corrections: %+v", corrections)
	}
}

func TestDecideSendsPatchWithStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/attendance/corrections/c1/decision" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != StatusApproved {
			t.Errorf("status = %q, want APPROVED", body["status"])
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Decide(context.Background(), "tok", "c1", StatusApproved); err != nil {
		t.Fatalf("Decide: %v", err)
	}
}

func TestDecideRejectsPendingStatus(t *testing.T) {
	client := New("http://unused", time.Second)
	if err := client.Decide(context.Background(), "tok", "c1", StatusPending); err == nil {
		t.Fatal("expected error for PENDING decision")
	}
}

func TestSubmitCorrectionOmitsNilTimes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["attendanceId"] != "a1" || body["reason"] != "Forgot to clock out" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["proposedInTime"]; ok {
			t.Error("proposedInTime sent despite nil value")
		}
		if _, ok := body["proposedOutTime"]; !ok {
			t.Error("proposedOutTime missing")
		}
		w.WriteHeader(http.StatusCreated)
	})

	out := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	err := client.SubmitCorrection(context.Background(), "tok", CorrectionSubmission{
		AttendanceID:    "a1",
		ProposedOutTime: &out,
		Reason:          "Forgot to clock out",
	})
	if err != nil {
		t.Fatalf("SubmitCorrection: %v", err)
	}
}
