package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/clockleaf/timesheet/internal/timesheet/http"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store/drivers/sqlite"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
	"github.com/clockleaf/timesheet/pkg/ttlstore"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://timesheet.test"

// captureMailer records the links that would have been emailed.
type captureMailer struct {
	magicLinks  []string
	invitations []string
}

func (m *captureMailer) SendMagicLink(_ context.Context, _, url string) error {
	m.magicLinks = append(m.magicLinks, url)
	return nil
}

func (m *captureMailer) SendInvitation(_ context.Context, _, url string) error {
	m.invitations = append(m.invitations, url)
	return nil
}

// newTestServer assembles the full router against an in-memory database,
// the way the application wires it at startup.
func newTestServer(t *testing.T) (*httptest.Server, *captureMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() {
		_ = st.Close()
	})

	signer := jwtx.NewSigner("test-secret", "timesheet-test", time.Hour)
	mailer := &captureMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(signer, "test", st, logger)
	router.UserService = &service.UserService{Store: st}
	router.ClientService = &service.ClientService{Store: st}
	router.ProjectService = &service.ProjectService{Store: st}
	router.EntryService = &service.EntryService{Store: st}
	router.TimesheetService = &service.TimesheetService{Store: st}
	router.AnalyticsService = &service.AnalyticsService{Store: st}
	router.AuthService = &service.AuthService{
		Store:   st,
		Signer:  signer,
		Limiter: ttlstore.NewMemory(),
		Mailer:  mailer,
		BaseURL: testBaseURL,
	}
	router.InvitationService = &service.InvitationService{
		Store:   st,
		Signer:  signer,
		Mailer:  mailer,
		BaseURL: testBaseURL,
	}
	router.SetupService = &service.SetupService{Store: st, Signer: signer}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mailer
}

func requireAPIError(t *testing.T, err error, status int) *timesdk.APIError {
	t.Helper()

	var apiErr *timesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	return apiErr
}

// doRaw issues a request outside the SDK for endpoints it does not cover.
func doRaw(t *testing.T, method, url, token, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func weekRow(projectID string, hours [7]float64) timesdk.TimesheetRow {
	row := timesdk.TimesheetRow{ProjectID: projectID}
	for i, h := range hours {
		row.Cells[i] = timesdk.TimesheetCell{Hours: h}
	}
	return row
}

func TestAPIFlow(t *testing.T) {
	srv, mailer := newTestServer(t)
	ctx := context.Background()
	anon := timesdk.NewClient(srv.URL)

	var (
		admin, member     *timesdk.Client
		adminID, memberID string
		clientID, projID  string
	)

	t.Run("setup is required on a fresh database", func(t *testing.T) {
		status, err := anon.SetupStatus(ctx)
		require.NoError(t, err)
		require.True(t, status.Required)
	})

	t.Run("endpoints demand a token", func(t *testing.T) {
		_, err := anon.ListUsers(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	t.Run("first admin is created exactly once", func(t *testing.T) {
		auth, err := anon.CreateFirstAdmin(ctx, timesdk.SetupRequest{
			Name:    "Ada",
			Surname: "Root",
			Email:   "Ada@Example.com",
		})
		require.NoError(t, err)
		require.NotEmpty(t, auth.Token)
		require.Equal(t, "admin", auth.User.Role)
		require.Equal(t, "ada@example.com", auth.User.Email)

		admin = anon.WithToken(auth.Token)
		adminID = auth.User.ID

		_, err = anon.CreateFirstAdmin(ctx, timesdk.SetupRequest{
			Name:    "Eve",
			Surname: "Late",
			Email:   "eve@example.com",
		})
		requireAPIError(t, err, http.StatusConflict)

		status, err := anon.SetupStatus(ctx)
		require.NoError(t, err)
		require.False(t, status.Required)
	})

	t.Run("admin creates a member account", func(t *testing.T) {
		user, err := admin.CreateUser(ctx, timesdk.CreateUserRequest{
			Name:    "Max",
			Surname: "Miles",
			Email:   "max@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "user", user.Role)
		memberID = user.ID
	})

	t.Run("member signs in with a magic link", func(t *testing.T) {
		msg, err := anon.RequestMagicLink(ctx, "max@example.com")
		require.NoError(t, err)
		require.Contains(t, msg.Message, "sign-in link")

		require.Len(t, mailer.magicLinks, 1)
		token := strings.TrimPrefix(mailer.magicLinks[0], testBaseURL+"/auth/magic-link/")

		auth, err := anon.ConsumeMagicLink(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "max@example.com", auth.User.Email)
		member = anon.WithToken(auth.Token)

		// Single use.
		_, err = anon.ConsumeMagicLink(ctx, token)
		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("member cannot manage clients", func(t *testing.T) {
		_, err := member.CreateClient(ctx, timesdk.CreateClientRequest{
			Name: "Sneaky Inc", Type: "external",
		})
		requireAPIError(t, err, http.StatusForbidden)
	})

	t.Run("admin creates a client and a project", func(t *testing.T) {
		cl, err := admin.CreateClient(ctx, timesdk.CreateClientRequest{
			Name: "Acme Corp", Type: "external", ITN: "1234567890",
		})
		require.NoError(t, err)
		clientID = cl.ID

		// Names collide case- and whitespace-insensitively.
		_, err = admin.CreateClient(ctx, timesdk.CreateClientRequest{
			Name: "  ACME   corp ", Type: "internal",
		})
		requireAPIError(t, err, http.StatusConflict)

		p, err := admin.CreateProject(ctx, timesdk.CreateProjectRequest{
			Name: "Website", Code: "WEB", ClientID: clientID,
		})
		require.NoError(t, err)
		require.True(t, p.Active)
		projID = p.ID
	})

	t.Run("member submits a weekly grid", func(t *testing.T) {
		resp, err := member.SubmitTimesheet(ctx, timesdk.SubmitTimesheetRequest{
			WeekStart: "2025-06-09",
			Rows: []timesdk.TimesheetRow{
				weekRow(projID, [7]float64{8, 6, 0, 0, 0, 0, 0}),
			},
		})
		require.NoError(t, err)
		require.Equal(t, "2025-06-09", resp.WeekStart)
		require.Equal(t, "2025-06-15", resp.WeekEnd)
		require.Equal(t, 14.0, resp.Total)
		require.Equal(t, 8.0, resp.DayTotals[0])
		require.Equal(t, "met", resp.DayStatuses[0])
		require.Equal(t, "under", resp.DayStatuses[1])
		require.Len(t, resp.Rows, 1)
		require.NotEmpty(t, resp.Rows[0].Cells[0].EntryID)

		// Any date in the week resolves the same grid.
		view, err := member.Timesheet(ctx, "", "2025-06-12")
		require.NoError(t, err)
		require.Equal(t, "2025-06-09", view.WeekStart)
		require.Equal(t, 14.0, view.Total)
	})

	t.Run("member cannot read another user's week", func(t *testing.T) {
		_, err := member.Timesheet(ctx, adminID, "2025-06-12")
		apiErr := requireAPIError(t, err, http.StatusForbidden)
		require.Contains(t, apiErr.Message, "your own time entries")
	})

	t.Run("admin may read the member's week", func(t *testing.T) {
		view, err := admin.Timesheet(ctx, memberID, "2025-06-12")
		require.NoError(t, err)
		require.Equal(t, 14.0, view.Total)
	})

	t.Run("invalid grid writes nothing", func(t *testing.T) {
		_, err := member.SubmitTimesheet(ctx, timesdk.SubmitTimesheetRequest{
			WeekStart: "2025-06-09",
			Rows: []timesdk.TimesheetRow{
				weekRow(projID, [7]float64{25, 0, 0, 0, 0, 0, 0}),
			},
		})
		apiErr := requireAPIError(t, err, http.StatusBadRequest)
		require.Contains(t, apiErr.Message, "row 1")

		view, err := member.Timesheet(ctx, "", "2025-06-09")
		require.NoError(t, err)
		require.Equal(t, 14.0, view.Total)
	})

	t.Run("batch upsert and bulk delete", func(t *testing.T) {
		err := member.BatchUpsert(ctx, []timesdk.BatchEntry{
			{ProjectID: projID, Date: "2025-06-16", Hours: 4},
			{ProjectID: projID, Date: "2025-06-17", Hours: 4},
		})
		require.NoError(t, err)

		deleted, err := member.BulkDelete(ctx, timesdk.BulkDeleteRequest{
			ProjectID: projID,
			WeekStart: "2025-06-16",
		})
		require.NoError(t, err)
		require.Equal(t, int64(2), deleted.Deleted)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		status, _ := doRaw(t, http.MethodPost, srv.URL+"/api/clients", admin.Token, "{not json")
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("invitation round trip", func(t *testing.T) {
		status, _ := doRaw(t, http.MethodPost, srv.URL+"/api/invitations",
			admin.Token, `{"email":"ivy@example.com"}`)
		require.Equal(t, http.StatusCreated, status)

		require.Len(t, mailer.invitations, 1)
		token := strings.TrimPrefix(mailer.invitations[0], testBaseURL+"/invitations/accept/")

		status, raw := doRaw(t, http.MethodGet, srv.URL+"/api/invitations/accept/"+token, "", "")
		require.Equal(t, http.StatusOK, status)
		var preview timesdk.InvitationPreviewResponse
		require.NoError(t, json.Unmarshal(raw, &preview))
		require.Equal(t, "ivy@example.com", preview.Email)

		status, raw = doRaw(t, http.MethodPost, srv.URL+"/api/invitations/accept/"+token,
			"", `{"name":"Ivy","surname":"Green"}`)
		require.Equal(t, http.StatusOK, status)
		var auth timesdk.AuthResponse
		require.NoError(t, json.Unmarshal(raw, &auth))
		require.NotEmpty(t, auth.Token)
		require.Equal(t, "ivy@example.com", auth.User.Email)

		// The spent token no longer previews.
		status, _ = doRaw(t, http.MethodGet, srv.URL+"/api/invitations/accept/"+token, "", "")
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("analytics serves plain arrays", func(t *testing.T) {
		status, raw := doRaw(t, http.MethodGet, srv.URL+"/api/analytics/time-by-project", member.Token, "")
		require.Equal(t, http.StatusOK, status)

		var rows []timesdk.ProjectTimeRow
		require.NoError(t, json.Unmarshal(raw, &rows))
		require.Len(t, rows, 1)
		require.Equal(t, "Website", rows[0].ProjectName)
		require.Equal(t, "Acme Corp", rows[0].ClientName)
		require.Equal(t, 14.0, rows[0].TotalHours)

		status, raw = doRaw(t, http.MethodGet, srv.URL+"/api/analytics/time-by-client-type-total", member.Token, "")
		require.Equal(t, http.StatusOK, status)
		var byType []timesdk.ClientTypeTimeRow
		require.NoError(t, json.Unmarshal(raw, &byType))
		require.Len(t, byType, 1)
		require.Equal(t, "external", byType[0].ClientType)
	})
}

func TestRowOrderPrefs(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	anon := timesdk.NewClient(srv.URL)

	auth, err := anon.CreateFirstAdmin(ctx, timesdk.SetupRequest{
		Name: "Ada", Surname: "Root", Email: "ada@example.com",
	})
	require.NoError(t, err)
	admin := anon.WithToken(auth.Token)

	alpha, err := admin.CreateProject(ctx, timesdk.CreateProjectRequest{Name: "Alpha"})
	require.NoError(t, err)
	beta, err := admin.CreateProject(ctx, timesdk.CreateProjectRequest{Name: "Beta"})
	require.NoError(t, err)

	_, err = admin.SubmitTimesheet(ctx, timesdk.SubmitTimesheetRequest{
		WeekStart: "2025-06-09",
		Rows: []timesdk.TimesheetRow{
			weekRow(alpha.ID, [7]float64{2, 0, 0, 0, 0, 0, 0}),
			weekRow(beta.ID, [7]float64{3, 0, 0, 0, 0, 0, 0}),
		},
	})
	require.NoError(t, err)

	status, _ := doRaw(t, http.MethodPut, srv.URL+"/api/timesheet/prefs",
		admin.Token, `{"week_start":"2025-06-09","project_ids":["`+beta.ID+`","`+alpha.ID+`"]}`)
	require.Equal(t, http.StatusOK, status)

	view, err := admin.Timesheet(ctx, "", "2025-06-09")
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	require.Equal(t, beta.ID, view.Rows[0].ProjectID)
	require.Equal(t, alpha.ID, view.Rows[1].ProjectID)

	status, raw := doRaw(t, http.MethodGet,
		srv.URL+"/api/timesheet/prefs?week_start=2025-06-09", admin.Token, "")
	require.Equal(t, http.StatusOK, status)
	var order timesdk.RowOrderResponse
	require.NoError(t, json.Unmarshal(raw, &order))
	require.Equal(t, []string{beta.ID, alpha.ID}, order.ProjectIDs)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	status, raw := doRaw(t, http.MethodGet, srv.URL+"/livez", "", "")
	require.Equal(t, http.StatusOK, status)
	var live timesdk.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &live))
	require.Equal(t, "ok", live.Status)

	status, raw = doRaw(t, http.MethodGet, srv.URL+"/readyz", "", "")
	require.Equal(t, http.StatusOK, status)
	var ready timesdk.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &ready))
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
