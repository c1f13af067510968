package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/agenda/internal/application"
	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/credential"
	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/persistence"
	"github.com/example/agenda/internal/persistence/memory"
	"github.com/example/agenda/internal/testfixtures"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type apiHarness struct {
	agenda  *application.Agenda
	handler http.Handler
}

// newAPI serves an agenda loaded from doc over an in-memory store.
func newAPI(t *testing.T, doc document.Document) *apiHarness {
	t.Helper()

	ctx := context.Background()
	store := memory.New()
	data, err := document.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	if err := store.Save(ctx, persistence.DefaultKey, data); err != nil {
		t.Fatalf("store seed: %v", err)
	}

	agenda, err := application.NewAgenda(ctx, application.Options{
		Store:       store,
		Hasher:      credential.Legacy{},
		IDGenerator: testfixtures.NewIDGenerator("id").NextFunc(),
		Now:         testfixtures.NewClock(testfixtures.ReferenceTime()).NowFunc(),
		Logger:      quietLogger,
	})
	if err != nil {
		t.Fatalf("NewAgenda returned error: %v", err)
	}

	return &apiHarness{
		agenda:  agenda,
		handler: NewHandler(agenda, ServerOptions{Logger: quietLogger}),
	}
}

func newAdminAPI(t *testing.T, opts ...testfixtures.DocumentOption) *apiHarness {
	t.Helper()
	opts = append([]testfixtures.DocumentOption{testfixtures.WithAuthenticated(testfixtures.AdminID)}, opts...)
	return newAPI(t, testfixtures.NewDocument(opts...))
}

func (h *apiHarness) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	case []byte:
		reader = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestSessionEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("login logout round trip", func(t *testing.T) {
		t.Parallel()

		api := newAPI(t, testfixtures.NewDocument())

		rec := api.do(t, http.MethodGet, "/session", nil)
		expectStatus(t, rec, http.StatusOK)
		if session := decodeBody[sessionResponse](t, rec); session.Authenticated || len(session.Views) != 0 {
			t.Fatalf("expected anonymous session, got %+v", session)
		}

		rec = api.do(t, http.MethodPost, "/login", loginRequest{Email: "ADMIN@local", Password: testfixtures.AdminPassword})
		expectStatus(t, rec, http.StatusOK)
		session := decodeBody[sessionResponse](t, rec)
		if !session.Authenticated || session.User == nil || session.User.ID != testfixtures.AdminID {
			t.Fatalf("unexpected session %+v", session)
		}
		if strings.Join(session.Views, ",") != "agenda,clients,finance,users,config" {
			t.Fatalf("unexpected admin views %v", session.Views)
		}

		expectStatus(t, api.do(t, http.MethodPost, "/logout", nil), http.StatusNoContent)
		expectStatus(t, api.do(t, http.MethodGet, "/clients", nil), http.StatusUnauthorized)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		t.Parallel()

		api := newAPI(t, testfixtures.NewDocument())
		rec := api.do(t, http.MethodPost, "/login", loginRequest{Email: testfixtures.AdminEmail, Password: "wrong"})
		expectStatus(t, rec, http.StatusUnauthorized)
		if resp := decodeBody[errorResponse](t, rec); resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("unexpected error response %+v", resp)
		}
		if _, ok := api.agenda.CurrentUser(); ok {
			t.Fatalf("expected nobody authenticated")
		}
	})

	t.Run("malformed login body", func(t *testing.T) {
		t.Parallel()

		api := newAPI(t, testfixtures.NewDocument())
		expectStatus(t, api.do(t, http.MethodPost, "/login", "{"), http.StatusBadRequest)
	})

	t.Run("attendant sees operational views only", func(t *testing.T) {
		t.Parallel()

		attendant := testfixtures.NewUser(testfixtures.WithUserEmail("ana@example.com"))
		api := newAPI(t, testfixtures.NewDocument(testfixtures.WithUsers(attendant)))

		rec := api.do(t, http.MethodPost, "/login", loginRequest{Email: attendant.Email, Password: document.DefaultUserPassword})
		expectStatus(t, rec, http.StatusOK)
		if views := decodeBody[sessionResponse](t, rec).Views; strings.Join(views, ",") != "agenda,clients,finance" {
			t.Fatalf("unexpected attendant views %v", views)
		}
	})
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	t.Parallel()

	api := newAPI(t, testfixtures.NewDocument())
	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/agenda"},
		{http.MethodGet, "/bookings"},
		{http.MethodPost, "/bookings"},
		{http.MethodDelete, "/bookings/b-1"},
		{http.MethodGet, "/clients"},
		{http.MethodPost, "/clients"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/finance"},
		{http.MethodGet, "/config"},
		{http.MethodGet, "/backup"},
		{http.MethodPost, "/reset"},
	}

	for _, route := range routes {
		rec := api.do(t, route.method, route.target, "{}")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.target, rec.Code)
		}
		if resp := decodeBody[errorResponse](t, rec); resp.ErrorCode != "AUTH_REQUIRED" {
			t.Fatalf("%s %s: unexpected error response %+v", route.method, route.target, resp)
		}
	}
}

func TestBookingEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("create conflict list and delete", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t)
		req := bookingRequest{Date: testfixtures.ReferenceDate, Time: "9:00", WalkInName: "Pedro"}

		rec := api.do(t, http.MethodPost, "/bookings", req)
		expectStatus(t, rec, http.StatusCreated)
		created := decodeBody[bookingResponse](t, rec).Booking
		if created.ID != "id-1" || created.Time != "09:00" || created.Duration != application.ShortDuration || created.UserID != testfixtures.AdminID {
			t.Fatalf("unexpected booking %+v", created)
		}

		rec = api.do(t, http.MethodPost, "/bookings", req)
		expectStatus(t, rec, http.StatusConflict)
		if resp := decodeBody[errorResponse](t, rec); resp.ErrorCode != "SLOT_CONFLICT" {
			t.Fatalf("unexpected conflict response %+v", resp)
		}

		rec = api.do(t, http.MethodGet, "/bookings?date="+testfixtures.ReferenceDate, nil)
		expectStatus(t, rec, http.StatusOK)
		if list := decodeBody[listBookingsResponse](t, rec).Bookings; len(list) != 1 || list[0].WalkInName != "Pedro" {
			t.Fatalf("unexpected booking list %+v", list)
		}

		rec = api.do(t, http.MethodGet, "/bookings", nil)
		expectStatus(t, rec, http.StatusOK)
		if counts := decodeBody[bookingCountsResponse](t, rec).Counts; counts[testfixtures.ReferenceDate] != 1 {
			t.Fatalf("unexpected counts %v", counts)
		}

		expectStatus(t, api.do(t, http.MethodDelete, "/bookings/"+created.ID, nil), http.StatusNoContent)
		expectStatus(t, api.do(t, http.MethodDelete, "/bookings/"+created.ID, nil), http.StatusNotFound)
	})

	t.Run("update keeps the identifier", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t)
		rec := api.do(t, http.MethodPost, "/bookings", bookingRequest{Date: testfixtures.ReferenceDate, Time: "10:00", WalkInName: "Pedro"})
		expectStatus(t, rec, http.StatusCreated)
		id := decodeBody[bookingResponse](t, rec).Booking.ID

		rec = api.do(t, http.MethodPost, "/bookings", bookingRequest{ID: id, Date: testfixtures.ReferenceDate, Time: "10:00", Duration: 60, WalkInName: "Pedro"})
		expectStatus(t, rec, http.StatusOK)
		if updated := decodeBody[bookingResponse](t, rec).Booking; updated.ID != id || updated.Duration != 60 {
			t.Fatalf("unexpected update %+v", updated)
		}
	})

	t.Run("validation errors are localized", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t)
		rec := api.do(t, http.MethodPost, "/bookings", bookingRequest{Date: "15/03/2024", Time: "09:00"})
		expectStatus(t, rec, http.StatusUnprocessableEntity)
		resp := decodeBody[errorResponse](t, rec)
		if resp.Errors["date"] != "Data inválida (use AAAA-MM-DD)." {
			t.Fatalf("unexpected date error %+v", resp.Errors)
		}
		if resp.Errors["client"] != "Informe um cliente cadastrado OU um nome livre." {
			t.Fatalf("unexpected client error %+v", resp.Errors)
		}

		expectStatus(t, api.do(t, http.MethodGet, "/bookings?date=tomorrow", nil), http.StatusUnprocessableEntity)
	})
}

func TestAgendaView(t *testing.T) {
	t.Parallel()

	client := testfixtures.NewClient(testfixtures.WithClientName("Maria"))
	booking := testfixtures.NewBooking(
		testfixtures.WithBookingSlot(testfixtures.ReferenceDate, "08:30"),
		testfixtures.WithBookingUser(testfixtures.AdminID),
		testfixtures.WithBookingClient(client.ID),
	)
	api := newAdminAPI(t, testfixtures.WithClients(client), testfixtures.WithBookings(booking))

	rec := api.do(t, http.MethodGet, "/agenda", nil)
	expectStatus(t, rec, http.StatusOK)
	resp := decodeBody[agendaResponse](t, rec)

	if resp.Day.Date != testfixtures.ReferenceDate {
		t.Fatalf("expected today's agenda, got %s", resp.Day.Date)
	}
	if len(resp.Day.Slots) != 21 {
		t.Fatalf("expected 21 slots for the default workday, got %d", len(resp.Day.Slots))
	}
	slot := resp.Day.Slots[1]
	if slot.Free || slot.Booking == nil || slot.Booking.ID != booking.ID || slot.ClientName != "Maria" || slot.UserName != document.DefaultAdminName {
		t.Fatalf("unexpected occupied slot %+v", slot)
	}
	if !resp.Day.Slots[0].Free {
		t.Fatalf("expected 08:00 to be free")
	}

	if resp.Month.Year != 2024 || resp.Month.Month != 3 || len(resp.Month.Cells) != calendar.GridCells {
		t.Fatalf("unexpected month %+v", resp.Month)
	}
	if resp.Month.Previous != "2024-02-01" || resp.Month.Next != "2024-04-01" {
		t.Fatalf("unexpected navigation %s / %s", resp.Month.Previous, resp.Month.Next)
	}
	for _, cell := range resp.Month.Cells {
		if cell.Date == testfixtures.ReferenceDate {
			if !cell.Today || !cell.Selected || cell.Count != 1 {
				t.Fatalf("unexpected reference cell %+v", cell)
			}
		}
	}

	expectStatus(t, api.do(t, http.MethodGet, "/agenda?date=2024-02-30", nil), http.StatusUnprocessableEntity)
}

func TestClientEndpoints(t *testing.T) {
	t.Parallel()

	api := newAdminAPI(t)

	rec := api.do(t, http.MethodPost, "/clients", clientDTO{Name: "Maria", Phone: "123"})
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[clientResponse](t, rec).Client

	expectStatus(t, api.do(t, http.MethodPost, "/clients", clientDTO{Name: "  "}), http.StatusUnprocessableEntity)
	expectStatus(t, api.do(t, http.MethodPost, "/clients", clientDTO{ID: created.ID, Name: "Maria Souza"}), http.StatusOK)

	rec = api.do(t, http.MethodGet, "/clients", nil)
	expectStatus(t, rec, http.StatusOK)
	clients := decodeBody[listClientsResponse](t, rec).Clients
	if len(clients) != 1 || clients[0].Name != "Maria Souza" {
		t.Fatalf("unexpected clients %+v", clients)
	}

	expectStatus(t, api.do(t, http.MethodDelete, "/clients/"+created.ID, nil), http.StatusNoContent)
	expectStatus(t, api.do(t, http.MethodDelete, "/clients/"+created.ID, nil), http.StatusNotFound)
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("administrator manages users", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t)
		rec := api.do(t, http.MethodPost, "/users", userRequest{Name: "Ana", Email: "ana@example.com", Role: "atendente"})
		expectStatus(t, rec, http.StatusCreated)
		created := decodeBody[userResponse](t, rec).User
		if created.Role != "atendente" || created.CreatedAt == "" {
			t.Fatalf("unexpected user %+v", created)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Fatalf("response must not expose credentials: %s", rec.Body.String())
		}

		rec = api.do(t, http.MethodPost, "/users", userRequest{Name: "Outra", Email: "ANA@example.com", Role: "admin"})
		expectStatus(t, rec, http.StatusUnprocessableEntity)
		if msg := decodeBody[errorResponse](t, rec).Errors["email"]; msg != "Este e-mail já está em uso." {
			t.Fatalf("unexpected email error %q", msg)
		}

		rec = api.do(t, http.MethodGet, "/users", nil)
		expectStatus(t, rec, http.StatusOK)
		if users := decodeBody[listUsersResponse](t, rec).Users; len(users) != 2 {
			t.Fatalf("expected two users, got %+v", users)
		}

		rec = api.do(t, http.MethodDelete, "/users/"+testfixtures.AdminID, nil)
		expectStatus(t, rec, http.StatusForbidden)
		if resp := decodeBody[errorResponse](t, rec); resp.ErrorCode != "AUTH_SELF_DELETION" {
			t.Fatalf("unexpected self deletion response %+v", resp)
		}

		expectStatus(t, api.do(t, http.MethodDelete, "/users/"+created.ID, nil), http.StatusNoContent)
	})

	t.Run("attendant is forbidden", func(t *testing.T) {
		t.Parallel()

		attendant := testfixtures.NewUser()
		api := newAPI(t, testfixtures.NewDocument(
			testfixtures.WithUsers(attendant),
			testfixtures.WithAuthenticated(attendant.ID),
		))

		rec := api.do(t, http.MethodGet, "/users", nil)
		expectStatus(t, rec, http.StatusForbidden)
		if resp := decodeBody[errorResponse](t, rec); resp.ErrorCode != "AUTH_FORBIDDEN" {
			t.Fatalf("unexpected response %+v", resp)
		}
		expectStatus(t, api.do(t, http.MethodGet, "/config", nil), http.StatusForbidden)
		expectStatus(t, api.do(t, http.MethodGet, "/backup", nil), http.StatusForbidden)
		expectStatus(t, api.do(t, http.MethodGet, "/finance", nil), http.StatusOK)
	})
}

func TestFinanceEndpoints(t *testing.T) {
	t.Parallel()

	api := newAdminAPI(t)

	rec := api.do(t, http.MethodPost, "/finance", financeEntryDTO{Date: testfixtures.ReferenceDate, Kind: "entrada", Amount: 199.99, Description: "Consulta"})
	expectStatus(t, rec, http.StatusCreated)
	income := decodeBody[financeEntryResponse](t, rec).Entry
	if income.Amount != 199.99 {
		t.Fatalf("unexpected amount %v", income.Amount)
	}

	rec = api.do(t, http.MethodPost, "/finance", financeEntryDTO{Date: "2024-03-14", Kind: "saida", Amount: 50.5})
	expectStatus(t, rec, http.StatusCreated)

	expectStatus(t, api.do(t, http.MethodPost, "/finance", financeEntryDTO{Date: testfixtures.ReferenceDate, Kind: "other"}), http.StatusUnprocessableEntity)

	rec = api.do(t, http.MethodGet, "/finance", nil)
	expectStatus(t, rec, http.StatusOK)
	resp := decodeBody[financeResponse](t, rec)
	if len(resp.Entries) != 2 || resp.Entries[0].Date != "2024-03-14" {
		t.Fatalf("expected entries ordered by date, got %+v", resp.Entries)
	}
	if resp.Income != 199.99 || resp.Expense != 50.5 || resp.Balance != 149.49 {
		t.Fatalf("unexpected totals %+v", resp)
	}

	expectStatus(t, api.do(t, http.MethodDelete, "/finance/"+income.ID, nil), http.StatusNoContent)
	expectStatus(t, api.do(t, http.MethodDelete, "/finance/"+income.ID, nil), http.StatusNotFound)
}

func TestSettingsEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("config read and update", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t)
		rec := api.do(t, http.MethodGet, "/config", nil)
		expectStatus(t, rec, http.StatusOK)
		if cfg := decodeBody[configDTO](t, rec); cfg != configDTO(document.DefaultConfig()) {
			t.Fatalf("unexpected config %+v", cfg)
		}

		rec = api.do(t, http.MethodPut, "/config", configDTO{Start: "9:00", End: "12:00", Step: 60})
		expectStatus(t, rec, http.StatusOK)
		if cfg := decodeBody[configDTO](t, rec); cfg.Start != "09:00" {
			t.Fatalf("expected normalized start, got %+v", cfg)
		}

		rec = api.do(t, http.MethodPut, "/config", configDTO{Start: "12:00", End: "09:00", Step: 0})
		expectStatus(t, rec, http.StatusUnprocessableEntity)
		if errs := decodeBody[errorResponse](t, rec).Errors; errs["end"] == "" || errs["step"] == "" {
			t.Fatalf("expected end and step errors, got %+v", errs)
		}
	})

	t.Run("backup download and restore", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t, testfixtures.WithClients(testfixtures.NewClient(testfixtures.WithClientName("Maria"))))

		rec := api.do(t, http.MethodGet, "/backup", nil)
		expectStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, BackupFilename) {
			t.Fatalf("unexpected Content-Disposition %q", got)
		}
		backup := rec.Body.Bytes()

		expectStatus(t, api.do(t, http.MethodDelete, "/clients/"+api.agenda.ListClients()[0].ID, nil), http.StatusNoContent)

		rec = api.do(t, http.MethodPost, "/backup", "not json")
		expectStatus(t, rec, http.StatusBadRequest)
		if msg := decodeBody[errorResponse](t, rec).Message; msg != "Arquivo inválido." {
			t.Fatalf("unexpected message %q", msg)
		}

		expectStatus(t, api.do(t, http.MethodPost, "/backup", backup), http.StatusNoContent)
		if clients := api.agenda.ListClients(); len(clients) != 1 || clients[0].Name != "Maria" {
			t.Fatalf("expected restored client, got %+v", clients)
		}
	})

	t.Run("reset logs everybody out", func(t *testing.T) {
		t.Parallel()

		api := newAdminAPI(t, testfixtures.WithClients(testfixtures.NewClient()))
		expectStatus(t, api.do(t, http.MethodPost, "/reset", nil), http.StatusNoContent)

		rec := api.do(t, http.MethodGet, "/session", nil)
		if decodeBody[sessionResponse](t, rec).Authenticated {
			t.Fatalf("expected anonymous session after reset")
		}
		if len(api.agenda.ListClients()) != 0 {
			t.Fatalf("expected clients to be cleared")
		}
	})
}

func TestDemoEndpoint(t *testing.T) {
	t.Parallel()

	api := newAPI(t, testfixtures.NewDocument())
	expectStatus(t, api.do(t, http.MethodPost, "/demo", nil), http.StatusNoContent)
	if len(api.agenda.ListClients()) != 2 {
		t.Fatalf("expected demo clients")
	}

	rec := api.do(t, http.MethodPost, "/demo", nil)
	expectStatus(t, rec, http.StatusConflict)
}
