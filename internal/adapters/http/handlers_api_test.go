package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/application/orchestrators"
	alertDomain "lifeline/internal/domain/alert"
	donationDomain "lifeline/internal/domain/donation"
	eventDomain "lifeline/internal/domain/event"
	userDomain "lifeline/internal/domain/user"
	volunteerDomain "lifeline/internal/domain/volunteer"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rr.Body.String())
	}
	return body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Auth ---

func TestHandleLogin_CreatesRosterEntryAndSession(t *testing.T) {
	us, _, _, _, _, _ := newTestStores()

	req := postJSON("/api/auth/login", `{"email":"maria@example.com","password":"secret"}`)
	rr := httptest.NewRecorder()
	handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["name"] != "maria" {
		t.Errorf("name = %v, want maria", body["name"])
	}
	if body["role"] != userDomain.RoleUser {
		t.Errorf("role = %v, want %s", body["role"], userDomain.RoleUser)
	}
	if len(us.users) != 1 {
		t.Errorf("roster size = %d, want 1", len(us.users))
	}

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "lifeline_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if _, ok := sessions.Get(sessionCookie.Value); !ok {
		t.Error("cookie token does not resolve to a stored session")
	}
}

func TestHandleLogin_AdminAllowListForcesRole(t *testing.T) {
	newTestStores()

	req := postJSON("/api/auth/login", `{"email":"admin@lifeline.ph","password":"secret"}`)
	rr := httptest.NewRecorder()
	handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body := decodeBody(t, rr); body["role"] != userDomain.RoleAdmin {
		t.Errorf("role = %v, want %s", body["role"], userDomain.RoleAdmin)
	}
}

func TestHandleLogin_BadInput(t *testing.T) {
	newTestStores()

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"email":`},
		{"invalid email", `{"email":"not-an-email","password":"x"}`},
		{"missing password", `{"email":"maria@example.com","password":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleLogin(rr, postJSON("/api/auth/login", tt.body))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleRegister_DuplicateEmailConflicts(t *testing.T) {
	newTestStores()

	body := `{"name":"Maria Santos","email":"maria@example.com","password":"secret1","confirm_password":"secret1"}`
	rr := httptest.NewRecorder()
	handleRegister(rr, postJSON("/api/auth/register", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handleRegister(rr, postJSON("/api/auth/register", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("second register status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestHandleMe_RestoresAdminRole(t *testing.T) {
	us, _, _, _, _, _ := newTestStores()
	us.users["a1"] = userDomain.User{
		ID: "a1", Name: "coordinator", Email: "coordinator@lifeline.ph", Role: userDomain.RoleUser,
	}

	sess := middleware.Session{UserID: "a1", Name: "coordinator", Email: "coordinator@lifeline.ph", Role: userDomain.RoleUser, CreatedAt: time.Now()}
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	handleMe(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body := decodeBody(t, rr); body["role"] != userDomain.RoleAdmin {
		t.Errorf("role = %v, want %s", body["role"], userDomain.RoleAdmin)
	}
	if us.users["a1"].Role != userDomain.RoleAdmin {
		t.Error("restored role was not persisted")
	}
}

func TestHandleProfile_DeleteRequiresConfirmation(t *testing.T) {
	us, _, _, _, _, _ := newTestStores()
	us.users["u1"] = userDomain.User{ID: "u1", Name: "Maria Santos", Email: "maria@example.com", Role: userDomain.RoleUser}

	sess := userSession("maria@example.com")
	sess.UserID = "u1"

	req := httptest.NewRequest("DELETE", "/api/auth/profile", strings.NewReader(`{"confirm":false}`))
	req = req.WithContext(middleware.ContextWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	handleProfile(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed delete status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if _, ok := us.users["u1"]; !ok {
		t.Fatal("unconfirmed delete removed the account")
	}

	req = httptest.NewRequest("DELETE", "/api/auth/profile", strings.NewReader(`{"confirm":true}`))
	req = req.WithContext(middleware.ContextWithSession(req.Context(), sess))
	rr = httptest.NewRecorder()
	handleProfile(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, ok := us.users["u1"]; ok {
		t.Fatal("confirmed delete left the account in place")
	}
}

// --- Volunteer pipeline ---

func TestHandleVolunteerApply_AssignsChapterAndCode(t *testing.T) {
	_, as, _, _, _, _ := newTestStores()

	body := `{
		"name": "Maria Santos",
		"email": "maria@example.com",
		"phone": "09171234567",
		"address": "123 Taft Avenue, Manila",
		"skills": ["First Aid", "Logistics"],
		"days": ["Saturday"],
		"preferred_time": "morning"
	}`
	rr := httptest.NewRecorder()
	handleVolunteerApply(rr, postJSON("/api/volunteer/apply", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	code, _ := resp["reference_code"].(string)
	if !strings.HasPrefix(code, "VOL-") {
		t.Errorf("reference_code = %q, want VOL- prefix", code)
	}
	if resp["assigned_chapter"] != "Manila Chapter" {
		t.Errorf("assigned_chapter = %v, want Manila Chapter", resp["assigned_chapter"])
	}
	if resp["status"] != volunteerDomain.StatusPending {
		t.Errorf("status = %v, want %s", resp["status"], volunteerDomain.StatusPending)
	}
	if len(as.apps) != 1 {
		t.Errorf("stored applications = %d, want 1", len(as.apps))
	}
}

func TestHandleVolunteerApply_InvalidPhoneRejected(t *testing.T) {
	_, as, _, _, _, _ := newTestStores()

	body := `{"name":"Maria Santos","email":"maria@example.com","phone":"12345","address":"Manila","skills":["First Aid","Logistics"]}`
	rr := httptest.NewRecorder()
	handleVolunteerApply(rr, postJSON("/api/volunteer/apply", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(as.apps) != 0 {
		t.Error("invalid submission was stored")
	}
}

func TestHandleShiftCancel_OwnershipEnforced(t *testing.T) {
	_, as, _, _, _, _ := newTestStores()
	as.shifts = map[string]volunteerDomain.Shift{
		"sh-1": {ID: "sh-1", Email: "other@example.com", Role: "Blood Drive Assistant", Date: "2030-01-01", Time: "9:00 AM", Location: "Manila", Status: volunteerDomain.ShiftScheduled},
	}

	req := postJSON("/api/volunteer/shifts/cancel", `{"shift_id":"sh-1"}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), userSession("maria@example.com")))
	rr := httptest.NewRecorder()
	handleShiftCancel(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if as.shifts["sh-1"].Status != volunteerDomain.ShiftScheduled {
		t.Error("shift status changed despite ownership rejection")
	}
}

func TestHandleAdminApplications_ReviewApproves(t *testing.T) {
	_, as, _, _, _, _ := newTestStores()
	as.apps = map[string]volunteerDomain.Application{
		"app-1": {
			ID: "app-1",
			Personal: volunteerDomain.Personal{
				Name: "Maria Santos", Email: "maria@example.com", Phone: "09171234567", Address: "Manila",
			},
			Skills:          volunteerDomain.Skills{Selected: []string{"First Aid", "Logistics"}},
			ReferenceCode:   "VOL-12345678",
			Status:          volunteerDomain.StatusPending,
			AssignedChapter: "Manila Chapter",
		},
	}

	req := postJSON("/api/admin/applications", `{"application_id":"app-1","status":"approved"}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminApplications(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if as.apps["app-1"].Status != volunteerDomain.StatusApproved {
		t.Errorf("stored status = %q, want %q", as.apps["app-1"].Status, volunteerDomain.StatusApproved)
	}
}

// --- Events ---

func seedActiveEvent(es *mockEventStore, id string, registered, max int) {
	es.events[id] = eventDomain.Event{
		ID:                     id,
		Title:                  "Blood Donation Drive",
		Type:                   eventDomain.TypeBlood,
		Date:                   time.Now().Format("2006-01-02"),
		Time:                   "9:00 AM",
		Location:               "SM Mall of Asia, Pasay City",
		MaxParticipants:        max,
		RegisteredParticipants: registered,
		Status:                 eventDomain.StatusActive,
		CreatedAt:              time.Now(),
	}
}

func TestHandleEvents_ReportsAvailabilityLabel(t *testing.T) {
	_, _, es, _, _, _ := newTestStores()
	seedActiveEvent(es, "ev-open", 48, 50)
	seedActiveEvent(es, "ev-full", 50, 50)

	req := httptest.NewRequest("GET", "/api/events", nil)
	rr := httptest.NewRecorder()
	handleEvents(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	labels := map[string]string{}
	for _, raw := range decodeBody(t, rr)["events"].([]any) {
		ev := raw.(map[string]any)
		labels[ev["id"].(string)] = ev["availability"].(string)
	}
	if labels["ev-open"] != "2 spots left" {
		t.Errorf("open event availability = %q, want %q", labels["ev-open"], "2 spots left")
	}
	if labels["ev-full"] != "Full" {
		t.Errorf("full event availability = %q, want %q", labels["ev-full"], "Full")
	}
}

func TestHandleEventRegister_FullEventConflicts(t *testing.T) {
	_, _, es, _, _, _ := newTestStores()
	seedActiveEvent(es, "ev-1", 50, 50)

	body := `{"event_id":"ev-1","name":"Juan Cruz","email":"juan@example.com","phone":"09181234567"}`
	rr := httptest.NewRecorder()
	handleEventRegister(rr, postJSON("/api/events/register", body))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if es.events["ev-1"].RegisteredParticipants != 50 {
		t.Error("registered count moved on a rejected registration")
	}
	if len(es.regs) != 0 {
		t.Error("registration row stored despite rejection")
	}
}

func TestHandleEventRegister_UnknownEventNotFound(t *testing.T) {
	newTestStores()

	body := `{"event_id":"nope","name":"Juan Cruz","email":"juan@example.com","phone":"09181234567"}`
	rr := httptest.NewRecorder()
	handleEventRegister(rr, postJSON("/api/events/register", body))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleEventRegister_Success(t *testing.T) {
	_, _, es, _, _, _ := newTestStores()
	seedActiveEvent(es, "ev-1", 0, 50)

	body := `{"event_id":"ev-1","name":"Juan Cruz","email":"juan@example.com","phone":"09181234567"}`
	rr := httptest.NewRecorder()
	handleEventRegister(rr, postJSON("/api/events/register", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	code, _ := decodeBody(t, rr)["reference_code"].(string)
	if !strings.HasPrefix(code, "REG-") {
		t.Errorf("reference_code = %q, want REG- prefix", code)
	}
	if es.events["ev-1"].RegisteredParticipants != 1 {
		t.Errorf("registered = %d, want 1", es.events["ev-1"].RegisteredParticipants)
	}
}

// --- Donations ---

func TestHandleDonate_AppendsAndReportsTotal(t *testing.T) {
	_, _, _, _, ds, _ := newTestStores()
	ds.entries = []donationDomain.Donation{
		{ID: "d0", Amount: 1000, Campaign: donationDomain.CampaignRelief, Name: "Prior", Email: "prior@example.com", ReferenceCode: "DON-00000000", Date: time.Now()},
	}

	body := `{"amount":500,"campaign":"relief","name":"Juan Cruz","email":"juan@example.com"}`
	rr := httptest.NewRecorder()
	handleDonate(rr, postJSON("/api/donations", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["campaign_total"] != float64(1500) {
		t.Errorf("campaign_total = %v, want 1500", resp["campaign_total"])
	}
	if code, _ := resp["reference_code"].(string); !strings.HasPrefix(code, "DON-") {
		t.Errorf("reference_code = %q, want DON- prefix", code)
	}
}

func TestHandleDonate_BelowMinimumRejected(t *testing.T) {
	_, _, _, _, ds, _ := newTestStores()

	body := `{"amount":99,"campaign":"relief","name":"Juan Cruz","email":"juan@example.com"}`
	rr := httptest.NewRecorder()
	handleDonate(rr, postJSON("/api/donations", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(ds.entries) != 0 {
		t.Error("rejected donation reached the ledger")
	}
}

func TestHandleDonationProgress_DerivesPercent(t *testing.T) {
	_, _, _, _, ds, _ := newTestStores()
	ds.entries = []donationDomain.Donation{
		{ID: "d1", Amount: donationDomain.CampaignTargets[donationDomain.CampaignRelief] / 2, Campaign: donationDomain.CampaignRelief, Name: "x", Email: "x@example.com", Date: time.Now()},
	}

	req := httptest.NewRequest("GET", "/api/donations/progress", nil)
	rr := httptest.NewRecorder()
	handleDonationProgress(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	for _, raw := range decodeBody(t, rr)["campaigns"].([]any) {
		c := raw.(map[string]any)
		if c["campaign"] == donationDomain.CampaignRelief && c["percent"] != float64(50) {
			t.Errorf("relief percent = %v, want 50", c["percent"])
		}
	}
}

// --- Alerts ---

func TestHandleAdminBroadcast_BumpsUnreadAndFeeds(t *testing.T) {
	_, _, _, _, _, als := newTestStores()
	als.subs["sub@example.com"] = alertDomain.Subscription{ID: "s1", Email: "sub@example.com", Region: "NCR", SubscribedAt: time.Now()}

	body := `{"type":"typhoon","title":"Signal No. 3","message":"Typhoon **Pepito** approaching Luzon.","priority":"critical","instructions":["Stay indoors"]}`
	req := postJSON("/api/admin/alerts", body)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminBroadcast(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("broadcast status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(als.alerts) != 1 {
		t.Fatalf("alert log size = %d, want 1", len(als.alerts))
	}
	if als.subs["sub@example.com"].UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", als.subs["sub@example.com"].UnreadCount)
	}

	// The feed returns the alert with the markdown rendered.
	feedReq := httptest.NewRequest("GET", "/api/alerts/recent", nil)
	feedRR := httptest.NewRecorder()
	handleRecentAlerts(feedRR, feedReq)
	if feedRR.Code != http.StatusOK {
		t.Fatalf("feed status = %d, want %d", feedRR.Code, http.StatusOK)
	}
	feed := decodeBody(t, feedRR)["alerts"].([]any)
	if len(feed) != 1 {
		t.Fatalf("feed size = %d, want 1", len(feed))
	}
	html := feed[0].(map[string]any)["message_html"].(string)
	if !strings.Contains(html, "<strong>Pepito</strong>") {
		t.Errorf("message_html = %q, want bold rendering of Pepito", html)
	}
}

func TestHandleAlertSubscribe_DuplicateEmailIsNoop(t *testing.T) {
	_, _, _, _, _, als := newTestStores()
	als.subs["sub@example.com"] = alertDomain.Subscription{ID: "s1", Email: "sub@example.com", Region: "NCR", UnreadCount: 3, SubscribedAt: time.Now()}

	body := `{"email":"sub@example.com","region":"Cebu"}`
	rr := httptest.NewRecorder()
	handleAlertSubscribe(rr, postJSON("/api/alerts/subscribe", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["region"] != "NCR" {
		t.Errorf("region = %v, want the stored NCR", resp["region"])
	}
	if resp["unread_count"] != float64(3) {
		t.Errorf("unread_count = %v, want 3", resp["unread_count"])
	}
	if len(als.subs) != 1 {
		t.Errorf("subscriptions = %d, want 1", len(als.subs))
	}
	if stored := als.subs["sub@example.com"]; stored.ID != "s1" || stored.Region != "NCR" {
		t.Errorf("stored subscription changed: %+v", stored)
	}
}

func TestHandleAlertsRead_ResetsUnread(t *testing.T) {
	_, _, _, _, _, als := newTestStores()
	als.subs["maria@example.com"] = alertDomain.Subscription{ID: "s1", Email: "maria@example.com", Region: "NCR", UnreadCount: 2, SubscribedAt: time.Now()}

	req := postJSON("/api/alerts/read", `{}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), userSession("maria@example.com")))
	rr := httptest.NewRecorder()
	handleAlertsRead(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if als.subs["maria@example.com"].UnreadCount != 0 {
		t.Errorf("unread = %d, want 0", als.subs["maria@example.com"].UnreadCount)
	}
}

// --- Admin overview ---

func TestHandleAdminOverview_CountsEverything(t *testing.T) {
	us, as, es, _, ds, als := newTestStores()
	us.users["u1"] = userDomain.User{ID: "u1", Name: "maria", Email: "maria@example.com", Role: userDomain.RoleUser}
	as.apps = map[string]volunteerDomain.Application{
		"app-1": {ID: "app-1", Personal: volunteerDomain.Personal{Name: "Maria Santos", Email: "maria@example.com", Phone: "09171234567"}, Skills: volunteerDomain.Skills{Selected: []string{"a", "b"}}, Status: volunteerDomain.StatusPending, SubmittedAt: time.Now()},
	}
	seedActiveEvent(es, "ev-1", 1, 50)
	es.regs = []eventDomain.Registration{{ID: "r1", EventID: "ev-1", Email: "juan@example.com"}}
	ds.entries = []donationDomain.Donation{{ID: "d1", Amount: 500, Campaign: donationDomain.CampaignRelief, Name: "x", Email: "x@example.com", Date: time.Now()}}
	als.alerts = []alertDomain.Alert{{ID: "a1", Type: "weather", Title: "t", Message: "m", Priority: alertDomain.PriorityInfo, CreatedAt: time.Now()}}

	req := httptest.NewRequest("GET", "/api/admin/overview", nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminOverview(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	checks := map[string]float64{
		"total_users":         1,
		"total_applications":  1,
		"total_events":        1,
		"total_registrations": 1,
		"total_raised":        500,
		"donation_count":      1,
		"alert_count":         1,
	}
	for key, want := range checks {
		if resp[key] != want {
			t.Errorf("%s = %v, want %v", key, resp[key], want)
		}
	}
	if len(resp["pending_applications"].([]any)) != 1 {
		t.Errorf("pending_applications = %v, want one entry", resp["pending_applications"])
	}
}

// --- Services ---

// seedServiceCatalog loads the production catalog into the mock store.
func seedServiceCatalog(t *testing.T, ss *mockServiceStore) {
	t.Helper()
	deps := orchestrators.SeedServicesDeps{ServiceStore: ss, GenerateID: generateID}
	if err := orchestrators.ExecuteSeedServices(context.Background(), deps); err != nil {
		t.Fatalf("seed services: %v", err)
	}
}

func TestHandleServices_FiltersByQuery(t *testing.T) {
	_, _, _, ss, _, _ := newTestStores()
	seedServiceCatalog(t, ss)

	req := httptest.NewRequest("GET", "/api/services?q=blood", nil)
	rr := httptest.NewRecorder()
	handleServices(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody(t, rr)
	if resp["total"] != float64(6) {
		t.Errorf("total = %v, want 6", resp["total"])
	}
	matched := resp["matched"].(float64)
	if matched == 0 || matched == 6 {
		t.Errorf("matched = %v, want a strict subset of the catalog", matched)
	}
}

func TestHandleServices_RendersDetailsMarkdown(t *testing.T) {
	_, _, _, ss, _, _ := newTestStores()
	seedServiceCatalog(t, ss)

	req := httptest.NewRequest("GET", "/api/services", nil)
	rr := httptest.NewRecorder()
	handleServices(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody(t, rr)
	services := resp["services"].([]any)
	if len(services) != 6 {
		t.Fatalf("len(services) = %d, want 6", len(services))
	}
	first := services[0].(map[string]any)
	html, _ := first["details_html"].(string)
	if !strings.Contains(html, "<") {
		t.Errorf("details_html = %q, want rendered HTML", html)
	}
}

// --- Admin user management ---

func TestHandleAdminUsers_ListsRoster(t *testing.T) {
	us, _, _, _, _, _ := newTestStores()
	us.users = map[string]userDomain.User{
		"u-1": {ID: "u-1", Name: "Maria", Email: "maria@example.com", Role: userDomain.RoleUser},
		"u-2": {ID: "u-2", Name: "Jose", Email: "jose@example.com", Role: userDomain.RoleVolunteer},
	}

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody(t, rr)
	if resp["total"] != float64(2) {
		t.Errorf("total = %v, want 2", resp["total"])
	}
	if len(resp["users"].([]any)) != 2 {
		t.Errorf("users length = %d, want 2", len(resp["users"].([]any)))
	}
}

func TestHandleAdminUsers_DeleteRefusesAdmins(t *testing.T) {
	us, _, _, _, _, _ := newTestStores()
	us.users = map[string]userDomain.User{
		"u-1":     {ID: "u-1", Name: "Maria", Email: "maria@example.com", Role: userDomain.RoleUser},
		"admin-1": {ID: "admin-1", Name: "admin", Email: "admin@lifeline.ph", Role: userDomain.RoleAdmin},
	}

	req := postJSON("/api/admin/users", `{"user_id":"admin-1"}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminUsers(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("deleting an admin: status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if _, ok := us.users["admin-1"]; !ok {
		t.Error("admin row was deleted")
	}

	req = postJSON("/api/admin/users", `{"user_id":"u-1"}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr = httptest.NewRecorder()
	handleAdminUsers(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("deleting a user: status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, ok := us.users["u-1"]; ok {
		t.Error("user row survived deletion")
	}
}

func TestHandleAdminUsers_DeleteUnknownNotFound(t *testing.T) {
	newTestStores()

	req := postJSON("/api/admin/users", `{"user_id":"ghost"}`)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), adminSession()))
	rr := httptest.NewRecorder()
	handleAdminUsers(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleRegister_StartsSession(t *testing.T) {
	newTestStores()

	body := `{"name":"Maria Santos","email":"maria@example.com","password":"secret1","confirm_password":"secret1"}`
	rr := httptest.NewRecorder()
	handleRegister(rr, postJSON("/api/auth/register", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "lifeline_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	sess, ok := sessions.Get(sessionCookie.Value)
	if !ok {
		t.Fatal("cookie token does not resolve to a stored session")
	}
	if sess.Email != "maria@example.com" {
		t.Errorf("session email = %s, want maria@example.com", sess.Email)
	}
}
