package web

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/application/orchestrators"
	"lifeline/internal/application/projections"
)

// handleEvents handles GET /api/events?year=&month=&type=.
// Defaults to the current month when year/month are absent.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := timeNow()
	year := now.Year()
	month := now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
			month = time.Month(n)
		}
	}

	result, err := projections.QueryGetMonthEvents(r.Context(), projections.GetMonthEventsQuery{
		Year:  year,
		Month: month,
		Type:  r.URL.Query().Get("type"),
	}, projections.GetMonthEventsDeps{EventStore: stores.EventStore})
	if err != nil {
		internalError(w, err)
		return
	}

	days := make([]string, 0, len(result.EventDays))
	for day := range result.EventDays {
		days = append(days, day)
	}
	sort.Strings(days)

	type eventView struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		Type          string   `json:"type"`
		Date          string   `json:"date"`
		Time          string   `json:"time"`
		Location      string   `json:"location"`
		Description   string   `json:"description"`
		Requirements  []string `json:"requirements"`
		ContactPerson string   `json:"contact_person"`
		ContactEmail  string   `json:"contact_email"`
		SpotsLeft     int      `json:"spots_left"`
		Capacity      int      `json:"capacity"`
		Registered    int      `json:"registered"`
		Availability  string   `json:"availability"`
	}
	views := make([]eventView, 0, len(result.Events))
	for _, ev := range result.Events {
		availability := strconv.Itoa(ev.SpotsLeft) + " spots left"
		if ev.Full {
			availability = "Full"
		}
		views = append(views, eventView{
			ID:            ev.Event.ID,
			Title:         ev.Event.Title,
			Type:          ev.Event.Type,
			Date:          ev.Event.Date,
			Time:          ev.Event.Time,
			Location:      ev.Event.Location,
			Description:   ev.Event.Description,
			Requirements:  ev.Event.Requirements,
			ContactPerson: ev.Event.ContactPerson,
			ContactEmail:  ev.Event.ContactEmail,
			SpotsLeft:     ev.SpotsLeft,
			Capacity:      ev.Event.MaxParticipants,
			Registered:    ev.Event.RegisteredParticipants,
			Availability:  availability,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":     views,
		"event_days": days,
	})
}

// handleEventRegister handles POST /api/events/register.
func handleEventRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		EventID        string `json:"event_id"`
		Name           string `json:"name"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		AdditionalInfo string `json:"additional_info"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	reg, err := orchestrators.ExecuteRegisterForEvent(r.Context(), orchestrators.RegisterForEventInput{
		EventID:        input.EventID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		AdditionalInfo: input.AdditionalInfo,
	}, orchestrators.RegisterForEventDeps{
		EventStore:  stores.EventStore,
		EmailSender: emailSender,
		EmailFrom:   emailFromAddress,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"reference_code": reg.ReferenceCode,
		"event_id":       reg.EventID,
	})
}

// handleAdminEvents handles POST /api/admin/events (create) and
// GET /api/admin/events?id= (detail with the registration roster).
// Admin gated by RequireRole at the route.
func handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		sess, _ := middleware.GetSessionFromContext(r.Context())
		var input struct {
			Title           string   `json:"title"`
			Type            string   `json:"type"`
			Date            string   `json:"date"`
			Time            string   `json:"time"`
			Location        string   `json:"location"`
			Description     string   `json:"description"`
			MaxParticipants int      `json:"max_participants"`
			ContactPerson   string   `json:"contact_person"`
			ContactEmail    string   `json:"contact_email"`
			Requirements    []string `json:"requirements"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		ev, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{
			Title:           input.Title,
			Type:            input.Type,
			Date:            input.Date,
			Time:            input.Time,
			Location:        input.Location,
			Description:     input.Description,
			MaxParticipants: input.MaxParticipants,
			ContactPerson:   input.ContactPerson,
			ContactEmail:    input.ContactEmail,
			Requirements:    input.Requirements,
			CreatedBy:       sess.Email,
		}, orchestrators.CreateEventDeps{
			EventStore: stores.EventStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": ev.ID})

	case http.MethodGet:
		eventID := r.URL.Query().Get("id")
		if eventID == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		result, err := projections.QueryGetEventDetail(r.Context(), eventID, projections.GetEventDetailDeps{
			EventStore:        stores.EventStore,
			RegistrationStore: stores.RegistrationStore,
		})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"event":         result.Event,
			"capacity":      result.Capacity,
			"spots_left":    result.SpotsLeft,
			"full":          result.Full,
			"registrations": result.Registrations,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
