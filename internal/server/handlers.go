package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"staffdir/internal/config"
	"staffdir/internal/engine"
	"staffdir/internal/metrics"
	"staffdir/internal/state"
	"staffdir/internal/store"
)

// maxFilterBodySize bounds the PUT /api/filters request body.
const maxFilterBodySize = 64 * 1024

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// detailResponse decorates an employee with derived detail-view fields.
type detailResponse struct {
	engine.Employee
	Extension string           `json:"extension,omitempty"`
	BirthDate string           `json:"birthDate,omitempty"`
	HireDate  string           `json:"hireDate,omitempty"`
	Occasions engine.Occasions `json:"occasions"`
	Badges    []string         `json:"badges"`
}

// handleDirectory serves the composed, grouped directory listing.
func (s *DirectoryServer) handleDirectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set(config.HeaderAllow, http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
		return
	}

	employees, err := s.Source.List(r.Context())
	if err != nil {
		slog.Error(config.ErrDBQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		return
	}
	metrics.EmployeesTotal.Set(float64(len(employees)))

	q := r.URL.Query()
	org := engine.EffectiveOrg(engine.OrgFilter{
		Units:      splitList(q.Get(config.ParamUnits)),
		Crews:      splitList(q.Get(config.ParamCrews)),
		Locations:  splitList(q.Get(config.ParamLocations)),
		OnlyMyCrew: q.Get(config.ParamOnlyMyCrew) == config.ParamTrue,
	}, q.Get(config.ParamMyCrew))
	special := engine.SpecialFilter{
		ShowBirthdays:     q.Get(config.ParamBirthdays) == config.ParamTrue,
		ShowNewHires:      q.Get(config.ParamNewHires) == config.ParamTrue,
		ShowAnniversaries: q.Get(config.ParamAnniversaries) == config.ParamTrue,
	}

	start := time.Now()
	groups := s.composer.Compose(engine.GroupByCrew(employees), org, special, q.Get(config.ParamSearch))
	if letter := q.Get(config.ParamLetter); letter != "" {
		groups = filterGroupsByLetter(groups, letter)
	}
	metrics.ComposeDurationSeconds.Observe(time.Since(start).Seconds())

	slog.Debug(config.MsgComposeDone,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyGroups, len(groups),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	// The listing always serializes as an array, never null.
	if groups == nil {
		groups = []engine.CrewGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleDetail serves one employee with occasion flags and localized badges.
func (s *DirectoryServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set(config.HeaderAllow, http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
		return
	}

	empNo := strings.TrimPrefix(r.URL.Path, config.RouteDirectoryDetail)
	if empNo == "" || strings.Contains(empNo, "/") {
		writeError(w, http.StatusNotFound, config.HTTPMsgNotFound)
		return
	}

	e, err := s.Source.Get(r.Context(), empNo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, config.HTTPMsgNotFound)
			return
		}
		slog.Error(config.ErrDBQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyEmpNo, empNo,
			config.LogKeyError, err,
		)
		writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		return
	}

	today := s.composer.Clock.Now()
	occ := engine.OccasionsFor(e, today)
	loc := s.i18n.localizer(r.Header.Get(config.HeaderAcceptLanguage))

	resp := detailResponse{
		Employee:  e,
		Extension: e.Extension(),
		Occasions: occ,
		Badges:    badgeMessages(loc, occ),
	}
	if !e.BirthDate.IsZero() {
		resp.BirthDate = e.BirthDate.Format(config.DateFormatFullDash)
	}
	if !e.HireDate.IsZero() {
		resp.HireDate = e.HireDate.Format(config.DateFormatFullDash)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLetters serves the A-Z bucket counts over the full directory.
func (s *DirectoryServer) handleLetters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set(config.HeaderAllow, http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
		return
	}

	employees, err := s.Source.List(r.Context())
	if err != nil {
		slog.Error(config.ErrDBQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		return
	}
	writeJSON(w, http.StatusOK, engine.LetterCounts(employees))
}

// handleFilters loads (GET) or replaces (PUT) the persisted filter panel state.
func (s *DirectoryServer) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters, err := s.Filters.Load()
		if err != nil {
			slog.Error(config.ErrStateLoad,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
			writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
			return
		}
		writeJSON(w, http.StatusOK, filters)

	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFilterBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, config.HTTPMsgBadRequest)
			return
		}
		var filters state.SavedFilters
		if err := json.Unmarshal(body, &filters); err != nil {
			writeError(w, http.StatusBadRequest, config.HTTPMsgBadRequest)
			return
		}
		if err := s.Filters.Save(filters); err != nil {
			slog.Error(config.ErrStateSave,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
			writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
			return
		}
		writeJSON(w, http.StatusOK, filters)

	default:
		w.Header().Set(config.HeaderAllow, http.MethodGet+", "+http.MethodPut)
		writeError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
	}
}

// badgeMessages renders the localized badge lines for the detail view, in a
// stable order matching the filter panel.
func badgeMessages(loc *i18n.Localizer, occ engine.Occasions) []string {
	badges := []string{}

	if occ.BirthdayToday {
		badges = append(badges, getMsg(loc, config.TKeyBadgeBirthdayToday, nil))
	}
	if up := occ.UpcomingBirthday; up != nil {
		badges = append(badges, getMsg(loc, config.TKeyBadgeBirthdayUpcoming, map[string]interface{}{
			"Days": up.Days,
			"Date": up.Date.Format(config.DateFormatFullDash),
		}))
	}
	if occ.AnniversaryToday {
		badges = append(badges, getMsg(loc, config.TKeyBadgeAnnivToday, map[string]interface{}{
			"Years": occ.AnniversaryYears,
		}))
	}
	if up := occ.UpcomingAnniversary; up != nil {
		badges = append(badges, getMsg(loc, config.TKeyBadgeAnnivUpcoming, map[string]interface{}{
			"Days":  up.Days,
			"Years": up.Years,
		}))
	}
	if occ.MilestoneMonth {
		badges = append(badges, getMsg(loc, config.TKeyBadgeMilestone, nil))
	}
	if occ.NewHire {
		badges = append(badges, getMsg(loc, config.TKeyBadgeNewHire, nil))
	}
	return badges
}

// filterGroupsByLetter narrows every group to members whose last name starts
// with the letter, dropping groups left empty.
func filterGroupsByLetter(groups []engine.CrewGroup, letter string) []engine.CrewGroup {
	out := make([]engine.CrewGroup, 0, len(groups))
	for _, g := range groups {
		members := engine.FilterByLetter(g.Members, letter)
		if len(members) == 0 {
			continue
		}
		g.Members = members
		out = append(out, g)
	}
	return out
}

// splitList parses a comma-separated query value into its items.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, config.ParamListSeparator)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}
