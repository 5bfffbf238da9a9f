package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"staffdir/internal/config"
	"staffdir/internal/engine"
	"staffdir/internal/metrics"
)

// calendarItem stores the rendered ICS feed and its metadata for HTTP caching.
type calendarItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
	builtAt      time.Time
}

// calendarCache rebuilds the occasions feed lazily and serves it lock-free.
// The feed is read frequently by calendar clients but rebuilt at most once
// per refresh interval, so an atomic.Pointer keeps the hot path (HTTP GET)
// free of lock contention; the mutex only serializes rebuilds.
type calendarCache struct {
	rebuildMu sync.Mutex
	item      atomic.Pointer[calendarItem]
}

// RefreshCalendar rebuilds the occasions feed and swaps it into the cache.
// Called at startup and whenever a client finds the cached feed stale.
func (s *DirectoryServer) RefreshCalendar(ctx context.Context) error {
	employees, err := s.Source.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}

	loc := s.i18n.localizer(config.DefaultLanguage)
	builder := engine.CalendarBuilder{
		Clock: s.composer.Clock,
		FormatBirthday: func(name string) string {
			return getMsg(loc, config.TKeyCalBirthdaySummary, map[string]interface{}{
				"Name": name,
			})
		},
		FormatAnniversary: func(name string, years int) string {
			return getMsg(loc, config.TKeyCalAnnivSummary, map[string]interface{}{
				"Name":  name,
				"Years": years,
			})
		},
	}

	start := time.Now()
	data, birthdaysToday, err := builder.Build(employees, "")
	if err != nil {
		return err
	}
	metrics.CalendarBuildDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.BirthdaysObservedToday.Set(float64(birthdaysToday))

	hash := sha256.Sum256(data)
	item := &calendarItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
		builtAt:      s.composer.Clock.Now(),
	}
	s.calendar.item.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
		config.LogKeyToday, birthdaysToday,
	)
	return nil
}

// currentCalendar returns the cached feed, rebuilding it when missing or
// older than the refresh interval. Returns nil when a needed rebuild fails.
func (s *DirectoryServer) currentCalendar(ctx context.Context) *calendarItem {
	item := s.calendar.item.Load()
	if item != nil && s.composer.Clock.Now().Sub(item.builtAt) < config.DefaultICalRefresh {
		return item
	}

	s.calendar.rebuildMu.Lock()
	defer s.calendar.rebuildMu.Unlock()

	// Another request may have rebuilt while we waited on the lock.
	if item = s.calendar.item.Load(); item != nil &&
		s.composer.Clock.Now().Sub(item.builtAt) < config.DefaultICalRefresh {
		return item
	}

	if err := s.RefreshCalendar(ctx); err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		// A stale feed beats no feed.
		return s.calendar.item.Load()
	}
	return s.calendar.item.Load()
}

// handleCalendar serves the ICS content with HTTP caching support.
func (s *DirectoryServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.currentCalendar(r.Context())
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleVCard exports the full directory as a vCard stream, sorted the same
// way as the listing.
func (s *DirectoryServer) handleVCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	employees, err := s.Source.List(r.Context())
	if err != nil {
		slog.Error(config.ErrDBQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	data, err := engine.EncodeVCards(engine.Flatten(engine.GroupByCrew(employees)))
	if err != nil {
		slog.Error(config.ErrVCardEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextVCard)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
