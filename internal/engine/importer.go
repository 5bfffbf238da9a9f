package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"staffdir/internal/config"
	"staffdir/internal/metrics"
)

// ImportConfig contains all parameters required to run a roster import.
type ImportConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // Export URL of the upstream HR system
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Importer converts a vCard roster export into employee records.
type Importer struct {
	Fetcher VCardFetcher // Interface for network abstraction.
}

// Run executes the fetching and parsing pipeline and returns the decoded
// employees. Malformed cards are skipped, not fatal; malformed dates leave
// the record with an unknown date, matching the fail-open occasion rules.
func (im *Importer) Run(ctx context.Context, cfg ImportConfig) ([]Employee, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close. Errors in Close() for read-only streams are rarely actionable here.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	employees, stats, err := decodeRoster(ctx, reader)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgImportDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyImported, stats.imported),
			slog.Int("skipped", stats.skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return employees, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg ImportConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

type importStats struct {
	processed, imported, skipped int
}

func decodeRoster(ctx context.Context, r io.Reader) ([]Employee, importStats, error) {
	decoder := vcard.NewDecoder(r)
	var employees []Employee
	var stats importStats

	for {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			stats.skipped++
			metrics.ImportSkippedTotal.Inc()
			continue
		}

		stats.processed++
		e, ok := employeeFromCard(card)
		if !ok {
			stats.skipped++
			metrics.ImportSkippedTotal.Inc()
			continue
		}
		employees = append(employees, e)
		stats.imported++
		metrics.ImportCardsTotal.Inc()
	}

	return employees, stats, nil
}

// employeeFromCard maps vCard fields onto an Employee. A card without any
// name is unusable and skipped; everything else degrades gracefully.
func employeeFromCard(card vcard.Card) (Employee, bool) {
	var name string
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		name = fn.Value
	} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		name = n.Value
	} else {
		return Employee{}, false
	}

	e := Employee{
		Name:     Clean(name),
		JobTitle: Clean(card.Value(config.VCardTitle)),
		Email:    Clean(card.Value(config.VCardEmail)),
	}

	if org := card.Get(config.VCardOrg); org != nil {
		parts := strings.SplitN(org.Value, ";", 2)
		e.Unit = Clean(parts[0])
		if len(parts) > 1 {
			e.Crew = Clean(parts[1])
		}
	}

	for _, tel := range card[config.VCardTel] {
		switch telType(tel) {
		case config.VCardTypeCell:
			e.CellPhone = Clean(tel.Value)
		default:
			e.WorkPhone = Clean(tel.Value)
		}
	}

	e.BirthDate = parseCardDate(card, config.VCardBDAY)
	e.HireDate = parseCardDate(card, config.VCardAnniv)

	e.EmpNo = Clean(card.Value(config.VCardUID))
	if e.EmpNo == "" {
		// Deterministic fallback identifier for stability across imports.
		input := fmt.Sprintf(config.FormatHashInput, e.Name, e.Email, config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		e.EmpNo = fmt.Sprintf("%x", hash[:config.UIDHashLength])
	}

	return e, true
}

func telType(f *vcard.Field) string {
	if f.Params == nil {
		return ""
	}
	for _, t := range f.Params[config.VCardParamType] {
		if strings.EqualFold(t, config.VCardTypeCell) {
			return config.VCardTypeCell
		}
	}
	return ""
}

// parseCardDate reads an optional date field; an unparseable value is
// logged and treated as absent, never surfaced as an error.
func parseCardDate(card vcard.Card, field string) time.Time {
	value := card.Value(field)
	if value == "" {
		return time.Time{}
	}
	t, _, err := ParseDate(value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompImporter,
			config.LogKeyValue, value)
		return time.Time{}
	}
	return t
}
