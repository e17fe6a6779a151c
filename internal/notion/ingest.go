package notion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jomei/notionapi"

	"github.com/buzz39/expense-tracker/internal/core"
	"github.com/buzz39/expense-tracker/internal/logger"
)

// pageSize is the number of rows requested per query page.
const pageSize = 100

// Ingestor fetches all rows of a Notion expense database and normalizes
// them into the fixed expense schema.
type Ingestor struct {
	svc        Service
	databaseID string
	loc        *time.Location
}

// NewIngestor creates an Ingestor reading from the given database, with
// dates reported in loc.
func NewIngestor(svc Service, databaseID string, loc *time.Location) *Ingestor {
	if loc == nil {
		loc = LocalZone("")
	}
	return &Ingestor{svc: svc, databaseID: databaseID, loc: loc}
}

// FetchExpenses materializes the whole database and returns the normalized
// records sorted ascending by date.
//
// A query failure (connectivity, rejected credential) aborts the whole
// fetch. A failure confined to one row is logged with the offending raw
// properties and skips only that row; rows without a resolvable date are
// dropped. Zero surviving rows yield an empty, non-nil slice.
func (ing *Ingestor) FetchExpenses(ctx context.Context) ([]core.Expense, error) {
	log := logger.FromContext(ctx)

	pages, err := ing.queryAllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	log.Info().Int("page_count", len(pages)).Msg("Retrieved rows from Notion")

	records := make([]core.Expense, 0, len(pages))
	var failed, dateless int
	for _, page := range pages {
		rec, err := ing.mapPage(ctx, page)
		if err != nil {
			log.Error().
				Err(err).
				Str("page_id", string(page.ID)).
				Interface("properties", page.Properties).
				Msg("Skipping malformed row")
			failed++
			continue
		}
		if rec.Date.IsZero() {
			dateless++
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date.Time) {
			return records[i].Date.Before(records[j].Date.Time)
		}
		return records[i].Name < records[j].Name
	})

	log.Info().
		Int("rows", len(records)).
		Int("failed_rows", failed).
		Int("dateless_rows", dateless).
		Msg("Normalized expense table")
	return records, nil
}

// queryAllPages pages through the database until the source reports no
// further pages, accumulating every raw row before normalization starts.
func (ing *Ingestor) queryAllPages(ctx context.Context) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := ing.svc.QueryDatabase(ctx, ing.databaseID, req)
		if err != nil {
			return nil, err
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// mapPage extracts one expense record from a page. Field-level problems
// degrade to zero values; only a structurally broken row returns an error.
// A panic inside extraction is recovered into an error so one bad row
// cannot take down the batch.
func (ing *Ingestor) mapPage(ctx context.Context, page notionapi.Page) (rec core.Expense, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract row: %v", r)
		}
	}()

	props := page.Properties
	if len(props) == 0 {
		return core.Expense{}, errors.New("page has no properties")
	}
	log := logger.FromContext(ctx)

	rec.Name = titleText(props[propName])
	rec.Comment = richText(props[propComment])
	rec.Category = categoryOf(props[propCategory]).name

	amount := numberValue(props[propAmount])
	if amount < 0 {
		log.Warn().
			Str("page_id", string(page.ID)).
			Float64("amount", amount).
			Msg("Negative amount coerced to zero")
		amount = 0
	}
	rec.Amount = core.MoneyFromFloat(amount)

	rec.Date = ing.resolveDate(ctx, page)
	return rec, nil
}

// resolveDate normalizes the row's date. A typed date property is the
// common case; a rich-text variant holding a date string goes through
// ParseDate, whose truncate-and-retry fallback is logged so flagged rows
// can be told apart from cleanly parsed ones.
func (ing *Ingestor) resolveDate(ctx context.Context, page notionapi.Page) core.Date {
	if t, ok := dateStart(page.Properties[propDate]); ok {
		return NormalizeTime(t, ing.loc)
	}
	raw := richText(page.Properties[propDate])
	if raw == "" {
		return core.Date{}
	}
	d, fallback, ok := ParseDate(raw, ing.loc)
	if !ok {
		return core.Date{}
	}
	if fallback {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("page_id", string(page.ID)).
			Str("raw_date", raw).
			Msg("Date parsed via date-only fallback")
	}
	return d
}
