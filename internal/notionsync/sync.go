// Package notionsync exports a snapshot's accounts and transactions into
// Notion databases. Each run makes Notion match the snapshot: records are
// created or updated by id and pages for records that no longer exist are
// archived.
package notionsync

import (
	"context"
	"fmt"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/logger"
	"github.com/jomei/notionapi"
)

// PageSize is the Notion query page size (the API maximum).
const PageSize = 100

// Databases names the target Notion databases.
type Databases struct {
	Accounts     string
	Transactions string
}

// Result counts what a sync did, or would do in dry-run mode.
type Result struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

func (r *Result) add(o Result) {
	r.Created += o.Created
	r.Updated += o.Updated
	r.Archived += o.Archived
	r.Failed += o.Failed
}

// Report is the outcome of exporting a whole snapshot.
type Report struct {
	Accounts     Result `json:"accounts"`
	Transactions Result `json:"transactions"`
	DryRun       bool   `json:"dryRun"`
}

// Total sums both databases.
func (r Report) Total() Result {
	var t Result
	t.add(r.Accounts)
	t.add(r.Transactions)
	return t
}

// Syncer exports snapshots to Notion.
type Syncer struct {
	notion NotionService
	dbs    Databases
	dryRun bool
}

// NewSyncer creates a Syncer. In dry-run mode Notion is queried but never written.
func NewSyncer(notion NotionService, dbs Databases, dryRun bool) *Syncer {
	return &Syncer{notion: notion, dbs: dbs, dryRun: dryRun}
}

// Sync exports accounts first so transactions can link to their account pages.
// A database with an empty id is skipped. Failures on individual pages are
// logged and counted; only query failures abort.
func (s *Syncer) Sync(ctx context.Context, snap domain.Snapshot) (Report, error) {
	log := logger.FromContext(ctx)
	log.Info().
		Str("user_id", snap.User.ID).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Bool("dry_run", s.dryRun).
		Msg("Starting Notion export")

	rep := Report{DryRun: s.dryRun}

	var accountPages map[string]string
	if s.dbs.Accounts != "" {
		res, pages, err := s.SyncAccounts(ctx, snap.Accounts)
		if err != nil {
			return rep, fmt.Errorf("Sync: accounts: %w", err)
		}
		rep.Accounts, accountPages = res, pages
	}

	if s.dbs.Transactions != "" {
		res, err := s.SyncTransactions(ctx, snap.Transactions, snap.Categories, accountPages)
		if err != nil {
			return rep, fmt.Errorf("Sync: transactions: %w", err)
		}
		rep.Transactions = res
	}

	total := rep.Total()
	log.Info().
		Int("created", total.Created).
		Int("updated", total.Updated).
		Int("archived", total.Archived).
		Int("failed", total.Failed).
		Msg("Notion export completed")
	return rep, nil
}

// SyncAccounts exports accounts and returns a map of account id to page id.
func (s *Syncer) SyncAccounts(ctx context.Context, accounts []domain.Account) (Result, map[string]string, error) {
	records := make([]record, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, record{id: a.ID, props: AccountProperties(a)})
	}
	return s.syncDatabase(ctx, s.dbs.Accounts, records, extractAccountID)
}

// SyncTransactions exports transactions, linking each one to its account page when known.
func (s *Syncer) SyncTransactions(ctx context.Context, txs []domain.Transaction, cats []domain.Category, accountPages map[string]string) (Result, error) {
	records := make([]record, 0, len(txs))
	for _, t := range txs {
		records = append(records, record{id: t.ID, props: TransactionProperties(t, cats, accountPages)})
	}
	res, _, err := s.syncDatabase(ctx, s.dbs.Transactions, records, extractTransactionID)
	return res, err
}

type record struct {
	id    string
	props notionapi.Properties
}

// syncDatabase reconciles one database with records. Pages whose id is
// missing, unknown or duplicated are archived.
func (s *Syncer) syncDatabase(ctx context.Context, databaseID string, records []record, idOf func(notionapi.Page) string) (Result, map[string]string, error) {
	log := logger.FromContext(ctx).With().Str("database_id", databaseID).Logger()
	var res Result

	pages, err := queryAllNotionPages(ctx, s.notion, databaseID)
	if err != nil {
		return res, nil, err
	}
	log.Debug().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	wanted := make(map[string]bool, len(records))
	for _, r := range records {
		wanted[r.id] = true
	}

	pageIDs := make(map[string]string, len(records))
	for _, page := range pages {
		id := idOf(page)
		if _, dup := pageIDs[id]; id != "" && wanted[id] && !dup {
			pageIDs[id] = string(page.ID)
			continue
		}

		if s.dryRun {
			log.Info().Str("record_id", id).Str("page_id", string(page.ID)).Msg("[DRY RUN] Would archive stale Notion page")
			res.Archived++
			continue
		}
		if err := s.notion.ArchivePage(ctx, string(page.ID)); err != nil {
			log.Warn().Err(err).Str("record_id", id).Str("page_id", string(page.ID)).Msg("Failed to archive stale Notion page")
			res.Failed++
			continue
		}
		res.Archived++
	}

	for _, r := range records {
		pageID, exists := pageIDs[r.id]

		if s.dryRun {
			if exists {
				res.Updated++
			} else {
				res.Created++
			}
			continue
		}

		if exists {
			if _, err := s.notion.UpdatePage(ctx, pageID, r.props); err != nil {
				log.Warn().Err(err).Str("record_id", r.id).Str("page_id", pageID).Msg("Failed to update Notion page")
				res.Failed++
				continue
			}
			res.Updated++
			continue
		}

		page, err := s.notion.CreatePage(ctx, databaseID, r.props)
		if err != nil {
			log.Warn().Err(err).Str("record_id", r.id).Msg("Failed to create Notion page")
			res.Failed++
			continue
		}
		pageIDs[r.id] = string(page.ID)
		res.Created++
	}

	return res, pageIDs, nil
}

// queryAllNotionPages follows the cursor until every page has been read.
func queryAllNotionPages(ctx context.Context, notion NotionService, databaseID string) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{PageSize: PageSize}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}
		all = append(all, resp.Results...)

		if !resp.HasMore {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}
