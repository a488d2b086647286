package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/persistence"
	"google.golang.org/api/iterator"
)

// Repository stores snapshots as rows in the users, accounts, transactions
// and categories tables of one dataset.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Load implements persistence.Store. A user without a users row has no stored snapshot.
func (r *Repository) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	exists, err := r.userExists(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("Repository.Load: %w", err)
	}
	if !exists {
		return domain.Snapshot{}, false, nil
	}

	accounts, err := readRows[AccountRow](ctx, r.client, selectAccountsSQL(r.table), userID)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("Repository.Load: accounts: %w", err)
	}
	txs, err := readRows[TransactionRow](ctx, r.client, selectTransactionsSQL(r.table), userID)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("Repository.Load: transactions: %w", err)
	}
	cats, err := readRows[CategoryRow](ctx, r.client, selectCategoriesSQL(r.table), userID)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("Repository.Load: categories: %w", err)
	}

	return SnapshotFromRows(accounts, txs, cats), true, nil
}

// Save implements persistence.Store. Existing rows for the user are replaced
// inside one multi-statement transaction.
func (r *Repository) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	accounts, txs, cats := SnapshotRows(userID, snap)

	q := r.client.Query(saveSnapshotSQL(r.table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "accounts", Value: accounts},
		{Name: "transactions", Value: txs},
		{Name: "categories", Value: cats},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("Repository.Save: running script: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("Repository.Save: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("Repository.Save: job error: %w", err)
	}

	return nil
}

func (r *Repository) userExists(ctx context.Context, userID string) (bool, error) {
	q := r.client.Query(`SELECT COUNT(*) AS n FROM ` + r.table("users") + ` WHERE user_id = @user_id`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("reading users: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&row); err != nil {
		return false, fmt.Errorf("iterating users: %w", err)
	}
	return row.N > 0, nil
}

// table returns the fully qualified, backquoted table name.
func (r *Repository) table(name string) string {
	return "`" + r.projectID + "." + r.datasetID + "." + name + "`"
}

func readRows[T any](ctx context.Context, client *bigquery.Client, sql, userID string) ([]T, error) {
	q := client.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading query: %w", err)
	}

	rows := []T{}
	for {
		var row T
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var _ persistence.Store = (*Repository)(nil)
