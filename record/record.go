// Package record talks to the external system of record. Field identifiers
// are opaque external keys: the mapping tables own the pairing, this package
// only ships whatever map it is handed.
package record

import (
	"context"
	"fmt"

	"github.com/mehanizm/airtable"
)

// API is the slice of the record-store surface the pipeline uses.
type API interface {
	Create(ctx context.Context, table string, fields map[string]any) (string, error)
	Update(ctx context.Context, table, recordID string, fields map[string]any) error
}

// DocumentFieldName is the attachment column generated cover sheets are
// linked into.
const DocumentFieldName = "Cover Sheet"

// table is the slice of the hosted client's per-table surface this package
// drives. The hosted API has no single-record partial update on the table
// itself, so updates go through the bulk endpoint with one record.
type table interface {
	AddRecords(records *airtable.Records) (*airtable.Records, error)
	UpdateRecordsPartial(records *airtable.Records) (*airtable.Records, error)
}

// Client backs API with the hosted record-store.
type Client struct {
	tables func(name string) table
}

func NewClient(apiKey, baseID string) (*Client, error) {
	if apiKey == "" || baseID == "" {
		return nil, fmt.Errorf("record: api key and base id required")
	}
	ac := airtable.NewClient(apiKey)
	return &Client{
		tables: func(name string) table { return ac.GetTable(baseID, name) },
	}, nil
}

// Create inserts one record and returns its identifier. The underlying
// client manages its own HTTP timeouts; ctx is accepted for interface
// symmetry with the rest of the pipeline.
func (c *Client) Create(_ context.Context, tableName string, fields map[string]any) (string, error) {
	recs := &airtable.Records{
		Records: []*airtable.Record{{Fields: fields}},
	}
	created, err := c.tables(tableName).AddRecords(recs)
	if err != nil {
		return "", fmt.Errorf("record: create in %s: %w", tableName, err)
	}
	if len(created.Records) == 0 {
		return "", fmt.Errorf("record: create in %s returned no record", tableName)
	}
	return created.Records[0].ID, nil
}

// Update patches the named fields on an existing record.
func (c *Client) Update(_ context.Context, tableName, recordID string, fields map[string]any) error {
	recs := &airtable.Records{
		Records: []*airtable.Record{{ID: recordID, Fields: fields}},
	}
	if _, err := c.tables(tableName).UpdateRecordsPartial(recs); err != nil {
		return fmt.Errorf("record: update %s/%s: %w", tableName, recordID, err)
	}
	return nil
}

// AttachDocument links a hosted document URL into the record's attachment
// column. The record-store fetches the URL itself, so the bucket must be
// publicly readable.
func AttachDocument(ctx context.Context, api API, table, recordID, url, filename string) error {
	return api.Update(ctx, table, recordID, map[string]any{
		DocumentFieldName: []map[string]any{
			{"url": url, "filename": filename},
		},
	})
}
