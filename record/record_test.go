package record

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mehanizm/airtable"
)

type fakeTable struct {
	addErr    error
	updateErr error
	added     []*airtable.Records
	updated   []*airtable.Records
}

func (f *fakeTable) AddRecords(records *airtable.Records) (*airtable.Records, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, records)
	out := &airtable.Records{}
	for i, r := range records.Records {
		out.Records = append(out.Records, &airtable.Record{
			ID:     "rec-" + strings.Repeat("0", i+1),
			Fields: r.Fields,
		})
	}
	return out, nil
}

func (f *fakeTable) UpdateRecordsPartial(records *airtable.Records) (*airtable.Records, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, records)
	return records, nil
}

func newTestClient(ft *fakeTable) *Client {
	return &Client{tables: func(string) table { return ft }}
}

func TestCreate_ReturnsNewRecordID(t *testing.T) {
	ft := &fakeTable{}
	c := newTestClient(ft)

	id, err := c.Create(context.Background(), "Transactions", map[string]any{"Sale Price": 450000.0})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a record id")
	}
	if len(ft.added) != 1 || len(ft.added[0].Records) != 1 {
		t.Fatalf("expected one single-record create call, got %v", ft.added)
	}
	if ft.added[0].Records[0].Fields["Sale Price"] != 450000.0 {
		t.Fatalf("fields not forwarded: %v", ft.added[0].Records[0].Fields)
	}
}

func TestCreate_WrapsTransportError(t *testing.T) {
	boom := errors.New("rate limited")
	c := newTestClient(&fakeTable{addErr: boom})

	if _, err := c.Create(context.Background(), "Transactions", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestUpdate_SendsSingleRecordBulkPatch(t *testing.T) {
	ft := &fakeTable{}
	c := newTestClient(ft)

	err := c.Update(context.Background(), "Transactions", "rec-123", map[string]any{"County": "Delaware"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(ft.updated) != 1 || len(ft.updated[0].Records) != 1 {
		t.Fatalf("expected one single-record patch, got %v", ft.updated)
	}
	got := ft.updated[0].Records[0]
	if got.ID != "rec-123" {
		t.Fatalf("expected record id in patch, got %q", got.ID)
	}
	if got.Fields["County"] != "Delaware" {
		t.Fatalf("fields not forwarded: %v", got.Fields)
	}
}

func TestUpdate_WrapsTransportError(t *testing.T) {
	boom := errors.New("not found")
	c := newTestClient(&fakeTable{updateErr: boom})

	err := c.Update(context.Background(), "Transactions", "rec-404", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "rec-404") {
		t.Fatalf("expected record id in error, got %v", err)
	}
}

func TestAttachDocument_WritesAttachmentColumn(t *testing.T) {
	ft := &fakeTable{}
	c := newTestClient(ft)

	err := AttachDocument(context.Background(), c, "Transactions", "rec-123",
		"https://store.example/transaction-documents/cover.pdf", "cover.pdf")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	fields := ft.updated[0].Records[0].Fields
	atts, ok := fields[DocumentFieldName].([]map[string]any)
	if !ok || len(atts) != 1 {
		t.Fatalf("expected one attachment under %q, got %v", DocumentFieldName, fields)
	}
	if atts[0]["url"] != "https://store.example/transaction-documents/cover.pdf" || atts[0]["filename"] != "cover.pdf" {
		t.Fatalf("unexpected attachment: %v", atts[0])
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "base"); err == nil {
		t.Fatalf("expected missing api key to fail")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatalf("expected missing base id to fail")
	}
}
