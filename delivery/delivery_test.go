package delivery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"coverflow/config"
	"coverflow/form"
	"coverflow/mail"
	"coverflow/render"
	"coverflow/validate"
)

type fakeRenderer struct {
	pdf      []byte
	err      error
	rendered int
	lastTpl  render.Template
}

func (f *fakeRenderer) Render(_ context.Context, tpl render.Template, _ map[string]any) ([]byte, error) {
	f.rendered++
	f.lastTpl = tpl
	return f.pdf, f.err
}

type fakeStore struct {
	mu        sync.Mutex
	exists    bool
	uploadErr error
	uploads   map[string][]byte
}

func (f *fakeStore) BucketExists(_ context.Context, _ string) (bool, error) { return f.exists, nil }
func (f *fakeStore) MakeBucket(_ context.Context, _ string) error           { return nil }
func (f *fakeStore) ListBuckets(_ context.Context) ([]string, error)        { return nil, nil }

func (f *fakeStore) Upload(_ context.Context, bucket, path string, data []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucket+"/"+path] = data
	return nil
}

func (f *fakeStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeStore) PublicURL(bucket, path string) string {
	return "https://store.example/" + bucket + "/" + path
}

type fakeRecords struct {
	updateErr error
	updates   []map[string]any
}

func (f *fakeRecords) Create(_ context.Context, _ string, _ map[string]any) (string, error) {
	return "rec-created", nil
}

func (f *fakeRecords) Update(_ context.Context, _, _ string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, fields)
	return nil
}

type fakeMailer struct {
	verifyErr  error
	sendErr    error
	alertBlock chan struct{}
	sent       []mail.CoverSheet
	alerts     []string
}

func (f *fakeMailer) Verify() error { return f.verifyErr }

func (f *fakeMailer) SendCoverSheet(msg mail.CoverSheet) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) SendAlert(subject, _ string) {
	if f.alertBlock != nil {
		<-f.alertBlock
	}
	f.alerts = append(f.alerts, subject)
}

func testConfig() config.Config {
	return config.Config{
		Storage: config.Storage{
			Endpoint:  "store.example",
			AccessKey: "key",
			SecretKey: "secret",
			Bucket:    "transaction-documents",
		},
		Record: config.Record{APIKey: "key", BaseID: "base", Table: "Transactions"},
		Mail:   config.Mail{From: "noreply@example.com", To: "reviewer@example.com"},
	}
}

func dualJob() Job {
	closing := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	return Job{
		RecordID:  "rec-123",
		SendEmail: true,
		Form: form.TransactionFormData{
			AgentData: form.AgentData{
				Role:  form.RoleDualAgent,
				Name:  "Pat Agent",
				Email: "pat@example.com",
				Phone: "2155550100",
			},
			PropertyData: form.PropertyData{
				Address:     "12 Elm St, Media PA",
				MLSNumber:   "PADE100200",
				SalePrice:   "450000",
				Status:      "OCCUPIED",
				ClosingDate: closing,
			},
			Clients: []form.Client{
				{ID: "c1", Name: "Bea Buyer", Type: form.ClientBuyer},
				{ID: "c2", Name: "Sal Seller", Type: form.ClientSeller},
			},
			CommissionData: form.CommissionData{
				TotalCommissionPercentage: "6",
				ListingAgentPercentage:    "3",
				BuyersAgentPercentage:     "3",
			},
			DocumentsData: form.DocumentsData{Confirmed: true},
			SignatureData: form.SignatureData{
				Signature:     "Pat Agent",
				InfoConfirmed: true,
				TermsAccepted: true,
			},
		},
	}
}

func newTestOrchestrator(r render.Renderer, store *fakeStore, records *fakeRecords, mailer *fakeMailer) *Orchestrator {
	return NewOrchestrator(validate.New(), r, store, records, mailer, testConfig(), zap.NewNop())
}

func TestDeliver_FullDualScenario(t *testing.T) {
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.4 cover")}
	store := &fakeStore{exists: true}
	records := &fakeRecords{}
	mailer := &fakeMailer{}
	o := newTestOrchestrator(renderer, store, records, mailer)

	res, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.ValidationErrors) != 0 {
		t.Fatalf("expected clean validation, got %v", res.ValidationErrors)
	}
	if renderer.lastTpl != render.TemplateDualAgent {
		t.Fatalf("expected dual template, got %s", renderer.lastTpl)
	}
	if res.BucketUsed != "transaction-documents" {
		t.Fatalf("unexpected bucket: %s", res.BucketUsed)
	}
	if res.StorageURL == "" || !strings.HasSuffix(res.StorageURL, res.RenderedPath) {
		t.Fatalf("unexpected storage url: %s", res.StorageURL)
	}
	if !res.RecordAttached {
		t.Fatalf("expected record attached")
	}
	if !res.EmailSent || len(mailer.sent) != 1 {
		t.Fatalf("expected one email sent")
	}
	if mailer.sent[0].Filename != res.Filename {
		t.Fatalf("attachment filename mismatch: %s vs %s", mailer.sent[0].Filename, res.Filename)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected no stage errors, got %v", res.Errors)
	}
}

func TestDeliver_ValidationGateBlocksRender(t *testing.T) {
	renderer := &fakeRenderer{pdf: []byte("pdf")}
	o := newTestOrchestrator(renderer, &fakeStore{exists: true}, &fakeRecords{}, &fakeMailer{})

	job := dualJob()
	job.Form.Clients = nil
	res, err := o.Deliver(context.Background(), job)
	if err != nil {
		t.Fatalf("validation findings are not a pipeline error, got %v", err)
	}
	if len(res.ValidationErrors) == 0 {
		t.Fatalf("expected validation findings")
	}
	if renderer.rendered != 0 {
		t.Fatalf("renderer must not run when validation fails")
	}
}

func TestDeliver_RenderFailureIsFatal(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("template corrupted")}
	o := newTestOrchestrator(renderer, &fakeStore{exists: true}, &fakeRecords{}, &fakeMailer{})

	_, err := o.Deliver(context.Background(), dualJob())
	if err == nil {
		t.Fatalf("expected fatal error on render failure")
	}
}

func TestDeliver_EmailFailureIsNonFatalAndAlerts(t *testing.T) {
	mailer := &fakeMailer{verifyErr: errors.New("connection refused")}
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, &fakeStore{exists: true}, &fakeRecords{}, mailer)

	res, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("email failure must not fail the pipeline, got %v", err)
	}
	if res.EmailSent {
		t.Fatalf("expected emailSent=false")
	}
	if !res.RecordAttached {
		t.Fatalf("earlier stages must not be rolled back")
	}
	if len(mailer.alerts) != 1 {
		t.Fatalf("expected one system alert, got %d", len(mailer.alerts))
	}
	if len(res.Errors) == 0 || !strings.HasPrefix(res.Errors[0], "email:") {
		t.Fatalf("expected email stage error recorded, got %v", res.Errors)
	}
}

func TestDeliver_UploadFailureStillEmailsAttachment(t *testing.T) {
	store := &fakeStore{exists: true, uploadErr: errors.New("disk full")}
	records := &fakeRecords{}
	mailer := &fakeMailer{}
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, store, records, mailer)

	res, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("upload failure must not fail the pipeline, got %v", err)
	}
	if res.StorageURL != "" {
		t.Fatalf("expected no storage url")
	}
	if res.RecordAttached {
		t.Fatalf("attach must be skipped without a hosted url")
	}
	if !res.EmailSent {
		t.Fatalf("email carries the PDF from memory and must still send")
	}
}

func TestDeliver_MissingStorageConfigShortCircuitsStage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = config.Storage{Bucket: "transaction-documents"}
	mailer := &fakeMailer{}
	o := NewOrchestrator(validate.New(), &fakeRenderer{pdf: []byte("pdf")}, &fakeStore{}, &fakeRecords{}, mailer, cfg, zap.NewNop())

	res, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.StorageURL != "" || res.RecordAttached {
		t.Fatalf("dependent stages must be skipped on configuration error")
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "STORAGE_ENDPOINT") {
		t.Fatalf("expected configuration error naming the variable, got %v", res.Errors)
	}
}

func TestDeliver_RetryOverwritesSamePath(t *testing.T) {
	store := &fakeStore{exists: true}
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, store, &fakeRecords{}, &fakeMailer{})

	first, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	second, err := o.Deliver(context.Background(), dualJob())
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if first.RenderedPath != second.RenderedPath {
		t.Fatalf("retries must target the same object path: %s vs %s", first.RenderedPath, second.RenderedPath)
	}
	if store.uploadCount() != 1 {
		t.Fatalf("expected the retry to overwrite, got %d objects", store.uploadCount())
	}
}

func TestQueue_ProcessesEnqueuedJob(t *testing.T) {
	store := &fakeStore{exists: true}
	mailer := &fakeMailer{}
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, store, &fakeRecords{}, mailer)
	q := NewQueue(4, o, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx, 1) }()

	if err := q.Enqueue(dualJob()); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for store.uploadCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("job was not processed in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQueue_FullQueueRejects(t *testing.T) {
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, &fakeStore{}, &fakeRecords{}, &fakeMailer{})
	q := NewQueue(1, o, zap.NewNop())

	if err := q.Enqueue(Job{}); err != nil {
		t.Fatalf("first enqueue should fit: %v", err)
	}
	if err := q.Enqueue(Job{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDeliver_PastClosingDateWarnsButDelivers(t *testing.T) {
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.4 cover")}
	store := &fakeStore{exists: true}
	o := newTestOrchestrator(renderer, store, &fakeRecords{}, &fakeMailer{})

	job := dualJob()
	job.Form.PropertyData.ClosingDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	res, err := o.Deliver(context.Background(), job)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.ValidationErrors) != 0 {
		t.Fatalf("a backdated closing must not block, got %v", res.ValidationErrors)
	}
	if len(res.ValidationWarnings["closingDate"]) == 0 {
		t.Fatalf("expected a closingDate warning, got %v", res.ValidationWarnings)
	}
	if renderer.rendered != 1 || store.uploadCount() != 1 {
		t.Fatalf("expected delivery to proceed despite the warning")
	}
}

func TestDeliver_StalledAlertSendIsBounded(t *testing.T) {
	mailer := &fakeMailer{
		sendErr:    errors.New("smtp refused"),
		alertBlock: make(chan struct{}),
	}
	o := newTestOrchestrator(&fakeRenderer{pdf: []byte("pdf")}, &fakeStore{exists: true}, &fakeRecords{}, mailer)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		res, _ := o.Deliver(ctx, dualJob())
		done <- res
	}()

	select {
	case res := <-done:
		if res.EmailSent {
			t.Fatalf("expected email failure")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("delivery stalled on the alert send")
	}
	close(mailer.alertBlock)
}
