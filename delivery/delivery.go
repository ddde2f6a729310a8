// Package delivery sequences the cover-sheet pipeline: validate, render,
// store, attach, notify. Stages are independently observable and the
// accumulated Result is never discarded, so a caller can retry exactly the
// stage that failed. No stage rolls back an earlier one.
package delivery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coverflow/config"
	"coverflow/form"
	"coverflow/mail"
	"coverflow/mapping"
	"coverflow/record"
	"coverflow/render"
	"coverflow/storage"
	"coverflow/validate"
)

// stageTimeout bounds each outbound call; a stage that exceeds it counts as
// failed.
const stageTimeout = 30 * time.Second

// Job is one requested cover-sheet generation.
type Job struct {
	ID        string
	TableID   string
	RecordID  string
	SendEmail bool
	Form      form.TransactionFormData
}

// Result accumulates across the stage sequence. Partial failure leaves the
// earlier fields populated.
type Result struct {
	Filename         string
	RenderedPath     string
	BucketUsed       string
	StorageURL       string
	RecordAttached   bool
	EmailSent        bool
	Errors             []string
	ValidationErrors   validate.ErrorMap
	ValidationWarnings validate.ErrorMap
}

func (r *Result) fail(stage string, err error) {
	r.Errors = append(r.Errors, stage+": "+err.Error())
}

// Validator gates delivery on whole-form validation: errors block, warnings
// ride along on the Result.
type Validator interface {
	ValidateFormReport(f *form.TransactionFormData) validate.Report
}

// Orchestrator wires the pipeline collaborators together.
type Orchestrator struct {
	validator Validator
	renderer  render.Renderer
	store     storage.API
	resolver  *storage.Resolver
	records   record.API
	mailer    mail.Sender
	cfg       config.Config
	log       *zap.Logger

	idGenerator func() string
}

// NewOrchestrator builds the orchestrator. store, records and mailer may be
// nil when their stage is unconfigured; the stage then short-circuits with a
// configuration error instead of failing at process start.
func NewOrchestrator(v Validator, r render.Renderer, store storage.API, records record.API, mailer mail.Sender, cfg config.Config, log *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		validator:   v,
		renderer:    r,
		store:       store,
		records:     records,
		mailer:      mailer,
		cfg:         cfg,
		log:         log,
		idGenerator: func() string { return uuid.NewString() },
	}
	if store != nil {
		o.resolver = storage.NewResolver(store)
	}
	return o
}

func (o *Orchestrator) WithIDGenerator(gen func() string) *Orchestrator {
	o.idGenerator = gen
	return o
}

// Deliver runs the full sequence. The returned error is non-nil only for
// fatal conditions: unknown template or a failed render. Everything after
// the render degrades stage by stage and is reported through the Result.
func (o *Orchestrator) Deliver(ctx context.Context, job Job) (Result, error) {
	res := Result{}
	if job.ID == "" {
		job.ID = o.idGenerator()
	}
	log := o.log.With(zap.String("job_id", job.ID), zap.String("record_id", job.RecordID))

	// Stage 1: validation gate. Findings are user-correctable, never a
	// system fault, so they are returned rather than logged as errors.
	rep := o.validator.ValidateFormReport(&job.Form)
	if !rep.Submittable() {
		res.ValidationErrors = rep.Errors
		return res, nil
	}
	res.ValidationWarnings = rep.Warnings

	// Stage 2: render. Fatal on failure: no partial document leaves the
	// pipeline.
	tpl, err := render.Select(string(job.Form.AgentData.Role))
	if err != nil {
		return res, err
	}
	fields := mapping.RecordFields(&job.Form)

	renderCtx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()
	pdf, err := o.renderer.Render(renderCtx, tpl, fields)
	if err != nil {
		return res, fmt.Errorf("delivery: render %s: %w", tpl, err)
	}
	res.Filename = documentFilename(&job.Form, tpl)
	res.RenderedPath = objectPath(job, res.Filename)
	log.Info("cover sheet rendered",
		zap.String("template", string(tpl)),
		zap.Int("bytes", len(pdf)))

	// Stage 3: resolve bucket, upload, public URL.
	o.uploadStage(ctx, log, &res, pdf)

	// Stage 4: attach to the transaction record. Non-fatal: the document
	// already exists and is retrievable even if this fails.
	o.attachStage(ctx, log, &res, job)

	// Stage 5: notification email with the PDF attached from memory, so
	// it goes out even when the upload stage failed.
	if job.SendEmail {
		o.emailStage(ctx, log, &res, job, pdf)
	}

	return res, nil
}

func (o *Orchestrator) uploadStage(ctx context.Context, log *zap.Logger, res *Result, pdf []byte) {
	if err := o.cfg.Storage.Check(); err != nil {
		res.fail("storage", err)
		return
	}
	if o.store == nil || o.resolver == nil {
		res.fail("storage", fmt.Errorf("object store client not configured"))
		return
	}

	stageCtx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()

	bucket, err := o.resolver.Ensure(stageCtx, o.cfg.Storage.Bucket)
	if err != nil {
		log.Error("bucket resolution failed", zap.Error(err))
		res.fail("storage", err)
		return
	}
	res.BucketUsed = bucket
	if bucket != o.cfg.Storage.Bucket {
		log.Warn("falling back to existing bucket",
			zap.String("desired", o.cfg.Storage.Bucket),
			zap.String("actual", bucket))
	}

	if err := o.store.Upload(stageCtx, bucket, res.RenderedPath, pdf, "application/pdf"); err != nil {
		log.Error("upload failed", zap.Error(err))
		res.fail("storage", err)
		return
	}
	res.StorageURL = o.store.PublicURL(bucket, res.RenderedPath)
	log.Info("cover sheet uploaded", zap.String("bucket", bucket), zap.String("url", res.StorageURL))
}

func (o *Orchestrator) attachStage(ctx context.Context, log *zap.Logger, res *Result, job Job) {
	if res.StorageURL == "" || job.RecordID == "" {
		return
	}
	if err := o.cfg.Record.Check(); err != nil {
		res.fail("record", err)
		return
	}
	if o.records == nil {
		res.fail("record", fmt.Errorf("record-store client not configured"))
		return
	}

	stageCtx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()

	table := job.TableID
	if table == "" {
		table = o.cfg.Record.Table
	}
	if err := record.AttachDocument(stageCtx, o.records, table, job.RecordID, res.StorageURL, res.Filename); err != nil {
		log.Error("record attach failed", zap.Error(err))
		res.fail("record", err)
		return
	}
	res.RecordAttached = true
	log.Info("cover sheet attached to record", zap.String("table", table))
}

func (o *Orchestrator) emailStage(ctx context.Context, log *zap.Logger, res *Result, job Job, pdf []byte) {
	if o.mailer == nil || o.cfg.Mail.To == "" {
		res.fail("email", fmt.Errorf("mail transport not configured"))
		return
	}

	err := o.withTimeout(ctx, func() error {
		if err := o.mailer.Verify(); err != nil {
			return err
		}
		return o.mailer.SendCoverSheet(mail.CoverSheet{
			To:       o.cfg.Mail.To,
			Subject:  emailSubject(&job.Form),
			HTMLBody: emailBody(&job.Form, res.StorageURL),
			Filename: res.Filename,
			PDF:      pdf,
		})
	})
	if err != nil {
		log.Error("notification email failed", zap.Error(err))
		res.fail("email", err)
		// The alert rides the same transport that just failed, so it gets
		// the same wall-clock bound; its own outcome is not tracked.
		_ = o.withTimeout(ctx, func() error {
			o.mailer.SendAlert(
				"cover sheet email failed",
				fmt.Sprintf("record %s: %v", job.RecordID, err),
			)
			return nil
		})
		return
	}
	res.EmailSent = true
	log.Info("notification email sent", zap.String("to", o.cfg.Mail.To))
}

// withTimeout adapts transports without context support to the per-stage
// wall-clock bound. The send keeps running in its goroutine after a timeout;
// the stage is simply counted as failed.
func (o *Orchestrator) withTimeout(ctx context.Context, fn func() error) error {
	stageCtx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-stageCtx.Done():
		return stageCtx.Err()
	}
}

var unsafePathRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// documentFilename is deterministic for a given submission so retried
// deliveries overwrite instead of piling up variants.
func documentFilename(f *form.TransactionFormData, tpl render.Template) string {
	address := f.PropertyData.Address
	if address == "" {
		address = "transaction"
	}
	sanitized := strings.Trim(unsafePathRe.ReplaceAllString(address, "-"), "-")
	return fmt.Sprintf("%s_CoverSheet_%s.pdf", string(tpl), sanitized)
}

func objectPath(job Job, filename string) string {
	if job.RecordID != "" {
		return "cover-sheets/" + job.RecordID + "/" + filename
	}
	return "cover-sheets/" + filename
}

func emailSubject(f *form.TransactionFormData) string {
	return fmt.Sprintf("Cover Sheet: %s (%s)", f.PropertyData.Address, f.AgentData.Role)
}

func emailBody(f *form.TransactionFormData, url string) string {
	var b strings.Builder
	b.WriteString("<p>A new transaction cover sheet is ready for review.</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Property: %s</li>", f.PropertyData.Address)
	fmt.Fprintf(&b, "<li>Agent: %s (%s)</li>", f.AgentData.Name, f.AgentData.Role)
	fmt.Fprintf(&b, "<li>MLS: %s</li>", f.PropertyData.MLSNumber)
	b.WriteString("</ul>")
	if url != "" {
		fmt.Fprintf(&b, `<p><a href="%s">View the hosted document</a></p>`, url)
	}
	return b.String()
}
