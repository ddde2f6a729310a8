// Package validate implements the step-wise form validation engine. Rules are
// role-conditional and the engine never returns a Go error: every outcome is
// expressed as a field-keyed message map so the presentation layer can render
// findings next to their inputs.
package validate

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"coverflow/form"
)

// Step enumerates the wizard pages in submission order.
type Step int

const (
	StepRole Step = iota + 1
	StepProperty
	StepClients
	StepCommission
	StepDetails
	StepDocuments
	StepAdditionalInfo
	StepSignature
)

// Steps lists every step once, in order, for whole-form validation.
var Steps = []Step{
	StepRole, StepProperty, StepClients, StepCommission,
	StepDetails, StepDocuments, StepAdditionalInfo, StepSignature,
}

// Severity separates findings that block submission from advisories.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrorMap collects finding messages keyed by field name.
type ErrorMap map[string][]string

// Valid reports whether the map carries no findings.
func (m ErrorMap) Valid() bool { return len(m) == 0 }

func (m ErrorMap) add(field, message string) {
	m[field] = append(m[field], message)
}

// Merge folds other into m.
func (m ErrorMap) Merge(other ErrorMap) {
	for field, msgs := range other {
		m[field] = append(m[field], msgs...)
	}
}

// Report splits findings by severity. Errors block submission; warnings ride
// along for display and never gate anything.
type Report struct {
	Errors   ErrorMap
	Warnings ErrorMap
}

// Submittable reports whether no error-severity finding was raised.
func (r Report) Submittable() bool { return r.Errors.Valid() }

// closingDateHorizon guards against fat-fingered far-future dates. Past
// closing dates are accepted with a warning.
const closingDateHorizonDays = 90

// Engine evaluates validation steps. The clock is injectable so the closing
// date horizon can be tested deterministically.
type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ValidateStep evaluates one step and returns its blocking findings.
func (e *Engine) ValidateStep(step Step, f *form.TransactionFormData) ErrorMap {
	errs, _ := e.ValidateStepFlexible(step, f)
	return errs
}

// ValidateStepFlexible evaluates one step and additionally reports which
// required fields were simply absent, so callers can offer a non-blocking
// "fix later" affordance instead of hard-stopping the wizard.
func (e *Engine) ValidateStepFlexible(step Step, f *form.TransactionFormData) (ErrorMap, []string) {
	c := newCollector()
	e.runStep(step, c, f)
	return c.errs, c.missing
}

func (e *Engine) runStep(step Step, c *collector, f *form.TransactionFormData) {
	switch step {
	case StepRole:
		e.validateRole(c, f)
	case StepProperty:
		e.validateProperty(c, f)
	case StepClients:
		e.validateClients(c, f)
	case StepCommission:
		e.validateCommission(c, f)
	case StepDetails:
		e.validateDetails(c, f)
	case StepDocuments:
		e.validateDocuments(c, f)
	case StepAdditionalInfo:
		// Free-form section, nothing blocks submission.
	case StepSignature:
		e.validateSignature(c, f)
	}
}

// ValidateForm runs every step and merges the blocking findings.
func (e *Engine) ValidateForm(f *form.TransactionFormData) ErrorMap {
	return e.ValidateFormReport(f).Errors
}

// ValidateFormReport runs every step and returns all findings split by
// severity. The delivery gate submits on errors only.
func (e *Engine) ValidateFormReport(f *form.TransactionFormData) Report {
	c := newCollector()
	for _, step := range Steps {
		e.runStep(step, c, f)
	}
	return Report{Errors: c.errs, Warnings: c.warns}
}

type collector struct {
	errs    ErrorMap
	warns   ErrorMap
	missing []string
}

func newCollector() *collector {
	return &collector{errs: ErrorMap{}, warns: ErrorMap{}}
}

func (c *collector) require(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		c.finding(SeverityError, field, message)
		c.missing = append(c.missing, field)
	}
}

func (c *collector) add(field, message string) {
	c.finding(SeverityError, field, message)
}

func (c *collector) warn(field, message string) {
	c.finding(SeverityWarning, field, message)
}

func (c *collector) finding(sev Severity, field, message string) {
	if sev == SeverityWarning {
		c.warns.add(field, message)
		return
	}
	c.errs.add(field, message)
}

func (e *Engine) validateRole(c *collector, f *form.TransactionFormData) {
	if !f.AgentData.Role.Valid() {
		c.add("role", "select an agent role")
	}
	c.require("agentName", f.AgentData.Name, "agent name is required")
	c.require("agentEmail", f.AgentData.Email, "agent email is required")
	if f.AgentData.Email != "" {
		if _, err := mail.ParseAddress(f.AgentData.Email); err != nil {
			c.add("agentEmail", "agent email is not a valid address")
		}
	}
	c.require("agentPhone", f.AgentData.Phone, "agent phone is required")
}

func (e *Engine) validateProperty(c *collector, f *form.TransactionFormData) {
	p := f.PropertyData
	c.require("propertyAddress", p.Address, "property address is required")
	c.require("mlsNumber", p.MLSNumber, "MLS number is required")
	c.require("salePrice", p.SalePrice, "sale price is required")
	if p.SalePrice != "" && !isNumeric(p.SalePrice) {
		c.add("salePrice", "sale price must be a number")
	}
	c.require("closingDate", p.ClosingDate, "closing date is required")
	if p.ClosingDate != "" {
		e.checkClosingDate(c, p.ClosingDate)
	}
	c.require("propertyStatus", p.Status, "property status is required")
}

func (e *Engine) checkClosingDate(c *collector, raw string) {
	closing, ok := parseDate(raw)
	if !ok {
		c.add("closingDate", "closing date is not a valid date")
		return
	}
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if closing.After(today.AddDate(0, 0, closingDateHorizonDays)) {
		c.add("closingDate", "closing date is more than 90 days out")
	}
	if closing.Before(today) {
		c.warn("closingDate", "closing date is in the past")
	}
}

func (e *Engine) validateClients(c *collector, f *form.TransactionFormData) {
	if len(f.Clients) == 0 {
		c.add("clients", "at least one client is required")
		c.missing = append(c.missing, "clients")
		return
	}
	for i, cl := range f.Clients {
		prefix := "clients." + strconv.Itoa(i) + "."
		c.require(prefix+"name", cl.Name, "client name is required")
		if cl.Email != "" {
			if _, err := mail.ParseAddress(cl.Email); err != nil {
				c.add(prefix+"email", "client email is not a valid address")
			}
		}
		if cl.Type != form.ClientBuyer && cl.Type != form.ClientSeller {
			c.add(prefix+"type", "client type must be BUYER or SELLER")
		}
	}
	switch f.AgentData.Role {
	case form.RoleBuyersAgent:
		if len(f.BuyerClients()) == 0 {
			c.add("clients", "a buyers agent transaction needs at least one buyer")
		}
	case form.RoleListingAgent:
		if len(f.SellerClients()) == 0 {
			c.add("clients", "a listing agent transaction needs at least one seller")
		}
	case form.RoleDualAgent:
		if len(f.BuyerClients()) == 0 || len(f.SellerClients()) == 0 {
			c.add("clients", "dual agency needs at least one buyer and one seller")
		}
	}
}

func (e *Engine) validateCommission(c *collector, f *form.TransactionFormData) {
	cd := f.CommissionData
	switch f.AgentData.Role {
	case form.RoleListingAgent, form.RoleDualAgent:
		c.require("totalCommissionPercentage", cd.TotalCommissionPercentage, "total commission percentage is required")
		c.require("listingAgentPercentage", cd.ListingAgentPercentage, "listing agent percentage is required")
		checkPercent(c, "totalCommissionPercentage", cd.TotalCommissionPercentage)
		checkPercent(c, "listingAgentPercentage", cd.ListingAgentPercentage)
	default:
		c.require("buyersAgentPercentage", cd.BuyersAgentPercentage, "buyers agent percentage is required")
	}
	checkPercent(c, "buyersAgentPercentage", cd.BuyersAgentPercentage)

	if isYes(cd.HasBrokerFee) {
		c.require("brokerFeeAmount", cd.BrokerFeeAmount, "broker fee amount is required")
	}
	if isYes(cd.HasSellersAssist) {
		c.require("sellersAssist", cd.SellersAssist, "sellers assist amount is required")
	}
	if isYes(cd.IsReferral) {
		c.require("referralParty", cd.ReferralParty, "referral party is required")
		c.require("referralFee", cd.ReferralFee, "referral fee is required")
	}
}

func (e *Engine) validateDetails(c *collector, f *form.TransactionFormData) {
	d := f.PropertyDetailsData
	if isYes(d.ResaleCertRequired) {
		c.require("hoaName", d.HOAName, "HOA name is required when a resale certificate is needed")
	}
	if isYes(d.CORequired) {
		c.require("municipality", d.MunicipalityTownship, "municipality is required when a CO is needed")
	}
	if isYes(d.FirstRightOfRefusal) {
		c.require("firstRightName", d.FirstRightName, "first right of refusal holder is required")
	}
	if isYes(d.AttorneyRepresentation) {
		c.require("attorneyName", d.AttorneyName, "attorney name is required")
	}
	if isYes(d.HomeWarranty) {
		c.require("warrantyCompany", d.WarrantyCompany, "warranty company is required")
		c.require("warrantyCost", d.WarrantyCost, "warranty cost is required")
	}
}

func (e *Engine) validateDocuments(c *collector, f *form.TransactionFormData) {
	if !f.DocumentsData.Confirmed {
		c.add("confirmDocuments", "document requirements must be confirmed")
	}
}

func (e *Engine) validateSignature(c *collector, f *form.TransactionFormData) {
	c.require("signature", f.SignatureData.Signature, "signature is required")
	if !f.SignatureData.InfoConfirmed {
		c.add("infoConfirmed", "information accuracy must be confirmed")
	}
	if !f.SignatureData.TermsAccepted {
		c.add("termsAccepted", "terms must be accepted")
	}
}

func checkPercent(c *collector, field, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
	if err != nil {
		c.add(field, "percentage must be a number")
		return
	}
	if v < 0 || v > 100 {
		c.add(field, "percentage must be between 0 and 100")
	}
}

func isYes(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "YES")
}

func isNumeric(raw string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		case r == '$', r == ',', r == ' ':
			return -1
		default:
			return r
		}
	}, raw)
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

// dateLayouts covers the formats the wizard and manual entry produce.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006"}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
