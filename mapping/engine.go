package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twinfer/ricograph"
	"github.com/twinfer/ricograph/geocode"
	"github.com/twinfer/ricograph/namespace"
)

// RuleBook supplies mapping rules sheet by sheet. Rules returns an error for
// a sheet that does not have the mapping columns.
type RuleBook interface {
	SheetNames() []string
	Rules(sheet string) ([]Rule, error)
}

// DataBook supplies data rows by sheet name, matched ignoring case and
// surrounding whitespace.
type DataBook interface {
	Rows(sheet string) ([]Row, bool)
}

// DefaultIgnoredSheets are the name fragments of mapping sheets that
// describe images and are never converted.
var DefaultIgnoredSheets = []string{"immagin", "image"}

// Engine converts rows to statements. It owns no state besides the store,
// the registry and the run report; it is not safe for concurrent use.
type Engine struct {
	store    *ricograph.Store
	reg      *namespace.Registry
	geocoder geocode.Provider
	logger   *slog.Logger
	ignored  []string

	report Report
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Diagnostics carry sheet, rule and row fields.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithGeocoder sets the place enrichment provider. The default finds nothing.
func WithGeocoder(p geocode.Provider) Option {
	return func(e *Engine) { e.geocoder = p }
}

// WithIgnoredSheets replaces the name fragments of skipped mapping sheets.
func WithIgnoredSheets(fragments ...string) Option {
	return func(e *Engine) {
		e.ignored = e.ignored[:0]
		for _, f := range fragments {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				e.ignored = append(e.ignored, f)
			}
		}
	}
}

// NewEngine returns an engine writing to store and minting through reg.
func NewEngine(store *ricograph.Store, reg *namespace.Registry, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		reg:      reg,
		geocoder: geocode.Disabled{},
		logger:   slog.Default(),
		ignored:  append([]string(nil), DefaultIgnoredSheets...),
		report:   newReport(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the statement store.
func (e *Engine) Store() *ricograph.Store { return e.store }

// Registry returns the namespace registry.
func (e *Engine) Registry() *namespace.Registry { return e.reg }

// Run converts every mapping sheet in rules against the matching data
// sheet, in sheet order, then propagates senders. Unusable sheets are
// skipped; an error is returned only when ctx is done or the store fails.
func (e *Engine) Run(ctx context.Context, rules RuleBook, data DataBook) (Report, error) {
	for _, name := range rules.SheetNames() {
		if err := ctx.Err(); err != nil {
			return e.Report(), err
		}
		log := e.logger.With("sheet", name)

		if e.isIgnored(name) {
			log.Warn("skipping ignored sheet")
			e.report.skipSheet(SkipIgnoredSheet)
			continue
		}
		rows, ok := data.Rows(name)
		if !ok {
			log.Warn("no matching data sheet, skipping")
			e.report.skipSheet(SkipNoData)
			continue
		}
		sheetRules, err := rules.Rules(name)
		if err != nil {
			log.Warn("unusable mapping sheet, skipping", "error", err)
			e.report.skipSheet(SkipMissingColumns)
			continue
		}
		if err := e.ProcessSheet(ctx, name, sheetRules, rows); err != nil {
			return e.Report(), err
		}
	}
	return e.Finalize()
}

// Finalize runs sender propagation and completes the report.
func (e *Engine) Finalize() (Report, error) {
	prop, err := Propagate(e.store, e.reg)
	if err != nil {
		return e.Report(), fmt.Errorf("failed to propagate senders: %w", err)
	}
	e.report.SenderLinks += prop.Links
	e.report.SendersPropagated += prop.Propagated
	e.report.Statements = e.store.Len()
	e.logger.Info("propagated senders", "links", prop.Links, "statements", prop.Propagated)
	return e.Report(), nil
}

// Report returns a copy of the run report so far.
func (e *Engine) Report() Report {
	return e.report.clone()
}

func (e *Engine) isIgnored(sheet string) bool {
	name := strings.ToLower(strings.TrimSpace(sheet))
	for _, f := range e.ignored {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// ProcessSheet applies rules to rows, both in source order. The sheet name
// selects the SheetKind.
func (e *Engine) ProcessSheet(ctx context.Context, sheet string, rules []Rule, rows []Row) error {
	kind := ParseSheetKind(sheet)
	log := e.logger.With("sheet", sheet, "kind", kind.String())
	e.registerPrefixes(rules)

	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		subjectCol := normalizeColumn(rule.SubjectColumn)
		predicateTerm := strings.TrimSpace(rule.Predicate)
		if subjectCol == "" || predicateTerm == "" {
			e.report.RulesSkipped++
			continue
		}
		predicate, _ := e.reg.ResolveTerm(predicateTerm)
		if predicate == namespace.RDFType {
			e.report.RulesSkipped++
			continue
		}
		action := Classify(predicate, e.reg)
		ruleLog := log.With("rule", i+1, "predicate", predicateTerm)
		ruleLog.Debug("applying rule", "action", action.String())

		for j, row := range rows {
			rawSubject, ok := row.Get(subjectCol)
			if !ok {
				e.report.skipRow(SkipMissingValue)
				continue
			}
			object, ok := rule.objectValue(row)
			if !ok {
				e.report.skipRow(SkipMissingValue)
				continue
			}
			rc := &rowContext{
				ctx:        ctx,
				kind:       kind,
				row:        row,
				rawSubject: rawSubject,
				subject:    e.typeSubject(kind, rawSubject),
				predicate:  predicate,
				object:     object,
				log:        ruleLog.With("row", j+1),
			}
			e.apply(action, rc)
		}
	}
	e.report.SheetsProcessed++
	return nil
}

// registerPrefixes binds every prefix used in the rules' predicates and
// static objects so term detection can expand them later.
func (e *Engine) registerPrefixes(rules []Rule) {
	for _, r := range rules {
		for _, v := range []string{r.Predicate, r.StaticObject} {
			if prefix, _, ok := namespace.SplitPrefixed(strings.TrimSpace(v)); ok {
				e.reg.Resolve(prefix)
			}
		}
	}
}

// typeSubject mints the subject IRI for the sheet kind and writes its class
// once. Records also get their internal identifier.
func (e *Engine) typeSubject(kind SheetKind, raw string) string {
	ns, class := e.subjectNamespace(kind, raw)
	label := namespace.SafeLabel(raw)
	subject := ns.IRI(label)
	if class == "" {
		return subject
	}
	e.declare(subject, class)

	if class == namespace.RiCORecord {
		id := e.mint(namespace.PrefixInternalIdentifier, label)
		e.link(subject, namespace.RiCOHasOrHadIdentifier, id)
		e.link(id, namespace.RiCOIsOrWasIdentifierOf, subject)
		if e.declare(id, namespace.RiCOIdentifier) {
			e.add(id, namespace.RDFSLabel, ricograph.StringLiteral(raw))
			e.link(id, namespace.RiCOHasIdentifierType, e.internalIdentifierType())
		}
	}
	return subject
}

// maxRecordSetSegments is the deepest document identifier, counted in
// underscore separated segments, still modeled as a record set.
const maxRecordSetSegments = 4

func (e *Engine) subjectNamespace(kind SheetKind, raw string) (namespace.Namespace, string) {
	switch kind {
	case SheetSeries, SheetSubSeries, SheetFolder:
		return e.reg.Resolve(namespace.PrefixRecordSet), namespace.RiCORecordSet
	case SheetDocument:
		if len(strings.Split(raw, "_")) <= maxRecordSetSegments {
			return e.reg.Resolve(namespace.PrefixRecordSet), namespace.RiCORecordSet
		}
		return e.reg.Resolve(namespace.PrefixRecord), namespace.RiCORecord
	default:
		return e.reg.Base(), ""
	}
}

// apply dispatches one rule and row and writes the main statement.
func (e *Engine) apply(action Action, rc *rowContext) {
	var (
		object ricograph.Term
		out    outcome
	)
	switch action.Kind {
	case ActionSuppress:
		return
	case ActionBuild:
		object, out = builders[action.Builder](e, rc)
	case ActionStructural:
		object, out = e.containmentTarget(rc), attach
	default:
		object, out = e.detectTerm(rc.object), attach
	}
	if out != attach {
		return
	}
	if !e.admissible(rc.predicate, object) {
		e.report.Dropped++
		rc.log.Debug("dropping statement", "object", object.Value)
		return
	}
	e.add(rc.subject, rc.predicate, object)
}

// admissible applies the guards every main statement must pass.
func (e *Engine) admissible(predicate string, object ricograph.Term) bool {
	switch {
	case object.IsZero():
		return false
	case predicate == namespace.RDFSLabel && !object.IsLiteral():
		return false
	case predicate == namespace.RDFType && object.IsLiteral():
		return false
	case e.reg.Resolve(namespace.PrefixTemp).Contains(predicate):
		return false
	}
	v := strings.TrimSpace(object.Value)
	return v != "" && !strings.EqualFold(v, "nan") && v != "Persona URI"
}

// containmentTarget resolves a containment object in the namespace chosen by
// the sheet kind.
func (e *Engine) containmentTarget(rc *rowContext) ricograph.Term {
	ns := e.reg.Base()
	if prefix := containmentPrefix(rc.kind, rc.predicate); prefix != "" {
		ns = e.reg.Resolve(prefix)
	}
	return ricograph.IRI(ns.IRI(namespace.SafeLabel(rc.object)))
}

func containmentPrefix(kind SheetKind, predicate string) string {
	switch kind {
	case SheetDocument, SheetSeries, SheetSubSeries:
		return namespace.PrefixRecordSet
	case SheetFolder:
		if predicate == namespace.RiCOIncludes || predicate == namespace.RiCODirectlyIncludes {
			return namespace.PrefixRecord
		}
		return namespace.PrefixRecordSet
	default:
		return ""
	}
}

// detectTerm decides whether a cell names a resource or holds a literal.
func (e *Engine) detectTerm(s string) ricograph.Term {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case viafURLPattern.MatchString(s):
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			s = "https://" + strings.TrimLeft(s, "/")
		}
		return ricograph.IRI(s)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return ricograph.IRI(s)
	case strings.HasPrefix(lower, "www."):
		return ricograph.IRI("https://" + s)
	}
	if iri, ok := e.reg.Expand(s); ok {
		return ricograph.IRI(iri)
	}
	return ricograph.StringLiteral(s)
}

func (e *Engine) mint(prefix, label string) string {
	return e.reg.Resolve(prefix).IRI(label)
}

func (e *Engine) add(subject, predicate string, object ricograph.Term) {
	e.store.Add(ricograph.Statement{Subject: subject, Predicate: predicate, Object: object})
}

func (e *Engine) link(subject, predicate, object string) {
	e.add(subject, predicate, ricograph.IRI(object))
}

// declare types entity with class unless already typed, and reports whether
// this was the first reference. Descriptive statements written only when
// declare returns true are written exactly once.
func (e *Engine) declare(entity, class string) bool {
	return e.store.Add(ricograph.Statement{
		Subject:   entity,
		Predicate: namespace.RDFType,
		Object:    ricograph.IRI(class),
	})
}

// internalIdentifierType returns the shared internal identifier type.
func (e *Engine) internalIdentifierType() string {
	t := e.mint(namespace.PrefixType, "InternalIdentifier")
	if e.declare(t, namespace.RiCOIdentifierType) {
		e.add(t, namespace.RDFSLabel, ricograph.StringLiteral("Internal Identifier"))
	}
	return t
}
