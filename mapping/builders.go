package mapping

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/twinfer/ricograph"
	"github.com/twinfer/ricograph/geocode"
	"github.com/twinfer/ricograph/namespace"
)

// rowContext carries one rule applied to one row.
type rowContext struct {
	ctx        context.Context
	kind       SheetKind
	row        Row
	rawSubject string
	subject    string
	predicate  string
	object     string
	log        *slog.Logger
}

// outcome tells the dispatcher what to do with the main statement.
type outcome uint8

const (
	// attach writes the main statement with the returned object.
	attach outcome = iota
	// consumed writes no main statement.
	consumed
	// skipRow writes no main statement; the builder has counted the skip.
	skipRow
)

type builderFunc func(e *Engine, rc *rowContext) (ricograph.Term, outcome)

var builders = map[BuilderKind]builderFunc{
	BuildSender:        (*Engine).buildSender,
	BuildBox:           (*Engine).buildBox,
	BuildPlace:         (*Engine).buildPlace,
	BuildDate:          (*Engine).buildDate,
	BuildInstantiation: (*Engine).buildInstantiation,
	BuildIdentifier:    (*Engine).buildIdentifier,
	BuildTitle:         (*Engine).buildTitle,
}

var (
	viafURLPattern   = regexp.MustCompile(`(?i)\bviaf\.org/viaf/\d+\b`)
	trailingDigits   = regexp.MustCompile(`(\d+)$`)
	agentBoxPattern  = regexp.MustCompile(`(?i)_B(\d+)(?:_|$)`)
	boxNumberPattern = []*regexp.Regexp{
		regexp.MustCompile(`(?i)_B(\d+)`),
		regexp.MustCompile(`(?i)(?:box|busta|bust)\s*(\d+)`),
		trailingDigits,
	}
)

// corporateBodyBox is the first box holding correspondence from
// institutions rather than people.
const corporateBodyBox = 11

// buildSender mints the agent named by the object and records it as the
// intermediate sender of the subject. Propagate later turns that link into
// hasSender statements on the subject's children.
func (e *Engine) buildSender(rc *rowContext) (ricograph.Term, outcome) {
	prefix, class := namespace.PrefixPerson, namespace.RiCOPerson
	if m := agentBoxPattern.FindStringSubmatch(rc.rawSubject); m != nil {
		if n, err := strconv.Atoi(m[1]); err != nil || n >= corporateBodyBox {
			prefix, class = namespace.PrefixCorporateBody, namespace.RiCOCorporateBody
		}
	}

	agent := e.mint(prefix, namespace.SafeLabel(rc.object))
	if e.declare(agent, class) {
		e.add(agent, namespace.RiCOHasOrHadName, ricograph.StringLiteral(rc.object))
		if authority, ok := viafAuthority(rc.row); ok {
			e.link(agent, namespace.OWLSameAs, authority)
		}
	}
	temp := e.reg.Resolve(namespace.PrefixTemp)
	e.link(rc.subject, temp.IRI(namespace.TempIntermediateSender), agent)
	return ricograph.Term{}, consumed
}

// viafAuthority returns the VIAF IRI from the row's viaf column, if any.
func viafAuthority(row Row) (string, bool) {
	for _, col := range row.Columns() {
		if col != "viaf" && col != "link viaf" {
			continue
		}
		v, ok := row.Get(col)
		if !ok || strings.EqualFold(v, "nan") {
			return "", false
		}
		m := trailingDigits.FindStringSubmatch(v)
		if m == nil {
			return "", false
		}
		return "http://viaf.org/viaf/" + m[1] + "/", true
	}
	return "", false
}

func boxNumber(s string) (string, bool) {
	for _, re := range boxNumberPattern {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// buildBox places the subject's instantiation inside a numbered box and
// gives the box its storage identifier.
func (e *Engine) buildBox(rc *rowContext) (ricograph.Term, outcome) {
	n, ok := boxNumber(rc.object)
	if !ok {
		rc.log.Warn("no box number in value", "value", rc.object)
		e.report.skipRow(SkipUnmatchedBox)
		return ricograph.Term{}, skipRow
	}
	boxLabel := "Box " + n
	boxLocal := "box" + n

	inst := e.mint(namespace.PrefixInst, namespace.SafeLabel(rc.rawSubject))
	if e.declare(inst, namespace.RiCOInstantiation) {
		e.link(inst, namespace.RiCOIsOrWasInstantiationOf, rc.subject)
	}
	box := e.mint(namespace.PrefixInst, boxLocal)
	if e.declare(box, namespace.RiCOInstantiation) {
		e.add(box, namespace.RDFSLabel, ricograph.StringLiteral("Instantiation of "+boxLabel))
	}
	e.link(inst, namespace.RiCOIsOrWasPartOf, box)
	e.link(box, namespace.RiCOHasOrHadPart, inst)

	storageType := e.mint(namespace.PrefixType, "StorageIdentifier")
	if e.declare(storageType, namespace.RiCOIdentifierType) {
		e.add(storageType, namespace.RDFSLabel, ricograph.StringLiteral("Storage Identifier"))
	}
	storageID := e.mint(namespace.PrefixStorageID, boxLocal)
	e.link(box, namespace.RiCOHasOrHadIdentifier, storageID)
	e.link(storageID, namespace.RiCOIsOrWasIdentifierOf, box)
	e.link(storageID, namespace.RiCOHasIdentifierType, storageType)
	if e.declare(storageID, namespace.RiCOIdentifier) {
		e.add(storageID, namespace.RDFSLabel, ricograph.StringLiteral(boxLabel))
	}
	return ricograph.Term{}, consumed
}

// buildPlace mints a place and its physical location, enriches the
// location from the gazetteer and returns the place.
func (e *Engine) buildPlace(rc *rowContext) (ricograph.Term, outcome) {
	label := rc.object
	local := namespace.SafeLabel(label)
	place := e.mint(namespace.PrefixPlace, local)
	physloc := e.mint(namespace.PrefixPhysLoc, local)

	if e.declare(place, namespace.RiCOPlace) {
		e.add(place, namespace.RDFSLabel, ricograph.StringLiteral(label))
	}
	if e.declare(physloc, namespace.RiCOPhysicalLoc) {
		e.add(physloc, namespace.RDFSLabel, ricograph.StringLiteral(label))
	}
	e.link(place, namespace.RiCOHasOrHadPhysicalLoc, physloc)
	e.link(physloc, namespace.RiCOIsOrWasPhysicalLocOf, place)

	if res := e.geocoder.Lookup(rc.ctx, label); res.Found {
		e.enrichLocation(physloc, res.Place)
		for _, p := range []string{namespace.GNFeatCls, namespace.GNFeatCode} {
			if v, ok := e.store.Value(physloc, p); ok {
				e.add(rc.subject, p, v)
			}
		}
	} else {
		rc.log.Debug("place not geocoded", "place", label)
	}
	return ricograph.IRI(place), attach
}

func (e *Engine) enrichLocation(physloc string, p geocode.Place) {
	e.link(physloc, namespace.OWLSameAs, p.URI())
	if p.HasCoordinates() {
		e.add(physloc, namespace.WGS84Lat, ricograph.Literal(p.Latitude, ricograph.XSDDecimal))
		e.add(physloc, namespace.WGS84Long, ricograph.Literal(p.Longitude, ricograph.XSDDecimal))
	}
	if p.FeatureClass != "" {
		e.add(physloc, namespace.GNFeatCls, ricograph.StringLiteral(p.FeatureClass))
	}
	if p.FeatureCode != "" {
		e.add(physloc, namespace.GNFeatCode, ricograph.StringLiteral(p.FeatureCode))
	}
}

// expressedDateColumn holds the free-text date on document sheets.
const expressedDateColumn = "data"

// buildDate mints the date entity for the part of the range the predicate
// asks for and links it back to the subject.
func (e *Engine) buildDate(rc *rowContext) (ricograph.Term, outcome) {
	start, end, _ := ParseDateRange(rc.object)
	generic := !dateRolePredicates.Contains(rc.predicate)

	var label string
	switch {
	case generic:
		label = start
	case rc.predicate == namespace.RiCOHasBeginningDate && end != "":
		label = start
	case rc.predicate == namespace.RiCOHasEndDate && end != "":
		label = end
	case rc.predicate == namespace.RiCOHasCreationDate && end == "":
		label = start
	}
	if label == "" {
		if !generic {
			rc.log.Debug("date does not fit role", "value", rc.object)
			e.report.skipRow(SkipDate)
			return ricograph.Term{}, skipRow
		}
		label = rc.object
	}

	date := e.mint(namespace.PrefixDate, namespace.SafeLabel(label))
	if e.declare(date, namespace.RiCODate) {
		if v, ok := FormatDate(label); ok {
			e.add(date, namespace.RiCONormalizedDateValue, v)
			e.add(rc.subject, namespace.RiCONormalizedDateValue, v)
		}
		if rc.kind == SheetDocument {
			if expressed, ok := rc.row.Get(expressedDateColumn); ok {
				e.add(date, namespace.RiCOExpressedDate, ricograph.StringLiteral(expressed))
				e.add(rc.subject, namespace.RiCOExpressedDate, ricograph.StringLiteral(expressed))
			}
		}
	}

	switch rc.predicate {
	case namespace.RiCOHasBeginningDate:
		e.link(date, namespace.RiCOIsBeginningDateOf, rc.subject)
	case namespace.RiCOHasEndDate:
		e.link(date, namespace.RiCOIsEndDateOf, rc.subject)
	default:
		e.link(date, namespace.RiCOIsCreationDateOf, rc.subject)
	}
	return ricograph.IRI(date), attach
}

// buildInstantiation returns the subject's own instantiation.
func (e *Engine) buildInstantiation(rc *rowContext) (ricograph.Term, outcome) {
	inst := e.mint(namespace.PrefixInst, namespace.SafeLabel(rc.rawSubject))
	e.declare(inst, namespace.RiCOInstantiation)
	e.link(inst, namespace.RiCOIsOrWasInstantiationOf, rc.subject)
	return ricograph.IRI(inst), attach
}

// buildIdentifier returns an internal identifier named by the object.
func (e *Engine) buildIdentifier(rc *rowContext) (ricograph.Term, outcome) {
	id := e.mint(namespace.PrefixInternalIdentifier, namespace.SafeLabel(rc.object))
	if e.declare(id, namespace.RiCOIdentifier) {
		e.link(id, namespace.RiCOHasIdentifierType, e.internalIdentifierType())
	}
	e.link(id, namespace.RiCOIsOrWasIdentifierOf, rc.subject)
	return ricograph.IRI(id), attach
}

// buildTitle returns the title entity for the object.
func (e *Engine) buildTitle(rc *rowContext) (ricograph.Term, outcome) {
	title := e.mint(namespace.PrefixTitle, namespace.SafeLabel(rc.object))
	if e.declare(title, namespace.RiCOTitle) {
		e.add(title, namespace.RDFSLabel, ricograph.StringLiteral(rc.object))
	}
	e.link(title, namespace.RiCOIsOrWasTitleOf, rc.subject)
	return ricograph.IRI(title), attach
}
