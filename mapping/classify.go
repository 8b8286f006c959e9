package mapping

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/twinfer/ricograph/namespace"
)

// ActionKind tags the outcome of Classify.
type ActionKind uint8

const (
	// ActionDirect writes the object as detected by term detection.
	ActionDirect ActionKind = iota
	// ActionSuppress drops the statement.
	ActionSuppress
	// ActionBuild delegates to an entity builder.
	ActionBuild
	// ActionStructural resolves the object against a containment namespace.
	ActionStructural
)

// BuilderKind names an entity builder.
type BuilderKind uint8

const (
	BuildSender BuilderKind = iota + 1
	BuildBox
	BuildPlace
	BuildDate
	BuildInstantiation
	BuildIdentifier
	BuildTitle
)

func (k BuilderKind) String() string {
	switch k {
	case BuildSender:
		return "sender"
	case BuildBox:
		return "box"
	case BuildPlace:
		return "place"
	case BuildDate:
		return "date"
	case BuildInstantiation:
		return "instantiation"
	case BuildIdentifier:
		return "identifier"
	case BuildTitle:
		return "title"
	default:
		return "unknown"
	}
}

// Action says how a predicate is handled.
type Action struct {
	Kind    ActionKind
	Builder BuilderKind
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSuppress:
		return "suppress"
	case ActionBuild:
		return "build:" + a.Builder.String()
	case ActionStructural:
		return "structural"
	default:
		return "direct"
	}
}

var (
	dateRolePredicates = stringset.New(
		namespace.RiCOHasBeginningDate,
		namespace.RiCOHasEndDate,
		namespace.RiCOHasCreationDate,
	)
	structuralPredicates = stringset.New(
		namespace.RiCOIncludes,
		namespace.RiCOIsIncludedIn,
		namespace.RiCODirectlyIncludes,
		namespace.RiCOIsDirectlyIncludedIn,
	)
	recordedDatePredicates = stringset.New(
		namespace.RiCOExpressedDate,
		namespace.RiCONormalizedDateValue,
	)
)

// Classify decides how statements with the given predicate IRI are built.
// The temp namespace is resolved through reg, so the same IRI can classify
// differently under another base.
func Classify(predicate string, reg *namespace.Registry) Action {
	temp := reg.Resolve(namespace.PrefixTemp)
	switch predicate {
	case temp.IRI(namespace.TempPropagateSender):
		return Action{Kind: ActionBuild, Builder: BuildSender}
	case temp.IRI(namespace.TempBoxIdentifier):
		return Action{Kind: ActionBuild, Builder: BuildBox}
	case namespace.RiCOIsAssociatedWithPlace:
		return Action{Kind: ActionBuild, Builder: BuildPlace}
	case temp.IRI(namespace.TempDateProcessing):
		return Action{Kind: ActionBuild, Builder: BuildDate}
	}
	switch {
	case dateRolePredicates.Contains(predicate):
		return Action{Kind: ActionBuild, Builder: BuildDate}
	case structuralPredicates.Contains(predicate):
		return Action{Kind: ActionStructural}
	case predicate == namespace.RiCOHasOrHadInstantiation:
		return Action{Kind: ActionBuild, Builder: BuildInstantiation}
	case predicate == namespace.RiCOHasOrHadIdentifier:
		return Action{Kind: ActionBuild, Builder: BuildIdentifier}
	case predicate == namespace.RiCOHasOrHadTitle:
		return Action{Kind: ActionBuild, Builder: BuildTitle}
	case recordedDatePredicates.Contains(predicate):
		return Action{Kind: ActionSuppress}
	}
	return Action{Kind: ActionDirect}
}
