package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twinfer/ricograph/namespace"
)

func TestClassify(t *testing.T) {
	reg := namespace.NewRegistry(namespace.DefaultBase)
	temp := reg.Resolve(namespace.PrefixTemp)

	tests := []struct {
		predicate string
		want      Action
	}{
		{temp.IRI(namespace.TempPropagateSender), Action{Kind: ActionBuild, Builder: BuildSender}},
		{temp.IRI(namespace.TempBoxIdentifier), Action{Kind: ActionBuild, Builder: BuildBox}},
		{namespace.RiCOIsAssociatedWithPlace, Action{Kind: ActionBuild, Builder: BuildPlace}},
		{namespace.RiCOHasBeginningDate, Action{Kind: ActionBuild, Builder: BuildDate}},
		{namespace.RiCOHasEndDate, Action{Kind: ActionBuild, Builder: BuildDate}},
		{namespace.RiCOHasCreationDate, Action{Kind: ActionBuild, Builder: BuildDate}},
		{temp.IRI(namespace.TempDateProcessing), Action{Kind: ActionBuild, Builder: BuildDate}},
		{namespace.RiCOIncludes, Action{Kind: ActionStructural}},
		{namespace.RiCOIsIncludedIn, Action{Kind: ActionStructural}},
		{namespace.RiCODirectlyIncludes, Action{Kind: ActionStructural}},
		{namespace.RiCOIsDirectlyIncludedIn, Action{Kind: ActionStructural}},
		{namespace.RiCOHasOrHadInstantiation, Action{Kind: ActionBuild, Builder: BuildInstantiation}},
		{namespace.RiCOHasOrHadIdentifier, Action{Kind: ActionBuild, Builder: BuildIdentifier}},
		{namespace.RiCOHasOrHadTitle, Action{Kind: ActionBuild, Builder: BuildTitle}},
		{namespace.RiCOExpressedDate, Action{Kind: ActionSuppress}},
		{namespace.RiCONormalizedDateValue, Action{Kind: ActionSuppress}},
		{namespace.RiCO + "scopeAndContent", Action{Kind: ActionDirect}},
		{namespace.RDFSLabel, Action{Kind: ActionDirect}},
	}
	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.predicate, reg))
		})
	}
}

func TestClassifyFollowsBase(t *testing.T) {
	other := namespace.NewRegistry("http://example.org/archive#")
	sender := namespace.NewRegistry(namespace.DefaultBase).Resolve(namespace.PrefixTemp).IRI(namespace.TempPropagateSender)
	assert.Equal(t, Action{Kind: ActionDirect}, Classify(sender, other))
}

func TestParseSheetKind(t *testing.T) {
	tests := map[string]SheetKind{
		"Serie":       SheetSeries,
		" sottoserie": SheetSubSeries,
		"Fascicolo":   SheetFolder,
		"fascicoli":   SheetFolder,
		"DOCUMENTO ":  SheetDocument,
		"documenti":   SheetDocument,
		"immagini":    SheetOther,
		"":            SheetOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseSheetKind(name), name)
	}
}

func TestRow(t *testing.T) {
	row := NewRow([]string{" ID ", "Titolo", "id", "Note", "Extra"}, []string{"A_1", "  Lettera  ", "shadowed", "   "})

	assert.Equal(t, []string{"id", "titolo", "note", "extra"}, row.Columns())

	v, ok := row.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "A_1", v, "first duplicate column wins")

	v, ok = row.Get("titolo")
	assert.True(t, ok)
	assert.Equal(t, "Lettera", v)

	_, ok = row.Get("note")
	assert.False(t, ok, "blank cells are absent")
	_, ok = row.Get("extra")
	assert.False(t, ok, "short rows leave trailing cells absent")
	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestRuleObjectValue(t *testing.T) {
	row := NewRow([]string{"id", "luogo"}, []string{"X", "Roma"})

	v, ok := Rule{ObjectColumn: " Luogo "}.objectValue(row)
	assert.True(t, ok)
	assert.Equal(t, "Roma", v)

	v, ok = Rule{StaticObject: " rico:Record "}.objectValue(row)
	assert.True(t, ok)
	assert.Equal(t, "rico:Record", v)

	_, ok = Rule{}.objectValue(row)
	assert.False(t, ok)
	_, ok = Rule{ObjectColumn: "data"}.objectValue(row)
	assert.False(t, ok)
}
