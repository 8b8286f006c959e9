package namespace

// Standard vocabularies.
const (
	RDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS     = "http://www.w3.org/2000/01/rdf-schema#"
	XSD      = "http://www.w3.org/2001/XMLSchema#"
	OWL      = "http://www.w3.org/2002/07/owl#"
	RiCO     = "https://www.ica.org/standards/RiC/ontology#"
	GeoNames = "http://www.geonames.org/ontology#"
	WGS84    = "http://www.w3.org/2003/01/geo/wgs84_pos#"
)

// Terms from the standard vocabularies.
const (
	RDFType    = RDF + "type"
	RDFSLabel  = RDFS + "label"
	OWLSameAs  = OWL + "sameAs"
	WGS84Lat   = WGS84 + "lat"
	WGS84Long  = WGS84 + "long"
	GNFeatCls  = GeoNames + "featureClass"
	GNFeatCode = GeoNames + "featureCode"
)

// Records in Contexts classes.
const (
	RiCORecord         = RiCO + "Record"
	RiCORecordSet      = RiCO + "RecordSet"
	RiCOInstantiation  = RiCO + "Instantiation"
	RiCOIdentifier     = RiCO + "Identifier"
	RiCOIdentifierType = RiCO + "IdentifierType"
	RiCOTitle          = RiCO + "Title"
	RiCODate           = RiCO + "Date"
	RiCOPlace          = RiCO + "Place"
	RiCOPhysicalLoc    = RiCO + "PhysicalLocation"
	RiCOPerson         = RiCO + "Person"
	RiCOCorporateBody  = RiCO + "CorporateBody"
)

// Records in Contexts properties.
const (
	RiCOIncludes               = RiCO + "includes"
	RiCOIsIncludedIn           = RiCO + "isIncludedIn"
	RiCODirectlyIncludes       = RiCO + "directlyIncludes"
	RiCOIsDirectlyIncludedIn   = RiCO + "isDirectlyIncludedIn"
	RiCOHasSender              = RiCO + "hasSender"
	RiCOHasOrHadName           = RiCO + "hasOrHadName"
	RiCOIsAssociatedWithPlace  = RiCO + "isAssociatedWithPlace"
	RiCOHasOrHadPhysicalLoc    = RiCO + "hasOrHadPhysicalLocation"
	RiCOIsOrWasPhysicalLocOf   = RiCO + "isOrWasPhysicalLocationOf"
	RiCOHasBeginningDate       = RiCO + "hasBeginningDate"
	RiCOHasEndDate             = RiCO + "hasEndDate"
	RiCOHasCreationDate        = RiCO + "hasCreationDate"
	RiCOIsBeginningDateOf      = RiCO + "isBeginningDateOf"
	RiCOIsEndDateOf            = RiCO + "isEndDateOf"
	RiCOIsCreationDateOf       = RiCO + "isCreationDateOf"
	RiCOExpressedDate          = RiCO + "expressedDate"
	RiCONormalizedDateValue    = RiCO + "normalizedDateValue"
	RiCOHasOrHadInstantiation  = RiCO + "hasOrHadInstantiation"
	RiCOIsOrWasInstantiationOf = RiCO + "isOrWasInstantiationOf"
	RiCOIsOrWasPartOf          = RiCO + "isOrWasPartOf"
	RiCOHasOrHadPart           = RiCO + "hasOrHadPart"
	RiCOHasOrHadIdentifier     = RiCO + "hasOrHadIdentifier"
	RiCOIsOrWasIdentifierOf    = RiCO + "isOrWasIdentifierOf"
	RiCOHasIdentifierType      = RiCO + "hasIdentifierType"
	RiCOHasOrHadTitle          = RiCO + "hasOrHadTitle"
	RiCOIsOrWasTitleOf         = RiCO + "isOrWasTitleOf"
)

// Domain prefixes minted under the registry base.
const (
	PrefixTemp               = "temp"
	PrefixStorageID          = "storageid"
	PrefixType               = "type"
	PrefixCorporateBody      = "corporateBody"
	PrefixRecord             = "record"
	PrefixRecordSet          = "recordset"
	PrefixPlace              = "place"
	PrefixPhysLoc            = "physloc"
	PrefixDate               = "date"
	PrefixInternalIdentifier = "internalIdentifier"
	PrefixIdentifier         = "identifier"
	PrefixTitle              = "title"
	PrefixInst               = "inst"
	PrefixPerson             = "person"
	PrefixAgent              = "agent"
)

// Local names in the temp namespace. Predicates there steer the builders
// and are never written to the graph, except for the intermediate sender
// link, which lives until sender propagation removes it.
const (
	TempPropagateSender    = "propagateSender"
	TempIntermediateSender = "intermediateSender"
	TempBoxIdentifier      = "boxIdentifier"
	TempDateProcessing     = "dateProcessing"
)

var standardVocabularies = []struct{ prefix, iri string }{
	{"rdf", RDF},
	{"rdfs", RDFS},
	{"xsd", XSD},
	{"owl", OWL},
	{"rico", RiCO},
	{"gn", GeoNames},
	{"wgs84", WGS84},
}

// domainPrefixes lists prefix and path segment under the base. Record and
// RecordSet keep their capitalised paths.
var domainPrefixes = []struct{ prefix, path string }{
	{PrefixTemp, "temp"},
	{PrefixStorageID, "storageid"},
	{PrefixType, "type"},
	{PrefixCorporateBody, "corporateBody"},
	{PrefixRecord, "Record"},
	{PrefixRecordSet, "RecordSet"},
	{PrefixPlace, "place"},
	{PrefixPhysLoc, "physloc"},
	{PrefixDate, "date"},
	{PrefixInternalIdentifier, "internalIdentifier"},
	{PrefixTitle, "title"},
	{PrefixInst, "inst"},
	{PrefixPerson, "person"},
	{PrefixAgent, "agent"},
}
