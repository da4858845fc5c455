package handlers

// Template ids from the QRDA Category III implementation guide.
const (
	ClinicalDocumentID       = "2.16.840.1.113883.10.20.27.1.2"
	ReportingParametersActID = "2.16.840.1.113883.10.20.17.3.8"
	ACISectionID             = "2.16.840.1.113883.10.20.27.2.5"
	ACIProportionMeasureID   = "2.16.840.1.113883.10.20.27.3.28"
	ACINumeratorID           = "2.16.840.1.113883.10.20.27.3.31"
	ACIDenominatorID         = "2.16.840.1.113883.10.20.27.3.32"
	AggregateCountID         = "2.16.840.1.113883.10.20.27.3.3"
	IASectionID              = "2.16.840.1.113883.10.20.27.2.4"
	IAMeasureID              = "2.16.840.1.113883.10.20.27.3.33"
)

// Identifier roots for providers and organizations.
const (
	npiRoot = "2.16.840.1.113883.4.6"
	tinRoot = "2.16.840.1.113883.4.2"
)

const (
	defaultProgramName      = "mips"
	defaultEntityType       = "individual"
	defaultSubmissionMethod = "electronicHealthRecord"
)

// Node value keys shared between decoders and encoders.
const (
	programNameKey      = "programName"
	entityTypeKey       = "entityType"
	tinKey              = "taxpayerIdentificationNumber"
	npiKey              = "nationalProviderIdentifier"
	categoryKey         = "category"
	submissionMethodKey = "submissionMethod"
	measureIDKey        = "measureId"
	aggregateCountKey   = "aggregateCount"
	performedKey        = "measurePerformed"
	performanceStartKey = "performanceStart"
	performanceEndKey   = "performanceEnd"
)

const measureReferenceIDPath = "./reference/externalDocument/id"
