package validation

import "strconv"

// Reference points at a page of the QRDA-III implementation guide that
// explains the rule a finding enforces.
type Reference int

const (
	RefNone Reference = iota
	RefIdentifiers
	RefClinicalDocument
	RefPracticeSiteAddress
	RefReportingParametersAct
	RefMeasureIDs
)

const guideBaseURL = "https://ecqi.healthit.gov/system/files/eCQM_QRDA_EC-508_0.pdf#page="

var referencePages = map[Reference]int{
	RefIdentifiers:            15,
	RefClinicalDocument:       19,
	RefPracticeSiteAddress:    25,
	RefReportingParametersAct: 80,
	RefMeasureIDs:             88,
}

// String returns the guide URL, or an empty string for RefNone.
func (r Reference) String() string {
	page, ok := referencePages[r]
	if !ok {
		return ""
	}
	return guideBaseURL + strconv.Itoa(page)
}
