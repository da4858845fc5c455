package handlers

import (
	"strings"

	"github.com/beevik/etree"

	"qrdaconv/internal/decode"
	"qrdaconv/internal/jsonwrap"
	"qrdaconv/internal/node"
	"qrdaconv/internal/registry"
	"qrdaconv/internal/validation"
)

const (
	assignedEntityPath = "./documentationOf/serviceEvent/performer/assignedEntity"
	programPath        = "./informationRecipient/intendedRecipient/id"
	npiPath            = assignedEntityPath + "/id[@root='" + npiRoot + "']"
	tinPath            = assignedEntityPath + "/representedOrganization/id[@root='" + tinRoot + "']"
	siteAddressPath    = assignedEntityPath + "/representedOrganization/addr"
)

// clinicalDocumentDecoder reads the submission identifiers from the
// document header and leaves the body to the section decoders.
type clinicalDocumentDecoder struct{}

func (clinicalDocumentDecoder) Decode(el *etree.Element, n *node.Node, scope registry.DecodeScope) (registry.DecodeResult, error) {
	if program, ok := decode.AttrAt(el, programPath, "extension"); ok {
		n.PutValue(programNameKey, strings.ToLower(program))
	} else if !decode.InjectDefault(scope, n, programNameKey, defaultProgramName) {
		reportWarning(scope, el, n, validation.RefClinicalDocument, "program name is missing from informationRecipient")
	}

	tin, hasTIN := decode.AttrAt(el, tinPath, "extension")
	npi, hasNPI := decode.AttrAt(el, npiPath, "extension")
	if hasTIN {
		n.PutValue(tinKey, tin)
	} else {
		reportError(scope, el, n, validation.RefIdentifiers, "taxpayer identification number (TIN) is required")
	}
	if hasNPI {
		n.PutValue(npiKey, npi)
	}

	switch {
	case hasNPI:
		n.PutValue(entityTypeKey, "individual")
	case hasTIN:
		n.PutValue(entityTypeKey, "group")
	default:
		decode.InjectDefault(scope, n, entityTypeKey, defaultEntityType)
		reportError(scope, el, n, validation.RefIdentifiers, "national provider identifier (NPI) is required for an individual submission")
	}

	if decode.Find(el, siteAddressPath) == nil {
		reportWarning(scope, el, n, validation.RefPracticeSiteAddress, "practice site address is missing")
	}
	return registry.TreeContinue, nil
}

// clinicalDocumentEncoder writes the submission header and one measurement
// set per reporting section.
type clinicalDocumentEncoder struct{}

func (clinicalDocumentEncoder) Encode(w *jsonwrap.Wrapper, n *node.Node, scope registry.EncodeScope) error {
	for _, key := range []string{programNameKey, entityTypeKey, tinKey, npiKey} {
		if value, ok := n.Value(key); ok {
			if err := w.PutString(key, value); err != nil {
				return err
			}
		}
	}

	var start, end string
	if act := n.FindFirst(ReportingParametersActID); act != nil {
		start = act.ValueOr(performanceStartKey, "")
		end = act.ValueOr(performanceEndKey, "")
	}
	if len(start) >= 4 {
		if err := w.PutInteger("performanceYear", start[:4]); err != nil {
			return err
		}
	}

	sets, err := w.List("measurementSets")
	if err != nil {
		return err
	}
	for _, section := range collect(n, ACISectionID, IASectionID) {
		set := jsonwrap.NewObject()
		if err := scope.EncodeChild(set, section); err != nil {
			return err
		}
		if start != "" {
			if err := set.PutString(performanceStartKey, start); err != nil {
				return err
			}
		}
		if end != "" {
			if err := set.PutString(performanceEndKey, end); err != nil {
				return err
			}
		}
		if err := sets.Append(set); err != nil {
			return err
		}
	}
	return nil
}
