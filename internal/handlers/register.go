package handlers

import "qrdaconv/internal/registry"

// Register adds every QRDA handler to b.
func Register(b *registry.Builder) *registry.Builder {
	return b.
		RegisterDecoder(ClinicalDocumentID, func() registry.Decoder { return clinicalDocumentDecoder{} }).
		RegisterEncoder(ClinicalDocumentID, func() registry.Encoder { return clinicalDocumentEncoder{} }).
		RegisterDecoder(ReportingParametersActID, func() registry.Decoder { return reportingParametersDecoder{} }).
		RegisterEncoder(ReportingParametersActID, func() registry.Encoder { return reportingParametersEncoder{} }).
		RegisterDecoder(ACISectionID, func() registry.Decoder { return sectionDecoder{category: "aci"} }).
		RegisterEncoder(ACISectionID, func() registry.Encoder { return sectionEncoder{measureID: ACIProportionMeasureID} }).
		RegisterDecoder(ACIProportionMeasureID, func() registry.Decoder { return proportionDecoder{} }).
		RegisterEncoder(ACIProportionMeasureID, func() registry.Encoder { return proportionEncoder{} }).
		RegisterDecoder(ACINumeratorID, func() registry.Decoder { return countHolderDecoder{} }).
		RegisterEncoder(ACINumeratorID, func() registry.Encoder { return countHolderEncoder{field: "numerator"} }).
		RegisterDecoder(ACIDenominatorID, func() registry.Decoder { return countHolderDecoder{} }).
		RegisterEncoder(ACIDenominatorID, func() registry.Encoder { return countHolderEncoder{field: "denominator"} }).
		RegisterDecoder(AggregateCountID, func() registry.Decoder { return aggregateCountDecoder{} }).
		RegisterEncoder(AggregateCountID, func() registry.Encoder { return aggregateCountEncoder{} }).
		RegisterDecoder(IASectionID, func() registry.Decoder { return sectionDecoder{category: "ia"} }).
		RegisterEncoder(IASectionID, func() registry.Encoder { return sectionEncoder{measureID: IAMeasureID} }).
		RegisterDecoder(IAMeasureID, func() registry.Decoder { return iaMeasureDecoder{} }).
		RegisterEncoder(IAMeasureID, func() registry.Encoder { return iaMeasureEncoder{} })
}

// NewRegistry builds the registry used by the converter.
func NewRegistry() (*registry.Registry, error) {
	return Register(registry.NewBuilder()).Build()
}
