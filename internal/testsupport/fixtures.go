package testsupport

// QRDADocument is a small but complete QRDA-III report with an ACI and an
// IA section.
const QRDADocument = `<?xml version="1.0" encoding="utf-8"?>
<ClinicalDocument xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
	<templateId root="2.16.840.1.113883.10.20.27.1.1" extension="2016-09-01"/>
	<templateId root="2.16.840.1.113883.10.20.27.1.2" extension="2016-11-01"/>
	<informationRecipient>
		<intendedRecipient>
			<id root="2.16.840.1.113883.3.249.7" extension="MIPS"/>
		</intendedRecipient>
	</informationRecipient>
	<documentationOf>
		<serviceEvent>
			<performer typeCode="PRF">
				<assignedEntity>
					<id root="2.16.840.1.113883.4.6" extension="2567891421"/>
					<representedOrganization>
						<id root="2.16.840.1.113883.4.2" extension="123456789"/>
						<addr>
							<streetAddressLine>1 Main St</streetAddressLine>
							<city>Baltimore</city>
						</addr>
					</representedOrganization>
				</assignedEntity>
			</performer>
		</serviceEvent>
	</documentationOf>
	<component>
		<structuredBody>
			<component>
				<section>
					<templateId root="2.16.840.1.113883.10.20.17.2.1"/>
					<entry typeCode="DRIV">
						<act classCode="ACT" moodCode="EVN">
							<templateId root="2.16.840.1.113883.10.20.17.3.8"/>
							<effectiveTime>
								<low value="20170101"/>
								<high value="20171231"/>
							</effectiveTime>
						</act>
					</entry>
				</section>
			</component>
			<component>
				<section>
					<templateId root="2.16.840.1.113883.10.20.27.2.5" extension="2016-09-01"/>
					<entry>
` + ACIProportionOrganizer + `
					</entry>
				</section>
			</component>
			<component>
				<section>
					<templateId root="2.16.840.1.113883.10.20.27.2.4"/>
					<entry>
						<observation classCode="OBS" moodCode="EVN">
							<templateId root="2.16.840.1.113883.10.20.27.3.33"/>
							<reference typeCode="REFR">
								<externalDocument classCode="DOC" moodCode="EVN">
									<id root="2.16.840.1.113883.3.7034" extension="IA_EPA_1"/>
								</externalDocument>
							</reference>
							<component>
								<observation classCode="OBS" moodCode="EVN">
									<templateId root="2.16.840.1.113883.10.20.27.3.27"/>
									<value xsi:type="CD" code="Y"/>
								</observation>
							</component>
						</observation>
					</entry>
				</section>
			</component>
		</structuredBody>
	</component>
</ClinicalDocument>
`

// ACIProportionOrganizer is an ACI numerator/denominator measure with a
// performance rate, numerator 600 and denominator 800.
const ACIProportionOrganizer = `<organizer classCode="CLUSTER" moodCode="EVN">
	<templateId root="2.16.840.1.113883.10.20.24.3.98"/>
	<templateId root="2.16.840.1.113883.10.20.27.3.28" extension="2016-09-01"/>
	<id root="ac575aef-7062-4ea2-b723-df517cfa470a"/>
	<statusCode code="completed"/>
	<reference typeCode="REFR">
		<externalDocument classCode="DOC" moodCode="EVN">
			<id root="2.16.840.1.113883.3.7031" extension="ACI-PEA-1"/>
			<text>Patient Access</text>
		</externalDocument>
	</reference>
	<component>
		<observation classCode="OBS" moodCode="EVN">
			<templateId root="2.16.840.1.113883.10.20.27.3.30" extension="2016-09-01"/>
			<code code="72510-1" codeSystem="2.16.840.1.113883.6.1" displayName="Performance Rate"/>
			<statusCode code="completed"/>
			<value xsi:type="REAL" value="0.750000"/>
		</observation>
	</component>
	<component>
		<observation classCode="OBS" moodCode="EVN">
			<templateId root="2.16.840.1.113883.10.20.27.3.31" extension="2016-09-01"/>
			<code code="ASSERTION" codeSystem="2.16.840.1.113883.5.4"/>
			<statusCode code="completed"/>
			<value xsi:type="CD" code="NUMER" codeSystem="2.16.840.1.113883.5.4"/>
			<entryRelationship typeCode="SUBJ" inversionInd="true">
				<observation classCode="OBS" moodCode="EVN">
					<templateId root="2.16.840.1.113883.10.20.27.3.3"/>
					<code code="MSRAGG" codeSystem="2.16.840.1.113883.5.4"/>
					<statusCode code="completed"/>
					<value xsi:type="INT" value="600"/>
					<methodCode code="COUNT" codeSystem="2.16.840.1.113883.5.84"/>
				</observation>
			</entryRelationship>
		</observation>
	</component>
	<component>
		<observation classCode="OBS" moodCode="EVN">
			<templateId root="2.16.840.1.113883.10.20.27.3.32" extension="2016-09-01"/>
			<code code="ASSERTION" codeSystem="2.16.840.1.113883.5.4"/>
			<statusCode code="completed"/>
			<value xsi:type="CD" code="DENOM" codeSystem="2.16.840.1.113883.5.4"/>
			<entryRelationship typeCode="SUBJ" inversionInd="true">
				<observation classCode="OBS" moodCode="EVN">
					<templateId root="2.16.840.1.113883.10.20.27.3.3"/>
					<code code="MSRAGG" codeSystem="2.16.840.1.113883.5.4"/>
					<statusCode code="completed"/>
					<value xsi:type="INT" value="800"/>
					<methodCode code="COUNT" codeSystem="2.16.840.1.113883.5.84"/>
				</observation>
			</entryRelationship>
		</observation>
	</component>
</organizer>`

// ACIProportionEntry wraps ACIProportionOrganizer in a bare entry element.
const ACIProportionEntry = `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
` + ACIProportionOrganizer + `
</entry>`

// MalformedXML is not well-formed.
const MalformedXML = `<?xml version="1.0"?><ClinicalDocument><component></ClinicalDocument>`

// QRDADocumentJSON is the expected conversion of QRDADocument.
const QRDADocumentJSON = `{
  "programName": "mips",
  "entityType": "individual",
  "taxpayerIdentificationNumber": "123456789",
  "nationalProviderIdentifier": "2567891421",
  "performanceYear": 2017,
  "measurementSets": [
    {
      "category": "aci",
      "submissionMethod": "electronicHealthRecord",
      "measurements": [
        {
          "measureId": "ACI-PEA-1",
          "value": {
            "numerator": 600,
            "denominator": 800
          }
        }
      ],
      "performanceStart": "2017-01-01",
      "performanceEnd": "2017-12-31"
    },
    {
      "category": "ia",
      "submissionMethod": "electronicHealthRecord",
      "measurements": [
        {
          "measureId": "IA_EPA_1",
          "value": true
        }
      ],
      "performanceStart": "2017-01-01",
      "performanceEnd": "2017-12-31"
    }
  ]
}
`

// IncompleteDocument is a clinical document with no identifiers or
// reporting period. It converts, but with error findings.
const IncompleteDocument = `<?xml version="1.0" encoding="utf-8"?>
<ClinicalDocument xmlns="urn:hl7-org:v3">
	<templateId root="2.16.840.1.113883.10.20.27.1.2"/>
</ClinicalDocument>`
