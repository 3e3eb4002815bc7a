package ingest

import (
	"strconv"
	"strings"
	"time"

	"farmwatch/internal/domain/violation"
	"farmwatch/internal/infrastructure/echoapi"
)

// SIC industry classification codes for livestock operations, the
// categories the ECHO fetcher partitions its work by.
var cafoSICCodes = []string{"0211", "0213", "0251", "0252", "0253"}

var sicNames = map[string]string{
	"0211": "Beef Cattle Feedlots",
	"0213": "Hog Operations",
	"0251": "Broiler/Fryer Chickens",
	"0252": "Egg Production",
	"0253": "Turkey Operations",
}

// echoSeverity rates a facility from its compliance signals: High when the
// significant-noncompliance status is flagged, Medium when the compliance
// status text mentions a violation, Low otherwise.
func echoSeverity(sncStatus, complianceStatus string) violation.Severity {
	if strings.Contains(strings.ToUpper(sncStatus), "S") {
		return violation.SeverityHigh
	}
	if strings.Contains(strings.ToLower(complianceStatus), "violation") {
		return violation.SeverityMedium
	}
	return violation.SeverityLow
}

// shouldDropFacility filters out facilities with no evidence of any issue:
// zero quarters in noncompliance, Low severity, and no penalty on record.
// Preserved as-is; it is a policy heuristic, not an upstream rule.
func shouldDropFacility(qtrsNC int, severity violation.Severity, lastPenaltyDate string) bool {
	return qtrsNC == 0 && severity == violation.SeverityLow && lastPenaltyDate == ""
}

// echoDate converts ECHO's MM/DD/YYYY stamps to ISO form; anything else
// yields absent.
func echoDate(raw string) *string {
	t, err := time.Parse("01/02/2006", strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}

// echoCoordinates parses the facility point; the pair is kept only when
// both halves parse.
func echoCoordinates(rawLat, rawLong string) (*float64, *float64) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	long, errLong := strconv.ParseFloat(strings.TrimSpace(rawLong), 64)
	if errLat != nil || errLong != nil {
		return nil, nil
	}
	return &lat, &long
}

// FacilityViolation normalizes one ECHO facility into the canonical shape.
// A nil return means the record was dropped as likely noise.
func FacilityViolation(facility echoapi.Facility, sicCode string) *violation.Record {
	name := facility.CWPName
	if name == "" {
		name = "Unknown"
	}

	severity := echoSeverity(facility.CWPSNCStatus, facility.CWPComplianceStatus)
	qtrsNC := parseIntOrZero(facility.CWPQtrsWithNC)

	if shouldDropFacility(qtrsNC, severity, facility.CWPDateLastPenalty) {
		return nil
	}

	cafoType := sicNames[sicCode]
	if cafoType == "" {
		cafoType = sicCode
	}

	qtrsPart := ""
	if qtrsNC > 0 {
		qtrsPart = "Quarters in Non-Compliance: " + strconv.Itoa(qtrsNC)
	}
	eaPart := ""
	if count := facility.CWPFormalEaCount; count != "" && count != "0" {
		eaPart = "Formal Enforcement Actions: " + count
	}

	description := truncateDescription(joinParts(
		"CAFO Type: "+cafoType,
		labeled("Permit Status", facility.CWPPermitStatusDesc),
		labeled("Compliance", facility.CWPComplianceStatus),
		qtrsPart,
		eaPart,
	))

	date := echoDate(facility.CWPDateLastPenalty)
	if date == nil {
		date = echoDate(facility.CWPDateLastInspection)
	}

	lat, long := echoCoordinates(facility.FacLat, facility.FacLong)

	return &violation.Record{
		FacilityName:  name,
		Location:      violation.OptString(joinNonEmpty(", ", facility.CWPStreet, facility.CWPCity, facility.CWPState)),
		State:         violation.OptString(strings.ToUpper(facility.CWPState)),
		County:        violation.OptString(facility.CWPCounty),
		Latitude:      lat,
		Longitude:     long,
		ViolationType: violation.Ptr("Clean Water Act - CAFO"),
		Date:          date,
		Source:        violation.SourceEPAEcho,
		SourceID:      violation.Ptr("ECHO-CWA-" + facility.SourceID),
		Description:   violation.OptString(description),
		Severity:      &severity,
		PenaltyAmount: parseCurrency(facility.CWPTotalPenalties),
	}
}
