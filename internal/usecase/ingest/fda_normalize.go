package ingest

import (
	"farmwatch/internal/domain/violation"
	"farmwatch/internal/infrastructure/openfda"
)

// recallSeverity maps the FDA three-way recall classification to a
// severity. Class I is dangerous or defective with serious health
// consequences; Class III is unlikely to cause harm. An unrecognized
// classification defaults to Medium; this is a preserved policy choice, not
// an upstream-documented rule.
func recallSeverity(classification string) violation.Severity {
	switch classification {
	case "Class I":
		return violation.SeverityHigh
	case "Class II":
		return violation.SeverityMedium
	case "Class III":
		return violation.SeverityLow
	default:
		return violation.SeverityMedium
	}
}

// recallDate converts the API's 8-digit YYYYMMDD stamp to ISO form. Any
// other length (truncated, empty, free text) yields absent, never an error.
func recallDate(raw string) *string {
	if len(raw) != 8 {
		return nil
	}
	iso := raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	return &iso
}

// recallState keeps only well-formed 2-letter codes; openFDA state fields
// occasionally carry free text.
func recallState(raw string) *string {
	if len(raw) != 2 {
		return nil
	}
	return &raw
}

// RecallViolation normalizes one openFDA enforcement record into the
// canonical shape. It never fails: malformed optional fields become absent.
func RecallViolation(recall openfda.Enforcement) violation.Record {
	firm := recall.RecallingFirm
	if firm == "" {
		firm = "Unknown"
	}

	description := truncateDescription(joinParts(
		labeled("Product", recall.ProductDescription),
		labeled("Reason", recall.ReasonForRecall),
		labeled("Quantity", recall.ProductQuantity),
		labeled("Distribution", recall.DistributionPattern),
		labeled("Type", recall.VoluntaryMandated),
		labeled("Classification", recall.Classification),
	))

	severity := recallSeverity(recall.Classification)

	return violation.Record{
		FacilityName:  firm,
		Location:      violation.OptString(joinNonEmpty(", ", recall.City, recall.State)),
		State:         recallState(recall.State),
		County:        nil,
		Latitude:      nil,
		Longitude:     nil,
		ViolationType: violation.Ptr("Food Safety Recall - Meat/Poultry"),
		Date:          recallDate(recall.RecallInitiationDate),
		Source:        violation.SourceFSIS,
		SourceID:      violation.Ptr("FDA-" + recall.RecallNumber),
		Description:   violation.OptString(description),
		Severity:      &severity,
		PenaltyAmount: nil,
	}
}
