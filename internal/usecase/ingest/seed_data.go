package ingest

import (
	"farmwatch/internal/domain/violation"
)

// seedRecords returns the hand-curated baseline set: documented enforcement
// cases against large animal-feeding operations and meat processors. Each
// carries the SEED- prefix on its natural id so it can never collide with a
// network source.
func seedRecords() []violation.Record {
	return []violation.Record{
		{
			FacilityName:  "Smithfield Foods - Circle Four Farms",
			Location:      violation.Ptr("Milford, UT"),
			State:         violation.Ptr("UT"),
			County:        violation.Ptr("Beaver"),
			Latitude:      violation.Ptr(38.3969),
			Longitude:     violation.Ptr(-113.0108),
			ViolationType: violation.Ptr("Clean Water Act - CAFO"),
			Date:          violation.Ptr("2021-03-18"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-001"),
			Description:   violation.Ptr("CAFO Type: Hog Operations. One of the largest hog production complexes in the country; cited for wastewater lagoon discharges reaching groundwater."),
			Severity:      violation.Ptr(violation.SeverityHigh),
			PenaltyAmount: violation.Ptr(230000.0),
		},
		{
			FacilityName:  "Tyson Foods - Sedalia Processing Plant",
			Location:      violation.Ptr("Sedalia, MO"),
			State:         violation.Ptr("MO"),
			County:        violation.Ptr("Pettis"),
			Latitude:      violation.Ptr(38.7045),
			Longitude:     violation.Ptr(-93.2283),
			ViolationType: violation.Ptr("Clean Water Act"),
			Date:          violation.Ptr("2019-06-24"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-002"),
			Description:   violation.Ptr("Discharge of untreated poultry processing wastewater into a tributary; federal criminal plea with remediation requirements."),
			Severity:      violation.Ptr(violation.SeverityHigh),
			PenaltyAmount: violation.Ptr(2000000.0),
		},
		{
			FacilityName:  "JBS Swift Beef - Greeley Plant",
			Location:      violation.Ptr("Greeley, CO"),
			State:         violation.Ptr("CO"),
			County:        violation.Ptr("Weld"),
			Latitude:      violation.Ptr(40.4233),
			Longitude:     violation.Ptr(-104.6914),
			ViolationType: violation.Ptr("Clean Water Act"),
			Date:          violation.Ptr("2020-09-30"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-003"),
			Description:   violation.Ptr("Repeated effluent limit exceedances at the beef slaughter facility's pretreatment system."),
			Severity:      violation.Ptr(violation.SeverityMedium),
			PenaltyAmount: violation.Ptr(435000.0),
		},
		{
			FacilityName:  "Foster Farms - Livingston Poultry Complex",
			Location:      violation.Ptr("Livingston, CA"),
			State:         violation.Ptr("CA"),
			County:        violation.Ptr("Merced"),
			Latitude:      violation.Ptr(37.3866),
			Longitude:     violation.Ptr(-120.7235),
			ViolationType: violation.Ptr("Food Safety Recall - Meat/Poultry"),
			Date:          violation.Ptr("2014-07-03"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-004"),
			Description:   violation.Ptr("Product: Fresh chicken. Reason: Multidrug-resistant Salmonella Heidelberg outbreak traced to the complex. Classification: Class I."),
			Severity:      violation.Ptr(violation.SeverityHigh),
			PenaltyAmount: nil,
		},
		{
			FacilityName:  "Fair Oaks Farms",
			Location:      violation.Ptr("Fair Oaks, IN"),
			State:         violation.Ptr("IN"),
			County:        violation.Ptr("Newton"),
			Latitude:      violation.Ptr(41.0869),
			Longitude:     violation.Ptr(-87.2625),
			ViolationType: violation.Ptr("Animal Welfare"),
			Date:          violation.Ptr("2019-06-12"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-005"),
			Description:   violation.Ptr("Documented mistreatment of dairy calves at one of the largest dairy CAFOs in the Midwest; criminal charges against employees."),
			Severity:      violation.Ptr(violation.SeverityMedium),
			PenaltyAmount: nil,
		},
		{
			FacilityName:  "Rose Acre Farms - Hyde County Egg Facility",
			Location:      violation.Ptr("Scranton, NC"),
			State:         violation.Ptr("NC"),
			County:        violation.Ptr("Hyde"),
			Latitude:      violation.Ptr(35.4760),
			Longitude:     violation.Ptr(-76.4463),
			ViolationType: violation.Ptr("Clean Water Act - CAFO"),
			Date:          violation.Ptr("2018-04-12"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-006"),
			Description:   violation.Ptr("CAFO Type: Egg Production. Ammonia-laden ventilation discharges into adjacent waters contested under NPDES permitting."),
			Severity:      violation.Ptr(violation.SeverityMedium),
			PenaltyAmount: nil,
		},
		{
			FacilityName:  "Mountaire Farms - Millsboro Plant",
			Location:      violation.Ptr("Millsboro, DE"),
			State:         violation.Ptr("DE"),
			County:        violation.Ptr("Sussex"),
			Latitude:      violation.Ptr(38.5912),
			Longitude:     violation.Ptr(-75.2910),
			ViolationType: violation.Ptr("Clean Water Act"),
			Date:          violation.Ptr("2021-05-10"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-007"),
			Description:   violation.Ptr("Spray irrigation of under-treated poultry wastewater contaminated groundwater and private wells; consent decree required treatment plant rebuild."),
			Severity:      violation.Ptr(violation.SeverityHigh),
			PenaltyAmount: violation.Ptr(600000.0),
		},
		{
			FacilityName:  "Boar's Head - Jarratt Plant",
			Location:      violation.Ptr("Jarratt, VA"),
			State:         violation.Ptr("VA"),
			County:        violation.Ptr("Greensville"),
			Latitude:      violation.Ptr(36.8126),
			Longitude:     violation.Ptr(-77.4747),
			ViolationType: violation.Ptr("Food Safety Recall - Meat/Poultry"),
			Date:          violation.Ptr("2024-07-26"),
			Source:        violation.SourceCurated,
			SourceID:      violation.Ptr("SEED-008"),
			Description:   violation.Ptr("Product: Ready-to-eat deli meats. Reason: Listeria monocytogenes outbreak; repeated sanitation noncompliance records at the plant. Classification: Class I."),
			Severity:      violation.Ptr(violation.SeverityHigh),
			PenaltyAmount: nil,
		},
	}
}
