package model

// Violation is the canonical store row. The composite unique index on
// (source, source_id) backs the insert-or-ignore upsert contract.
type Violation struct {
	ID            uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	FacilityName  string   `gorm:"column:facility_name;type:text;not null"`
	Location      *string  `gorm:"column:location;type:text"`
	State         *string  `gorm:"column:state;type:text;index"`
	County        *string  `gorm:"column:county;type:text"`
	Latitude      *float64 `gorm:"column:latitude"`
	Longitude     *float64 `gorm:"column:longitude"`
	ViolationType *string  `gorm:"column:violation_type;type:text;index"`
	Date          *string  `gorm:"column:date;type:text;index"`
	Source        string   `gorm:"column:source;type:text;not null;index;uniqueIndex:idx_violations_natural_key"`
	SourceID      *string  `gorm:"column:source_id;type:text;uniqueIndex:idx_violations_natural_key"`
	Description   *string  `gorm:"column:description;type:text"`
	Severity      *string  `gorm:"column:severity;type:text;index"`
	PenaltyAmount *float64 `gorm:"column:penalty_amount"`
	CreatedAt     string   `gorm:"column:created_at;type:text;not null"`
}

func (Violation) TableName() string {
	return "violations"
}
