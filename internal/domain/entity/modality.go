package entity

// Modality is a named imaging specialization (MRI, CT, ...). Rows are
// created lazily the first time a name is referenced.
type Modality struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

func (Modality) TableName() string {
	return "modalities"
}

// StudyType couples a modality name with the average duration of one
// study in minutes. The slice order is the report order of the
// staffing analyzer and the column order of exports.
type StudyType struct {
	Name    string
	Minutes int
}

var StudyTypes = []StudyType{
	{Name: "Densitometry", Minutes: 10},
	{Name: "CT", Minutes: 15},
	{Name: "CT with contrast, 1 zone", Minutes: 30},
	{Name: "CT with contrast, 2+ zones", Minutes: 45},
	{Name: "Mammography", Minutes: 10},
	{Name: "MRI", Minutes: 30},
	{Name: "MRI with contrast, 1 zone", Minutes: 45},
	{Name: "MRI with contrast, 2+ zones", Minutes: 75},
	{Name: "X-ray", Minutes: 5},
	{Name: "Fluorography", Minutes: 5},
}

// UnforecastStudyType has no trained forecast model; when no observed
// count exists for a week its volume is taken as UnforecastWeeklyCount.
const (
	UnforecastStudyType   = "MRI with contrast, 2+ zones"
	UnforecastWeeklyCount = 20.0
)
