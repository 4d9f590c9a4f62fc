package models

// ReferencesModel carries related entities alongside an entry or list.
type ReferencesModel struct {
	Recordings []RecordingSummary `json:"recordings"`
	Studies    []StudyReference   `json:"studies"`
}

// StudyReference identifies the study a recording belongs to.
type StudyReference struct {
	Name     string `json:"name"`
	Instance string `json:"instance"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Recordings: []RecordingSummary{},
		Studies:    []StudyReference{},
	}
}
