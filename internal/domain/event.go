package domain

// Event is a political event with the politician idens it supports and
// opposes. A politician iden should appear in at most one of the two lists;
// membership decides the polarity of a contribution made against the event.
type Event struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	Iden        string   `gorm:"uniqueIndex;size:64" json:"iden"`
	Name        string   `gorm:"size:200" json:"name"`
	SupportPacs []string `gorm:"serializer:json" json:"supportPacs"`
	OpposePacs  []string `gorm:"serializer:json" json:"opposePacs"`
	CreatedAt   int64    `json:"createdAt"`
}

// Side reports the polarity of pacIden for the event. ok is false when the
// iden is in neither list, or in both.
func (e *Event) Side(pacIden string) (support, ok bool) {
	s := contains(e.SupportPacs, pacIden)
	o := contains(e.OpposePacs, pacIden)
	if s == o {
		return false, false
	}
	return s, true
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
