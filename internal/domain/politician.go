package domain

// Politician is the committee entity contributions reference (the admin pages
// call them politicians, event lists call them PACs; same record).
type Politician struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Iden      string `gorm:"uniqueIndex;size:64" json:"iden"`
	Name      string `gorm:"size:200" json:"name"`
	CreatedAt int64  `json:"createdAt"`
}
