package domain

// Contribution is the ledger row for a completed charge. Rows are written once
// after the gateway accepts the charge and never mutated. Amount is in whole
// dollars; the gateway is charged in cents at the call boundary.
type Contribution struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	Iden       string `gorm:"uniqueIndex;size:64" json:"iden"`
	ChargeIden string `gorm:"size:64" json:"chargeIden"`
	UserIden   string `gorm:"index;size:64" json:"userIden"`
	EventIden  string `gorm:"index;size:64" json:"eventIden"`
	PacIden    string `gorm:"index;size:64" json:"pacIden"`
	Amount     int64  `json:"amount"`
	Support    bool   `json:"support"`
	CreatedAt  int64  `json:"createdAt"`
	ModifiedAt int64  `json:"modifiedAt"`
}
