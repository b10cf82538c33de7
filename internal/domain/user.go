package domain

// User is the identity record kept in the key/value store. Iden is assigned
// once at registration and never changes; FacebookIden maps to at most one
// internal user.
type User struct {
	Iden          string `json:"iden"`
	FacebookIden  string `json:"-"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Occupation    string `json:"occupation"`
	Employer      string `json:"employer"`
	StreetAddress string `json:"streetAddress"`
	CityStateZip  string `json:"cityStateZip"`
	CreatedAt     int64  `json:"createdAt"`
	ModifiedAt    int64  `json:"modifiedAt"`
}
