package queue

// Routing keys on the topic exchange.
const (
	KeyUserRegistered       = "user.registered"
	KeyContributionRecorded = "contribution.recorded"
)

type UserRegistered struct {
	UserIden string `json:"userIden"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type ContributionRecorded struct {
	ContributionIden string `json:"contributionIden"`
	UserIden         string `json:"userIden"`
	EventIden        string `json:"eventIden"`
	PacIden          string `json:"pacIden"`
	Amount           int64  `json:"amount"`
	Support          bool   `json:"support"`
}
