package models

// Team is keyed by the identifier callers put in Event.Teams.
// It is created lazily and never modified afterwards.
type Team struct {
	ID        string `bson:"_id" json:"id"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
}
