package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a schedulable, votable item such as a match. Timestamps are kept
// as canonical ISO strings (see FormatISO), not BSON dates.
type Event struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title               string             `bson:"title" json:"title"`
	StartTime           string             `bson:"startTime" json:"startTime"`
	EndTime             string             `bson:"endTime" json:"endTime"`
	EventType           string             `bson:"eventType" json:"eventType"`
	Status              string             `bson:"status" json:"status"`
	SportType           *string            `bson:"sportType,omitempty" json:"sportType,omitempty"`
	Teams               []string           `bson:"teams" json:"teams"`
	TotalVotes          int64              `bson:"totalVotes" json:"totalVotes"`
	RecentComments      int64              `bson:"recentComments" json:"recentComments"`
	CoverImage          *string            `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Description         string             `bson:"description" json:"description"`
	Location            string             `bson:"location" json:"location"`
	FeaturedParticipant string             `bson:"featuredParticipant" json:"featuredParticipant"`
	CreatedAt           string             `bson:"createdAt" json:"createdAt"`
	UpdatedAt           string             `bson:"updatedAt" json:"updatedAt"`
}
