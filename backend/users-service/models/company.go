package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team je ugnežđeni dokument unutar kompanije. Vođa tima je uvek i član.
type Team struct {
	Name    string               `bson:"name" json:"name"`
	Lead    primitive.ObjectID   `bson:"lead" json:"lead"`
	Members []primitive.ObjectID `bson:"members" json:"members"`
}

type Company struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Teams     []Team             `bson:"teams" json:"teams"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindTeam returns the team with the given name, or nil.
func (c *Company) FindTeam(name string) *Team {
	for i := range c.Teams {
		if c.Teams[i].Name == name {
			return &c.Teams[i]
		}
	}
	return nil
}

// TeamLedBy returns the team whose lead is the given user, or nil.
func (c *Company) TeamLedBy(userID primitive.ObjectID) *Team {
	for i := range c.Teams {
		if c.Teams[i].Lead == userID {
			return &c.Teams[i]
		}
	}
	return nil
}
