package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	ProfileImageURL string             `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Role            Role               `bson:"role" json:"role"`
	Company         primitive.ObjectID `bson:"company" json:"company"`
	Team            string             `bson:"team" json:"team"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TeamMember je projekcija korisnika bez lozinke, vraća se tasks-servisu.
type TeamMember struct {
	ID              primitive.ObjectID `json:"_id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	ProfileImageURL string             `json:"profileImageUrl,omitempty"`
}

func (u User) AsTeamMember() TeamMember {
	return TeamMember{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}
