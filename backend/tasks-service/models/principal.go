package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal je identitet prijavljenog pozivaoca kako ga je utvrdio
// users-service: id, uloga, tim i kompanija iz JWT claims-a.
type Principal struct {
	UserID  primitive.ObjectID
	Email   string
	Role    Role
	Team    string
	Company string
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
