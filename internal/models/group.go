package models

import "time"

// Group is a set of users sharing games, bets and wins
type Group struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CreatedBy     int64     `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GroupMember is the public view of a user within a group
type GroupMember struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GroupWithMembers combines a group with its member information
type GroupWithMembers struct {
	Group
	Members []GroupMember `json:"members"`
}
