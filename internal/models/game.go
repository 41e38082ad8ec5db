package models

import "time"

type Game struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	GroupID   int64     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Bet struct {
	ID          int64     `json:"id"`
	GameID      int64     `json:"game_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Win records that a group member won a game
type Win struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry counts a member's wins in one game. Members with no wins appear with zero.
type LeaderboardEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	WinCount int64  `json:"win_count"`
}
