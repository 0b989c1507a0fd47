package entity

type Player struct {
	ID   string `json:"userId"`
	Name string `json:"username"`
	Mark string `json:"mark,omitempty"`
}

// Stats is the per-player record kept by the statistics collaborator.
type Stats struct {
	Score     int `json:"score"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Draws     int `json:"draws"`
	WinStreak int `json:"winStreak"`
}

// Profile is the account record kept by the profile collaborator.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
