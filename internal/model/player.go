package model

const AIPlayerID = "ai"

type Player struct {
	ID    string
	Color Color
	Score int
	IsAI  bool
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Color Color  `json:"color"`
	Score int    `json:"score"`
	IsAI  bool   `json:"isAI"`
}

func (p *Player) client() ClientPlayer {
	return ClientPlayer{ID: p.ID, Color: p.Color, Score: p.Score, IsAI: p.IsAI}
}
