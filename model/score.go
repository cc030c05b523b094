package model

// Note is a single timed pitch. Times are in ticks.
type Note struct {
	Pitch    uint8 `json:"pitch"`
	Start    int   `json:"start"`
	End      int   `json:"end"`
	Velocity uint8 `json:"velocity"`
}

func (n Note) Duration() int {
	return n.End - n.Start
}

type Track struct {
	Program uint8  `json:"program"`
	IsDrum  bool   `json:"is_drum"`
	Name    string `json:"name,omitempty"`
	Notes   []Note `json:"notes"`
}

type Score struct {
	// ticks per quarter note
	Resolution int     `json:"resolution"`
	Tracks     []Track `json:"tracks"`
}

func (s *Score) NumNotes() int {
	var total int
	for _, t := range s.Tracks {
		total += len(t.Notes)
	}
	return total
}

// EndTick is the latest note end across all tracks.
func (s *Score) EndTick() int {
	var end int
	for _, t := range s.Tracks {
		for _, n := range t.Notes {
			if n.End > end {
				end = n.End
			}
		}
	}
	return end
}
