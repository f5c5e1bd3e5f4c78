package types

// MatchRecord is the flat, serializable view of a Match used by the JSON
// outputs.
type MatchRecord struct {
	Name        string   `json:"name"`
	Matched     string   `json:"matched"`
	Origin      string   `json:"origin"`
	Bounded     bool     `json:"bounded"`
	Rarity      float64  `json:"rarity"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Exploit     string   `json:"exploit,omitempty"`
	Location    Location `json:"location"`
}

// NewMatchRecord flattens m. The URL is resolved against the matched text.
func NewMatchRecord(m *Match) MatchRecord {
	rec := MatchRecord{
		Matched:  m.Matched,
		Origin:   m.Origin,
		Bounded:  m.Bounded,
		Location: m.Location,
		Tags:     []string{},
	}
	if sig := m.Signature; sig != nil {
		rec.Name = sig.Name
		rec.Rarity = sig.Rarity
		rec.Description = sig.Description
		rec.URL = sig.LookupURL(m.Matched)
		rec.Exploit = sig.Exploit
		if sig.Tags != nil {
			rec.Tags = sig.Tags
		}
	}
	return rec
}

// NewMatchRecords flattens every match, keeping order.
func NewMatchRecords(ms []*Match) []MatchRecord {
	out := make([]MatchRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMatchRecord(m))
	}
	return out
}
