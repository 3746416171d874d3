package l1percepts

// Scene is a read-only view over one tick's filtered objects from the
// point of view of one team.
type Scene struct {
	Objects []FilteredObject
	Team    string

	Ball            *FilteredObject
	OwnGoal         *FilteredObject
	OpponentGoal    *FilteredObject
	NearestOpponent *FilteredObject
	NearestMate     *FilteredObject
}

// NewScene indexes filtered objects for a team defending ownGoal.
func NewScene(objects []FilteredObject, team, ownGoal, opponentGoal string) Scene {
	s := Scene{Objects: objects, Team: team}
	s.Ball = s.Nearest(func(o FilteredObject) bool { return o.Name == BallName })
	s.OwnGoal = s.Nearest(func(o FilteredObject) bool { return o.Name == ownGoal })
	s.OpponentGoal = s.Nearest(func(o FilteredObject) bool { return o.Name == opponentGoal })
	s.NearestOpponent = s.Nearest(s.IsOpponent)
	s.NearestMate = s.Nearest(s.IsMate)
	return s
}

// Nearest returns the closest object with a known distance that matches
// pred, or nil.
func (s Scene) Nearest(pred func(FilteredObject) bool) *FilteredObject {
	var best *FilteredObject
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.Distance == nil || !pred(*o) {
			continue
		}
		if best == nil || *o.Distance < *best.Distance {
			best = o
		}
	}
	return best
}

// IsOpponent reports whether o is a player of a known, different team.
func (s Scene) IsOpponent(o FilteredObject) bool {
	return o.Kind == KindPlayer && o.Team != "" && o.Team != s.Team
}

// IsMate reports whether o is a player of our team or of unknown team.
func (s Scene) IsMate(o FilteredObject) bool {
	return o.Kind == KindPlayer && (o.Team == "" || o.Team == s.Team)
}

// Opponents returns opponents that have both range and bearing.
func (s Scene) Opponents() []FilteredObject {
	return s.filter(s.IsOpponent)
}

// Mates returns teammates (or unidentified players) with range and bearing.
func (s Scene) Mates() []FilteredObject {
	return s.filter(s.IsMate)
}

// Players returns every player with range and bearing.
func (s Scene) Players() []FilteredObject {
	return s.filter(func(o FilteredObject) bool { return o.Kind == KindPlayer })
}

func (s Scene) filter(pred func(FilteredObject) bool) []FilteredObject {
	var out []FilteredObject
	for _, o := range s.Objects {
		if o.HasRange() && pred(o) {
			out = append(out, o)
		}
	}
	return out
}
