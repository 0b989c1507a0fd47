package match

// TimeoutPosition is the sentinel a client submits instead of a cell
// index when its move clock ran out.
const TimeoutPosition = -1

// Command is one client-originated session event, decoded once at the
// transport boundary. The hub only ever sees these variants, never raw
// payloads.
type Command interface {
	isCommand()
}

// MoveCommand asks to place the sender's mark at Position, or to pass
// the turn when Position is the timeout sentinel.
type MoveCommand struct {
	Position int
}

// ForfeitCommand concedes the game to the opponent.
type ForfeitCommand struct{}

func (MoveCommand) isCommand()    {}
func (ForfeitCommand) isCommand() {}
