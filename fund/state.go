package fund

import "fmt"

// State is the lifecycle position of a project.
type State uint8

const (
	Fundraising State = iota
	Expired
	Successful
)

var stateNames = []string{"Fundraising", "Expired", "Successful"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) IsTerminal() bool {
	return s == Expired || s == Successful
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown project state %q", b)
}
