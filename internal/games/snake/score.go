package snake

// Score counts food eaten. It only ever goes up.
type Score struct {
	eaten int
}

// RecordConsumption counts one eaten food.
func (s *Score) RecordConsumption() {
	s.eaten++
}

// Eaten returns the number of food eaten so far.
func (s *Score) Eaten() int {
	return s.eaten
}
