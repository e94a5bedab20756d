package physics

import (
	"fmt"
	"strings"
)

// Lesson selects the force model that governs every body in the world.
type Lesson uint8

const (
	FreeFall Lesson = iota
	Kinematics
	Forces
	Friction
	WorkEnergy

	numLessons
)

var lessonNames = [numLessons]string{
	FreeFall:   "freefall",
	Kinematics: "kinematics",
	Forces:     "forces",
	Friction:   "friction",
	WorkEnergy: "workenergy",
}

func (l Lesson) String() string {
	if l >= numLessons {
		return fmt.Sprintf("lesson(%d)", uint8(l))
	}
	return lessonNames[l]
}

func (l Lesson) Valid() bool { return l < numLessons }

// Lessons returns every lesson in display order.
func Lessons() []Lesson {
	out := make([]Lesson, 0, numLessons)
	for l := Lesson(0); l < numLessons; l++ {
		out = append(out, l)
	}
	return out
}

// ParseLesson accepts the canonical names plus the spellings the frontend
// used ("workEnergy", "free_fall", "work-energy").
func ParseLesson(s string) (Lesson, error) {
	key := strings.ToLower(s)
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	for l, name := range lessonNames {
		if key == name {
			return Lesson(l), nil
		}
	}
	return 0, fmt.Errorf("unknown lesson: %s", s)
}

func (l Lesson) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid lesson %d", uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *Lesson) UnmarshalText(text []byte) error {
	parsed, err := ParseLesson(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Next cycles to the following lesson, wrapping around.
func (l Lesson) Next() Lesson {
	return (l + 1) % numLessons
}
