package physics

import (
	"encoding/json"
	"testing"
)

func TestParseLesson(t *testing.T) {
	tests := []struct {
		in      string
		want    Lesson
		wantErr bool
	}{
		{"freefall", FreeFall, false},
		{"free_fall", FreeFall, false},
		{"Kinematics", Kinematics, false},
		{"forces", Forces, false},
		{"friction", Friction, false},
		{"workEnergy", WorkEnergy, false},
		{"work-energy", WorkEnergy, false},
		{"work energy", WorkEnergy, false},
		{"orbits", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLesson(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLesson(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLesson(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLessonRoundTrip(t *testing.T) {
	for _, l := range Lessons() {
		parsed, err := ParseLesson(l.String())
		if err != nil || parsed != l {
			t.Errorf("%v: round trip gave %v, %v", l, parsed, err)
		}
		if l.model() == nil {
			t.Errorf("%v has no force model", l)
		}
	}
}

func TestLessonNextWraps(t *testing.T) {
	l := FreeFall
	seen := map[Lesson]bool{}
	for i := 0; i < len(Lessons()); i++ {
		seen[l] = true
		l = l.Next()
	}
	if l != FreeFall || len(seen) != len(Lessons()) {
		t.Errorf("Next did not cycle through every lesson: %v", seen)
	}
}

func TestLessonJSON(t *testing.T) {
	var v struct {
		Lesson Lesson `json:"lesson"`
	}
	if err := json.Unmarshal([]byte(`{"lesson":"workEnergy"}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Lesson != WorkEnergy {
		t.Errorf("lesson = %v, want workenergy", v.Lesson)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"lesson":"workenergy"}` {
		t.Errorf("json = %s", out)
	}
	if _, err := json.Marshal(struct{ L Lesson }{Lesson(42)}); err == nil {
		t.Error("expected error marshaling an invalid lesson")
	}
}

func TestInvalidLessonFallsBackToFreeFall(t *testing.T) {
	e := env(Lesson(9))
	b := NewBall(0, 0, 5)
	b.Vel.X = 3
	Integrate(b, e, 0.1)
	if b.Vel.X != 0 {
		t.Errorf("vx = %f, want free-fall behavior", b.Vel.X)
	}
}
