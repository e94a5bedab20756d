package physics

import "weak"

// RestKind tags the variant held by a Rest.
type RestKind uint8

const (
	NotResting RestKind = iota
	RestingOnGround
	RestingOnBody
)

// Rest records what, if anything, a body is resting on. A body resting on
// another only observes its support: the link is weak and never keeps the
// support alive once it has been removed from the world.
//
// The zero value is NotResting.
type Rest struct {
	kind    RestKind
	support weak.Pointer[Body]
}

func RestOnGround() Rest { return Rest{kind: RestingOnGround} }

func RestOn(support *Body) Rest {
	if support == nil {
		return Rest{}
	}
	return Rest{kind: RestingOnBody, support: weak.Make(support)}
}

func (r Rest) Kind() RestKind { return r.kind }

func (r Rest) IsResting() bool { return r.kind != NotResting }

// Support returns the body r rests on, or nil when r is not resting on a
// body or the support is gone.
func (r Rest) Support() *Body {
	if r.kind != RestingOnBody {
		return nil
	}
	return r.support.Value()
}

func (r Rest) String() string {
	switch r.kind {
	case RestingOnGround:
		return "ground"
	case RestingOnBody:
		return "body"
	default:
		return ""
	}
}

// active reports whether r still holds: a ground rest always does, a body
// rest only while its support exists.
func (r Rest) active() bool {
	return r.kind == RestingOnGround || r.Support() != nil
}
