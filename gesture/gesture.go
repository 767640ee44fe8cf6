// Package gesture defines the closed set of touchpad gestures the helper
// understands and the numeric codes the gesture source sends for them.
package gesture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Gesture is a touch-point count plus a motion and its direction.
// The numeric value is the wire code.
type Gesture uint8

const (
	ThreeSwipeUp Gesture = iota
	ThreeSwipeDown
	ThreeSwipeLeft
	ThreeSwipeRight
	FourSwipeUp
	FourSwipeDown
	FourSwipeLeft
	FourSwipeRight
	TwoPinchIn
	TwoPinchOut
	ThreePinchIn
	ThreePinchOut
	FourPinchIn
	FourPinchOut

	count
)

// Motion is the kind of finger movement
type Motion string

const (
	Swipe Motion = "swipe"
	Pinch Motion = "pinch"
)

// Direction is the swipe direction or the pinch polarity
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
	In    Direction = "in"
	Out   Direction = "out"
)

type shape struct {
	fingers   int
	motion    Motion
	direction Direction
}

var shapes = [count]shape{
	ThreeSwipeUp:    {3, Swipe, Up},
	ThreeSwipeDown:  {3, Swipe, Down},
	ThreeSwipeLeft:  {3, Swipe, Left},
	ThreeSwipeRight: {3, Swipe, Right},
	FourSwipeUp:     {4, Swipe, Up},
	FourSwipeDown:   {4, Swipe, Down},
	FourSwipeLeft:   {4, Swipe, Left},
	FourSwipeRight:  {4, Swipe, Right},
	TwoPinchIn:      {2, Pinch, In},
	TwoPinchOut:     {2, Pinch, Out},
	ThreePinchIn:    {3, Pinch, In},
	ThreePinchOut:   {3, Pinch, Out},
	FourPinchIn:     {4, Pinch, In},
	FourPinchOut:    {4, Pinch, Out},
}

// ErrUnknownGesture matches every UnknownGestureError via errors.Is
var ErrUnknownGesture = errors.New("unknown gesture")

// UnknownGestureError reports a code or name outside the defined set.
// It means the gesture source is misbehaving, not that the gesture is unmapped.
type UnknownGestureError struct {
	Code  int
	Input string
}

func (e *UnknownGestureError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("unknown gesture %q", e.Input)
	}
	return fmt.Sprintf("unknown gesture code %d (valid codes are 0-%d)", e.Code, count-1)
}

func (e *UnknownGestureError) Is(target error) bool {
	return target == ErrUnknownGesture
}

// FromCode resolves a wire code to its gesture
func FromCode(code uint8) (Gesture, error) {
	if code >= uint8(count) {
		return 0, &UnknownGestureError{Code: int(code)}
	}
	return Gesture(code), nil
}

// Parse accepts either a numeric code ("11") or a name such as "3-pinch-out"
func Parse(s string) (Gesture, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= int(count) {
			return 0, &UnknownGestureError{Code: n}
		}
		return Gesture(n), nil
	}

	for _, g := range All() {
		if g.String() == s {
			return g, nil
		}
	}

	return 0, &UnknownGestureError{Input: s}
}

// All returns every gesture in code order
func All() []Gesture {
	all := make([]Gesture, 0, count)
	for g := Gesture(0); g < count; g++ {
		all = append(all, g)
	}
	return all
}

func (g Gesture) Valid() bool {
	return g < count
}

func (g Gesture) Code() uint8 {
	return uint8(g)
}

func (g Gesture) Fingers() int {
	if !g.Valid() {
		return 0
	}
	return shapes[g].fingers
}

func (g Gesture) Motion() Motion {
	if !g.Valid() {
		return ""
	}
	return shapes[g].motion
}

func (g Gesture) Direction() Direction {
	if !g.Valid() {
		return ""
	}
	return shapes[g].direction
}

// String renders the gesture as "<fingers>-<motion>-<direction>"
func (g Gesture) String() string {
	if !g.Valid() {
		return fmt.Sprintf("gesture(%d)", uint8(g))
	}
	s := shapes[g]
	return fmt.Sprintf("%d-%s-%s", s.fingers, s.motion, s.direction)
}
