package metrics

import (
	"fmt"
	"strings"
)

const courseKeyPrefix = "course-v1:"

// CourseKey identifies a course run, e.g. "course-v1:edX+DemoX+2024_T1".
// The legacy slash separated form "edX/DemoX/2024_T1" is also accepted.
type CourseKey struct {
	org    string
	number string
	run    string
	legacy bool
}

// ParseCourseKey validates and splits a course id.
func ParseCourseKey(s string) (CourseKey, error) {
	s = strings.TrimSpace(s)

	var parts []string
	legacy := false
	switch {
	case strings.HasPrefix(s, courseKeyPrefix):
		parts = strings.Split(strings.TrimPrefix(s, courseKeyPrefix), "+")
	case strings.Count(s, "/") == 2:
		parts = strings.Split(s, "/")
		legacy = true
	default:
		return CourseKey{}, fmt.Errorf("%w: %q", ErrInvalidCourseKey, s)
	}

	if len(parts) != 3 {
		return CourseKey{}, fmt.Errorf("%w: %q", ErrInvalidCourseKey, s)
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\n") {
			return CourseKey{}, fmt.Errorf("%w: %q", ErrInvalidCourseKey, s)
		}
	}

	return CourseKey{org: parts[0], number: parts[1], run: parts[2], legacy: legacy}, nil
}

// MustParseCourseKey panics on invalid input. For fixtures and tests.
func MustParseCourseKey(s string) CourseKey {
	key, err := ParseCourseKey(s)
	if err != nil {
		panic(err)
	}
	return key
}

func (k CourseKey) Org() string    { return k.org }
func (k CourseKey) Number() string { return k.number }
func (k CourseKey) Run() string    { return k.run }

func (k CourseKey) String() string {
	if k.legacy {
		return k.org + "/" + k.number + "/" + k.run
	}
	return courseKeyPrefix + k.org + "+" + k.number + "+" + k.run
}

// IsZero reports whether the key is unset.
func (k CourseKey) IsZero() bool {
	return k.org == "" && k.number == "" && k.run == ""
}
