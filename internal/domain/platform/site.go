// Package platform holds read models of the learning platform tables.
// Figures never writes these records.
package platform

import "errors"

var (
	ErrSiteNotFound   = errors.New("site not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
)

// Site is a tenant of the platform, addressed by its domain.
type Site struct {
	ID     uint
	Domain string
	Name   string
}
