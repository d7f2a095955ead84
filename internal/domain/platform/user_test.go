package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := &User{Username: "alpha"}
	assert.Equal(t, "", u.FullName())

	u.Profile = &UserProfile{Name: "Alpha Learner"}
	assert.Equal(t, "Alpha Learner", u.FullName())
}

func TestUserProfileHasProfileImage(t *testing.T) {
	var p *UserProfile
	assert.False(t, p.HasProfileImage())

	uploaded := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	p = &UserProfile{ProfileImageUploadedAt: &uploaded}
	assert.True(t, p.HasProfileImage())
}
