package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Sara"))
	assert.True(t, ValidName("  Sara  "))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("   "))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("sara@example.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail(""))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	sess := Session{LastActivity: now}

	assert.False(t, sess.Expired(10*time.Minute, now.Add(9*time.Minute)))
	assert.True(t, sess.Expired(10*time.Minute, now.Add(11*time.Minute)))
}
