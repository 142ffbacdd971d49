package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplayStatus(t *testing.T) {
	entries := []Update{
		{Comment: "initial report record", StatusNew: StatusOpen.Ptr()},
		{Comment: "called maintenance"},
		{Comment: "status changed from OPEN to IN_PROGRESS", StatusOld: StatusOpen.Ptr(), StatusNew: StatusInProgress.Ptr()},
	}

	status, ok := ReplayStatus(entries)
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, status)

	_, ok = ReplayStatus([]Update{{Comment: "note only"}})
	assert.False(t, ok)
}

func TestParseStatusAndPriority(t *testing.T) {
	s, err := ParseStatus("RESOLVED")
	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, s)

	_, err = ParseStatus("resolved")
	assert.Error(t, err)

	p, err := ParsePriority("HIGH")
	assert.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("URGENT")
	assert.Error(t, err)
}

func TestCategoryPatchApply(t *testing.T) {
	desc := "old"
	c := Category{Name: "Infra", Description: &desc, IsActive: true}

	name := "Infrastructure"
	inactive := false
	CategoryPatch{Name: &name, IsActive: &inactive}.Apply(&c)

	assert.Equal(t, "Infrastructure", c.Name)
	assert.Equal(t, "old", *c.Description)
	assert.False(t, c.IsActive)
}
