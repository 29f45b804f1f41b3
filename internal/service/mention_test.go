package service

import (
	"testing"

	"carelog/internal/model"

	"github.com/stretchr/testify/assert"
)

func mentionFixture() ([]model.Staff, []model.JobType) {
	jobs := []model.JobType{
		{ID: 1, Name: "看護師", IsActive: true},
		{ID: 2, Name: "受付", IsActive: true},
	}
	staff := []model.Staff{
		{ID: 1, Name: "田中", JobTypeID: 1, IsActive: true},
		{ID: 2, Name: "鈴木", JobTypeID: 1, IsActive: true},
		{ID: 3, Name: "佐藤", JobTypeID: 2, IsActive: true},
		{ID: 4, Name: "山田", JobTypeID: 2, IsActive: false},
	}
	return staff, jobs
}

func TestResolveMentionsAllToken(t *testing.T) {
	staff, jobs := mentionFixture()
	ids := ResolveMentions("@全員 check the new schedule", staff, jobs)
	assert.Equal(t, []int{1, 2, 3}, ids, "inactive staff never match")
}

func TestResolveMentionsJobName(t *testing.T) {
	staff, jobs := mentionFixture()
	ids := ResolveMentions("@看護師 room 204 follow-up", staff, jobs)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestResolveMentionsPersonalName(t *testing.T) {
	staff, jobs := mentionFixture()
	ids := ResolveMentions("please ask @佐藤 about billing", staff, jobs)
	assert.Equal(t, []int{3}, ids)
}

func TestResolveMentionsDeduplicates(t *testing.T) {
	staff, jobs := mentionFixture()
	ids := ResolveMentions("@看護師 and especially @田中", staff, jobs)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestResolveMentionsNoMatches(t *testing.T) {
	staff, jobs := mentionFixture()
	assert.Empty(t, ResolveMentions("no mentions here", staff, jobs))
	assert.Empty(t, ResolveMentions("", staff, jobs))
	assert.Empty(t, ResolveMentions("mail me at x@全unrelated", nil, nil))
}

func TestResolveMentionsInactiveTargetName(t *testing.T) {
	staff, jobs := mentionFixture()
	assert.Empty(t, ResolveMentions("@山田 please check", staff, jobs))
}
