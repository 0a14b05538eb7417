package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoom_MembershipKeepsJoinOrder(t *testing.T) {
	r := NewRoom("ABC123")
	r.Members = append(r.Members, Member{Username: "A"}, Member{Username: "Bob"}, Member{Username: "Cy"})

	assert.True(t, r.HasMember("Bob"))
	assert.True(t, r.RemoveMember("Bob"))
	assert.False(t, r.RemoveMember("Bob"))
	assert.Equal(t, []UserInfo{{Username: "A"}, {Username: "Cy"}}, r.Users())
}

func TestRoom_SnapshotOnlyIncludesActivePoll(t *testing.T) {
	r := NewRoom("ABC123")
	assert.Nil(t, r.Snapshot().Poll)

	p := NewPoll("Q", []string{"a", "b"}, time.UnixMilli(5))
	r.Polls = append(r.Polls, p)
	snap := r.Snapshot()
	if assert.NotNil(t, snap.Poll) {
		assert.Equal(t, "Q", snap.Poll.Question)
	}

	p.Close()
	assert.Nil(t, r.Snapshot().Poll)
	assert.Same(t, p, r.CurrentPoll())
	assert.Nil(t, r.ActivePoll())
}
