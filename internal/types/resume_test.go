package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordTitle(t *testing.T) {
	doc := &ResumeDocument{FullName: "Jordan Doe", TargetRole: "Platform Engineer"}
	assert.Equal(t, "Jordan Doe - Platform Engineer", RecordTitle(doc))

	assert.Equal(t, "Jordan Doe - Resume", RecordTitle(&ResumeDocument{FullName: "Jordan Doe"}))
	assert.Equal(t, "Untitled - Resume", RecordTitle(&ResumeDocument{}))
}

func TestClone_DoesNotAliasSlices(t *testing.T) {
	doc := ResumeDocument{
		FullName: "Jordan Doe",
		Skills:   []string{"Go"},
		Experience: []ExperienceEntry{
			{Title: "Engineer", BulletPoints: []string{"built things"}},
		},
	}

	clone := doc.Clone()
	clone.Skills[0] = "Rust"
	clone.Experience[0].BulletPoints[0] = "changed"

	assert.Equal(t, "Go", doc.Skills[0])
	assert.Equal(t, "built things", doc.Experience[0].BulletPoints[0])
}

func TestExperienceEntry_Current(t *testing.T) {
	assert.True(t, (&ExperienceEntry{}).Current())
	assert.True(t, (&ExperienceEntry{EndDate: "Present"}).Current())
	assert.False(t, (&ExperienceEntry{EndDate: "2024-01"}).Current())
}

func TestResumeDocument_Validate(t *testing.T) {
	doc := &ResumeDocument{FullName: "Jordan Doe", TargetRole: "Engineer"}
	assert.NoError(t, doc.Validate())

	assert.Error(t, (&ResumeDocument{TargetRole: "Engineer"}).Validate())
	assert.Error(t, (&ResumeDocument{FullName: "Jordan", TargetRole: "Engineer", Email: "bad"}).Validate())
}
