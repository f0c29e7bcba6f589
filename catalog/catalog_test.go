package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

func TestLessonsReferenceKnownModules(t *testing.T) {
	moduleIDs := map[string]bool{}
	for _, m := range Modules() {
		moduleIDs[m.ID] = true
	}

	for _, lesson := range Lessons() {
		assert.True(t, moduleIDs[lesson.ModuleID], "lesson %s references unknown module %s", lesson.ID, lesson.ModuleID)
	}
}

func TestLessonItemsAreWellFormed(t *testing.T) {
	for _, lesson := range Lessons() {
		var items []model.LessonItem
		require.NoError(t, json.Unmarshal(lesson.Items, &items), "items of %s should parse", lesson.ID)
		require.NotEmpty(t, items, "lesson %s should have content", lesson.ID)

		for i, item := range items {
			switch item.Kind {
			case shared.StepKindQuiz, shared.StepKindPractice:
				assert.NotNil(t, item.Answer, "interactive item %d of %s needs a reference answer", i, lesson.ID)
				assert.Greater(t, item.Points, 0, "interactive item %d of %s should award points", i, lesson.ID)
			case shared.StepKindContent, shared.StepKindVideo, shared.StepKindAudio:
			default:
				t.Errorf("lesson %s item %d has unknown kind %q", lesson.ID, i, item.Kind)
			}
		}
	}
}

func TestLessonOrderingIsSequentialPerModule(t *testing.T) {
	perModule := map[string][]int{}
	for _, lesson := range Lessons() {
		perModule[lesson.ModuleID] = append(perModule[lesson.ModuleID], lesson.Order)
	}

	for moduleID, orders := range perModule {
		seen := map[int]bool{}
		for _, order := range orders {
			assert.False(t, seen[order], "duplicate lesson order %d in module %s", order, moduleID)
			seen[order] = true
		}
	}
}
