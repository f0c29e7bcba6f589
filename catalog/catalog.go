// Package catalog holds the bundled ECG lesson content shipped with the
// binary. The loader serves these without touching the network; the seed
// command writes them into the database.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

func Modules() []model.Module {
	now := time.Now()
	return []model.Module{
		{
			ID:          "rhythm-basics",
			Title:       "Rhythm Basics",
			Order:       1,
			Description: "Rate, regularity and the normal sinus rhythm.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "waveform-morphology",
			Title:       "Waveform Morphology",
			Order:       2,
			Description: "P waves, QRS complexes, T waves and the intervals between them.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "arrhythmia-recognition",
			Title:       "Arrhythmia Recognition",
			Order:       3,
			Description: "Atrial fibrillation, flutter, blocks and ventricular rhythms.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func Lessons() []model.Lesson {
	now := time.Now()
	lessons := []model.Lesson{
		{
			ID:          "ecg-lesson-1",
			ModuleID:    "rhythm-basics",
			Title:       "Reading the ECG Grid",
			Order:       1,
			Description: "Paper speed, box sizes and what a millimetre means in milliseconds.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "The grid",
					Body:  "At the standard paper speed of 25 mm/s, one small box is 40 ms and one large box is 200 ms. Vertically, one small box is 0.1 mV.",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Box timing",
					Body:     "How long is one large box at standard paper speed?",
					Options:  []string{"40 ms", "100 ms", "200 ms", "400 ms"},
					Answer:   "200 ms",
					Explanation: "Five small boxes of 40 ms each make one large box: 200 ms.",
					Points:   10,
					Difficulty: shared.DifficultyBeginner,
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Rate estimation",
					Body:     "An R wave falls on every third large box. Roughly what is the heart rate?",
					Options:  []string{"60 bpm", "100 bpm", "150 bpm", "300 bpm"},
					Answer:   "100 bpm",
					Explanation: "300 divided by the number of large boxes between R waves: 300/3 = 100.",
					Points:   10,
					Difficulty: shared.DifficultyBeginner,
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "ecg-lesson-2",
			ModuleID:    "rhythm-basics",
			Title:       "Normal Sinus Rhythm",
			Order:       2,
			Description: "The criteria that make a rhythm sinus, and where to look first.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "Sinus criteria",
					Body:  "Sinus rhythm requires an upright P wave in lead II before every QRS, a rate of 60-100 bpm, and a constant PR interval under 200 ms.",
				},
				{
					Kind:     shared.StepKindVideo,
					Title:    "Walkthrough",
					Body:     "A narrated sweep across a normal 12-lead trace.",
					MediaKey: "video/sinus-rhythm-walkthrough.mp4",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Spot the criterion",
					Body:     "Which lead is checked first for P wave polarity?",
					Options:  []string{"Lead I", "Lead II", "aVR", "V1"},
					Answer:   "Lead II",
					Explanation: "Lead II lies along the normal P wave axis, so sinus P waves are upright there.",
					Points:   10,
					Difficulty: shared.DifficultyBeginner,
				},
				{
					Kind:     shared.StepKindPractice,
					Title:    "Your call",
					Body:     "Rate 72, regular, upright P before every QRS in lead II, PR 160 ms. Name the rhythm.",
					Options:  []string{"Sinus rhythm", "Atrial fibrillation", "First-degree block", "Junctional rhythm"},
					Answer:   "Sinus rhythm",
					Points:   10,
					Difficulty: shared.DifficultyBeginner,
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "ecg-lesson-3",
			ModuleID:    "waveform-morphology",
			Title:       "The PR and QRS Intervals",
			Order:       1,
			Description: "Normal interval ranges and what prolongation tells you.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "Interval ranges",
					Body:  "Normal PR: 120-200 ms. Normal QRS: under 120 ms. A QRS of 120 ms or more points to a ventricular origin or a conduction delay.",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "PR limits",
					Body:     "A constant PR interval of 240 ms with no dropped beats is which rhythm?",
					Options:  []string{"Normal sinus rhythm", "First-degree AV block", "Mobitz I", "Mobitz II"},
					Answer:   "First-degree AV block",
					Explanation: "A fixed PR over 200 ms without dropped QRS complexes is first-degree block.",
					Points:   10,
					Difficulty: shared.DifficultyIntermediate,
				},
				{
					Kind:     shared.StepKindAudio,
					Title:    "Interval drill",
					Body:     "Audio drill: calling intervals from dictated box counts.",
					MediaKey: "audio/interval-drill-1.mp3",
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "ecg-lesson-4",
			ModuleID:    "waveform-morphology",
			Title:       "Bundle Branch Blocks",
			Order:       2,
			Description: "Telling left from right when the QRS is wide.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "Wide QRS patterns",
					Body:  "RBBB: rSR' in V1 with a slurred S in V6. LBBB: broad notched R in V6 with a deep S in V1. Both need a QRS of 120 ms or more.",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "V1 pattern",
					Body:     "An rSR' pattern in V1 with QRS 140 ms suggests which diagnosis?",
					Options:  []string{"LBBB", "RBBB", "WPW", "Hyperkalemia"},
					Answer:   "RBBB",
					Explanation: "The rSR' ('rabbit ears') in V1 is the classic right bundle pattern.",
					Points:   10,
					Difficulty: shared.DifficultyIntermediate,
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Clinical weight",
					Body:     "A new LBBB with chest pain should be treated as which condition until proven otherwise?",
					Options:  []string{"Pericarditis", "Myocardial infarction", "Pulmonary embolism", "Anxiety"},
					Answer:   "Myocardial infarction",
					Points:   10,
					Difficulty: shared.DifficultyAdvanced,
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "ecg-lesson-5",
			ModuleID:    "arrhythmia-recognition",
			Title:       "Atrial Fibrillation and Flutter",
			Order:       1,
			Description: "Irregularly irregular rhythms and sawtooth baselines.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "AF essentials",
					Body:  "Atrial fibrillation has no organized P waves and an irregularly irregular ventricular response. Flutter shows sawtooth F waves, classically at 300/min with 2:1 conduction.",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Rhythm call",
					Body:     "Irregularly irregular rhythm, no P waves, rate 130. Name the rhythm.",
					Options:  []string{"Sinus tachycardia", "Atrial fibrillation", "Atrial flutter", "MAT"},
					Answer:   "Atrial fibrillation",
					Explanation: "The combination of absent P waves and irregular irregularity is AF.",
					Points:   10,
					Difficulty: shared.DifficultyIntermediate,
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "Flutter arithmetic",
					Body:     "Regular narrow-complex tachycardia at exactly 150 bpm. Which rhythm must you rule out?",
					Options:  []string{"Sinus tachycardia", "Atrial flutter 2:1", "AVNRT", "VT"},
					Answer:   "Atrial flutter 2:1",
					Explanation: "Flutter at 300/min conducted 2:1 lands at 150 bpm.",
					Points:   10,
					Difficulty: shared.DifficultyAdvanced,
				},
				{
					Kind:     shared.StepKindVideo,
					Title:    "Strip review",
					Body:     "Annotated strips of AF, flutter and their mimics.",
					MediaKey: "video/af-flutter-review.mp4",
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "ecg-lesson-6",
			ModuleID:    "arrhythmia-recognition",
			Title:       "Ventricular Rhythms",
			Order:       2,
			Description: "VT, VF and when wide-and-fast means shock.",
			Items: mustItems([]model.LessonItem{
				{
					Kind:  shared.StepKindContent,
					Title: "Wide and fast",
					Body:  "A regular wide-complex tachycardia is ventricular tachycardia until proven otherwise. VF is chaotic with no discernible complexes and is always pulseless.",
				},
				{
					Kind:     shared.StepKindQuiz,
					Title:    "First assumption",
					Body:     "Regular wide-complex tachycardia at 180 bpm in a 70-year-old with prior MI. Most likely rhythm?",
					Options:  []string{"SVT with aberrancy", "Ventricular tachycardia", "Sinus tachycardia", "Flutter"},
					Answer:   "Ventricular tachycardia",
					Explanation: "Age and prior infarction make VT the overwhelmingly likely diagnosis.",
					Points:   10,
					Difficulty: shared.DifficultyAdvanced,
				},
				{
					Kind:     shared.StepKindPractice,
					Title:    "Final call",
					Body:     "Chaotic undulating baseline, no QRS complexes, no pulse. Name the rhythm.",
					Options:  []string{"Asystole", "Ventricular fibrillation", "Torsades", "Artifact"},
					Answer:   "Ventricular fibrillation",
					Points:   10,
					Difficulty: shared.DifficultyIntermediate,
				},
			}),
			Version:   1,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	return lessons
}

func mustItems(items []model.LessonItem) json.RawMessage {
	data, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	return data
}
