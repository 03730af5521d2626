package allergies

import (
	"testing"

	"allergy-register-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
)

func codeText(text string) *fhir_dto.CodeableConcept {
	return &fhir_dto.CodeableConcept{Text: text}
}

func verification(code string) *fhir_dto.CodeableConcept {
	return &fhir_dto.CodeableConcept{Coding: []fhir_dto.Coding{{Code: code}}}
}

func TestGroupSubstances(t *testing.T) {
	t.Run("Grouping Is Case Insensitive And Keeps First Seen Casing", func(t *testing.T) {
		allergies := []fhir_dto.AllergyIntolerance{
			{
				ID:       "ai-1",
				Code:     codeText("Peanut"),
				Reaction: []fhir_dto.AllergyReaction{{Onset: "2024-01-01"}, {Onset: "2024-02-01"}},
				Meta:     &fhir_dto.Meta{LastUpdated: "2024-02-01T09:00:00Z"},
			},
			{
				ID:       "ai-2",
				Code:     codeText("peanut"),
				Reaction: []fhir_dto.AllergyReaction{{Onset: "2024-03-01"}},
				Meta:     &fhir_dto.Meta{LastUpdated: "2024-03-01T09:00:00Z"},
			},
			{
				ID:       "ai-3",
				Code:     codeText("Milk (dairy)"),
				Reaction: []fhir_dto.AllergyReaction{{Onset: "2024-01-15"}},
			},
		}

		rows := GroupSubstances(allergies)

		assert.Len(t, rows, 2)
		assert.Equal(t, "Peanut", rows[0].Name)
		assert.Equal(t, 3, rows[0].EventsCount)
		assert.Equal(t, "ai-1,ai-2", rows[0].ID)
		assert.Equal(t, []string{"ai-1", "ai-2"}, rows[0].GroupIDs)
		assert.Equal(t, "Milk (dairy)", rows[1].Name)
		assert.Equal(t, 1, rows[1].EventsCount)
	})

	t.Run("Last Report Date Is The Max Across Onsets And Metadata", func(t *testing.T) {
		allergies := []fhir_dto.AllergyIntolerance{
			{
				ID:           "ai-1",
				Code:         codeText("Peanut"),
				RecordedDate: "2024-01-05",
				Reaction:     []fhir_dto.AllergyReaction{{Onset: "2024-01-01"}},
				Meta:         &fhir_dto.Meta{LastUpdated: "2024-04-20T08:00:00Z"},
			},
		}

		rows := GroupSubstances(allergies)
		assert.Equal(t, "2024-04-20", rows[0].LastReportDate)
	})

	t.Run("Representative Is The Most Recently Updated Resource", func(t *testing.T) {
		allergies := []fhir_dto.AllergyIntolerance{
			{
				ID:                 "ai-1",
				Code:               codeText("Peanut"),
				VerificationStatus: verification("unconfirmed"),
				Criticality:        "low",
				Meta:               &fhir_dto.Meta{LastUpdated: "2024-01-01T09:00:00Z"},
			},
			{
				ID:                 "ai-2",
				Code:               codeText("Peanut"),
				VerificationStatus: verification("confirmed"),
				Criticality:        "high",
				Meta:               &fhir_dto.Meta{LastUpdated: "2024-03-01T09:00:00Z"},
			},
		}

		rows := GroupSubstances(allergies)
		assert.Equal(t, "confirmed", rows[0].VerificationStatus)
		assert.Equal(t, "High Risk", rows[0].Criticality)
	})

	t.Run("Resolved Clinical Status Overrides Criticality", func(t *testing.T) {
		allergies := []fhir_dto.AllergyIntolerance{
			{
				ID:             "ai-1",
				Code:           codeText("Amoxicillin"),
				Criticality:    "high",
				ClinicalStatus: &fhir_dto.CodeableConcept{Coding: []fhir_dto.Coding{{Code: "resolved"}}},
			},
		}

		rows := GroupSubstances(allergies)
		assert.Equal(t, "Delabeled", rows[0].Criticality)
	})

	t.Run("Missing Code Falls Back To Unknown", func(t *testing.T) {
		allergies := []fhir_dto.AllergyIntolerance{{ID: "ai-1"}}

		rows := GroupSubstances(allergies)
		assert.Equal(t, "Unknown", rows[0].Name)
		assert.Equal(t, "unknown", rows[0].VerificationStatus)
	})
}

func TestExpandReactions(t *testing.T) {
	allergy := &fhir_dto.AllergyIntolerance{
		ID:                 "ai-1",
		Code:               codeText("Peanut"),
		Criticality:        "high",
		VerificationStatus: verification("confirmed"),
		Asserter:           &fhir_dto.Reference{Display: "Dr Fallback"},
		PatientInstruction: "Avoid all nuts",
		Reaction: []fhir_dto.AllergyReaction{
			{
				Onset:    "2024-01-01T10:00:00Z",
				Severity: "severe",
				Manifestation: []fhir_dto.Manifestation{
					{Text: "Hives"},
					{Coding: []fhir_dto.Coding{{Display: "Anaphylaxis"}}},
				},
				Note: []fhir_dto.Annotation{
					{Text: "Severity: High"},
					{Text: "Clinical management: Adrenaline IM"},
					{Text: "Treating doctor: Dr Janet Hays (Allergist)"},
				},
			},
			{
				Onset: "2024-02-01T10:00:00Z",
			},
		},
	}

	rows := ExpandReactions(allergy)

	t.Run("One Row Per Reaction With Local Index IDs", func(t *testing.T) {
		assert.Len(t, rows, 2)
		assert.Equal(t, "ai-1#1", rows[0].ID)
		assert.Equal(t, "ai-1#2", rows[1].ID)
		assert.Equal(t, "ai-1", rows[0].SubstanceID)
	})

	t.Run("Note Fields Win Over Resource Fallbacks", func(t *testing.T) {
		assert.Equal(t, "Dr Janet Hays", rows[0].TreatingDoctor)
		assert.Equal(t, "Allergist", rows[0].DoctorRole)
		assert.Equal(t, "High", rows[0].Severity)
	})

	t.Run("Resource Fallbacks Fill Missing Note Fields", func(t *testing.T) {
		assert.Equal(t, "Dr Fallback", rows[1].TreatingDoctor)
		assert.Equal(t, "Avoid all nuts", rows[1].PatientMustAvoid)
		assert.Equal(t, "Peanut", rows[1].RiskSubstanceName)
		assert.Equal(t, "", rows[1].Severity)
	})

	t.Run("Manifestation Labels", func(t *testing.T) {
		assert.Equal(t, []string{"Hives", "Anaphylaxis"}, rows[0].Manifestations)
	})

	t.Run("Summary Notes Composition", func(t *testing.T) {
		assert.Equal(t, "Clinical management: Adrenaline IM; Must avoid: Avoid all nuts", rows[0].Notes)
	})
}

func TestSortEventsByOnset(t *testing.T) {
	t.Run("Global Sequence Over Merged Groups", func(t *testing.T) {
		first := ExpandReactions(&fhir_dto.AllergyIntolerance{
			ID:   "ai-1",
			Code: codeText("Peanut"),
			Reaction: []fhir_dto.AllergyReaction{
				{Onset: "2024-02-01"},
				{Onset: "2024-01-01"},
			},
		})
		second := ExpandReactions(&fhir_dto.AllergyIntolerance{
			ID:   "ai-2",
			Code: codeText("Peanut"),
			Reaction: []fhir_dto.AllergyReaction{
				{Onset: "2024-03-01"},
			},
		})

		rows := SortEventsByOnset(append(first, second...))

		assert.Equal(t, []string{"ai-1#2", "ai-1#1", "ai-2#1"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
		assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Seq, rows[1].Seq, rows[2].Seq})
	})

	t.Run("Unparseable Onset Sorts First", func(t *testing.T) {
		rows := SortEventsByOnset(ExpandReactions(&fhir_dto.AllergyIntolerance{
			ID:   "ai-1",
			Code: codeText("Milk"),
			Reaction: []fhir_dto.AllergyReaction{
				{Onset: "2024-01-01"},
				{Onset: ""},
			},
		}))

		assert.Equal(t, "ai-1#2", rows[0].ID)
		assert.Equal(t, 1, rows[0].Seq)
	})
}

func TestMapEventDetail(t *testing.T) {
	allergy := &fhir_dto.AllergyIntolerance{
		ID:           "ai-1",
		Code:         codeText("Amoxicillin"),
		Patient:      &fhir_dto.Reference{Reference: "Patient/p2"},
		RecordedDate: "2024-03-01",
		Reaction: []fhir_dto.AllergyReaction{
			{
				Onset: "2024-03-01T10:30:00Z",
				Note: []fhir_dto.Annotation{
					{Text: "Severity: High"},
					{Text: "Initial exposure time: 2024-03-01T10:00"},
					{Text: "Patient was anxious"},
				},
			},
		},
	}

	detail := MapEventDetail(allergy, 1, "ai-1#1")

	assert.Equal(t, "ai-1#1", detail.ID)
	assert.Equal(t, "p2", detail.PatientID)
	assert.Equal(t, 1, detail.Seq)
	assert.Equal(t, "2024-03-01", detail.Date)
	assert.Equal(t, "Patient was anxious", detail.Notes, "free notes only, labelled lines are decoded")
	assert.Equal(t, "2024-03-01T10:00", detail.FirstReactionOnset, "initial exposure backfills a missing first onset")
	assert.Equal(t, "Amoxicillin", detail.RiskSubstanceName)
}
