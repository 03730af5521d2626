package allergies

import (
	"fmt"
	"regexp"
	"strings"

	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/fhir_dto"
)

// Note labels. The reaction note array is the only channel for these fields,
// each stored as one "<Label>: <value>" line.
const (
	noteLabelSeverity           = "Severity"
	noteLabelRiskSubstance      = "Risk substance name"
	noteLabelClinicalManagement = "Clinical management"
	noteLabelTestMethod         = "Test method"
	noteLabelTestResults        = "Test results"
	noteLabelOutcome            = "Outcome"
	noteLabelFirstOnset         = "First reaction onset"
	noteLabelMustAvoid          = "Must avoid"
	noteLabelAutoInjector       = "Auto-injector"
	noteLabelTreatingDoctor     = "Treating doctor"
	noteLabelInitialExposure    = "Initial exposure time"
	noteLabelInitialExposureOld = "Initial exposure"
	noteLabelReactionOnset      = "Reaction onset time"
	noteLabelComments           = "Comments"
)

var recognizedNoteLabels = []string{
	noteLabelSeverity,
	noteLabelRiskSubstance,
	noteLabelClinicalManagement,
	noteLabelTestMethod,
	noteLabelTestResults,
	noteLabelOutcome,
	noteLabelFirstOnset,
	noteLabelMustAvoid,
	noteLabelAutoInjector,
	noteLabelTreatingDoctor,
	noteLabelInitialExposure,
	noteLabelInitialExposureOld,
	noteLabelReactionOnset,
	noteLabelComments,
}

var (
	doctorRolePattern   = regexp.MustCompile(`^(.*)\((.*)\)$`)
	autoInjectorPattern = regexp.MustCompile(`(?i)^(yes|true|y)`)
)

// ReactionDetails is the decoded form of a reaction's note array.
type ReactionDetails struct {
	Severity                 string
	RiskSubstanceName        string
	ClinicalManagement       string
	TestMethod               string
	TestResults              string
	Outcome                  string
	FirstReactionOnset       string
	PatientMustAvoid         string
	AutoInjectorPrescribed   *bool
	TreatingDoctor           string
	DoctorRole               string
	InitialExposureTime      string
	ReactionOnsetDescription string
	Comments                 string
	// FreeNotes keeps every note line that matched no recognized label.
	FreeNotes []string
}

// ParseReactionNotes decodes the "<Label>: <value>" lines of a reaction's
// notes. Label matching is a case-insensitive prefix check and the first
// matching line wins when duplicates exist.
func ParseReactionNotes(notes []fhir_dto.Annotation) ReactionDetails {
	texts := make([]string, 0, len(notes))
	for _, note := range notes {
		if note.Text != "" {
			texts = append(texts, note.Text)
		}
	}

	getByPrefix := func(label string) string {
		prefix := strings.ToLower(label + ":")
		for _, text := range texts {
			if strings.HasPrefix(strings.ToLower(text), prefix) {
				return strings.TrimSpace(text[len(prefix):])
			}
		}
		return ""
	}

	details := ReactionDetails{
		Severity:                 getByPrefix(noteLabelSeverity),
		RiskSubstanceName:        getByPrefix(noteLabelRiskSubstance),
		ClinicalManagement:       getByPrefix(noteLabelClinicalManagement),
		TestMethod:               getByPrefix(noteLabelTestMethod),
		TestResults:              getByPrefix(noteLabelTestResults),
		Outcome:                  getByPrefix(noteLabelOutcome),
		FirstReactionOnset:       getByPrefix(noteLabelFirstOnset),
		PatientMustAvoid:         getByPrefix(noteLabelMustAvoid),
		ReactionOnsetDescription: getByPrefix(noteLabelReactionOnset),
		Comments:                 getByPrefix(noteLabelComments),
	}

	details.InitialExposureTime = getByPrefix(noteLabelInitialExposure)
	if details.InitialExposureTime == "" {
		// Older records stored the label without the "time" suffix.
		details.InitialExposureTime = getByPrefix(noteLabelInitialExposureOld)
	}

	if doctorText := getByPrefix(noteLabelTreatingDoctor); doctorText != "" {
		if match := doctorRolePattern.FindStringSubmatch(doctorText); match != nil {
			details.TreatingDoctor = strings.TrimSpace(match[1])
			details.DoctorRole = strings.TrimSpace(match[2])
		} else {
			details.TreatingDoctor = doctorText
		}
	}

	if injectorText := getByPrefix(noteLabelAutoInjector); injectorText != "" {
		prescribed := autoInjectorPattern.MatchString(injectorText)
		details.AutoInjectorPrescribed = &prescribed
	}

	details.FreeNotes = collectFreeNotes(texts)
	return details
}

func collectFreeNotes(texts []string) []string {
	var free []string
	for _, text := range texts {
		lowered := strings.ToLower(text)
		recognized := false
		for _, label := range recognizedNoteLabels {
			if strings.HasPrefix(lowered, strings.ToLower(label)+":") {
				recognized = true
				break
			}
		}
		if !recognized {
			free = append(free, text)
		}
	}
	return free
}

// BuildReactionNotes encodes the form payload into note lines in the fixed
// field order. Empty fields are omitted entirely; the auto-injector tri-state
// is only written when the form answered it, as a canonical "Yes"/"No".
func BuildReactionNotes(request *requests.CreateEvent) []fhir_dto.Annotation {
	var notes []fhir_dto.Annotation
	appendNote := func(label, value string) {
		if value != "" {
			notes = append(notes, fhir_dto.Annotation{Text: fmt.Sprintf("%s: %s", label, value)})
		}
	}

	appendNote(noteLabelSeverity, request.Severity)
	appendNote(noteLabelRiskSubstance, request.RiskSubstanceName)
	appendNote(noteLabelClinicalManagement, request.ClinicalManagement)
	appendNote(noteLabelTestMethod, request.TestMethod)
	appendNote(noteLabelTestResults, request.TestResults)
	appendNote(noteLabelOutcome, request.Outcome)
	appendNote(noteLabelFirstOnset, request.FirstOnset)
	appendNote(noteLabelMustAvoid, request.PatientMustAvoid)
	if request.AutoInjectorPrescribed != nil {
		value := "No"
		if *request.AutoInjectorPrescribed {
			value = "Yes"
		}
		appendNote(noteLabelAutoInjector, value)
	}
	if request.TreatingDoctor != "" || request.TreatingDoctorRole != "" {
		doctor := request.TreatingDoctor
		if request.TreatingDoctorRole != "" {
			doctor = fmt.Sprintf("%s (%s)", doctor, request.TreatingDoctorRole)
		}
		notes = append(notes, fhir_dto.Annotation{Text: fmt.Sprintf("%s: %s", noteLabelTreatingDoctor, doctor)})
	}
	appendNote(noteLabelInitialExposure, request.InitialExposureTime)
	appendNote(noteLabelReactionOnset, request.ReactionOnsetDescription)
	appendNote(noteLabelComments, request.Comments)

	return notes
}
