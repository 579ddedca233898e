// Package i18n holds the user-facing copy of the questionnaire in Spanish (default) and English.
package i18n

import (
	"strings"

	"github.com/aretw0/autodiag/pkg/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	Title                  = "title"
	Subtitle               = "subtitle"
	Welcome                = "welcome"
	Intro                  = "intro"
	PressEnter             = "press_enter"
	Progress               = "progress"
	QuestionCounter        = "question_counter"
	OptionYes              = "option_yes"
	OptionNo               = "option_no"
	Choose                 = "choose"
	InvalidChoice          = "invalid_choice"
	Symptoms               = "symptoms"
	DiagnosisFound         = "diagnosis_found"
	Cause                  = "cause"
	SeverityHeading        = "severity_heading"
	Description            = "description"
	Recommendations        = "recommendations"
	CriticalWarning        = "critical_warning"
	CriticalAdvice         = "critical_advice"
	NoDiagnosis            = "no_diagnosis"
	NoDiagnosisDetail      = "no_diagnosis_detail"
	GeneralRecommendations = "general_recommendations"
	GeneralMechanic        = "general_mechanic"
	GeneralInspection      = "general_inspection"
	GeneralScanner         = "general_scanner"
	Restart                = "restart"
	Goodbye                = "goodbye"
	Cancelled              = "cancelled"
	Shutdown               = "shutdown"
	UnexpectedError        = "unexpected_error"
	Starting               = "starting"
)

var (
	spanish = language.Spanish
	english = language.English

	supported = []language.Tag{spanish, english}
	matcher   = language.NewMatcher(supported)
)

var copyES = map[string]string{
	Title:                  "SISTEMA EXPERTO PARA DIAGNOSTICO AUTOMOTRIZ",
	Subtitle:               "Diagnostico inteligente de fallas en vehiculos",
	Welcome:                "Bienvenido al sistema de diagnostico automotriz",
	Intro:                  "Responderemos algunas preguntas para ayudarte a identificar el problema.",
	PressEnter:             "Presione Enter para comenzar...",
	Progress:               "Progreso",
	QuestionCounter:        "Pregunta %d de %d",
	OptionYes:              "1. Si",
	OptionNo:               "2. No",
	Choose:                 "Seleccione una opcion (1 o 2): ",
	InvalidChoice:          "Por favor, ingrese 1 para Si o 2 para No",
	Symptoms:               "SINTOMAS IDENTIFICADOS",
	DiagnosisFound:         "DIAGNOSTICO ENCONTRADO",
	Cause:                  "Posible causa",
	SeverityHeading:        "Severidad",
	Description:            "Descripcion",
	Recommendations:        "RECOMENDACIONES",
	CriticalWarning:        "ATENCION: Esta es una falla CRITICA",
	CriticalAdvice:         "Consulte un mecanico especializado INMEDIATAMENTE",
	NoDiagnosis:            "DIAGNOSTICO NO DETERMINADO",
	NoDiagnosisDetail:      "No se pudo identificar una causa especifica con los sintomas proporcionados.",
	GeneralRecommendations: "Recomendaciones generales",
	GeneralMechanic:        "Consultar con un mecanico especializado",
	GeneralInspection:      "Realizar una revision mas detallada",
	GeneralScanner:         "Verificar codigos de error con scanner OBD",
	Restart:                "Desea realizar otro diagnostico? (s/n): ",
	Goodbye:                "Gracias por usar el sistema de diagnostico automotriz!",
	Cancelled:              "Diagnostico cancelado por el usuario.",
	Shutdown:               "Sistema finalizado por el usuario.",
	UnexpectedError:        "Error inesperado: %v",
	Starting:               "Iniciando Sistema Experto de Diagnostico Automotriz...",
}

var copyEN = map[string]string{
	Title:                  "AUTOMOTIVE DIAGNOSTIC EXPERT SYSTEM",
	Subtitle:               "Smart fault diagnosis for vehicles",
	Welcome:                "Welcome to the automotive diagnostic system",
	Intro:                  "We will ask a few questions to help you identify the problem.",
	PressEnter:             "Press Enter to begin...",
	Progress:               "Progress",
	QuestionCounter:        "Question %d of %d",
	OptionYes:              "1. Yes",
	OptionNo:               "2. No",
	Choose:                 "Select an option (1 or 2): ",
	InvalidChoice:          "Please enter 1 for Yes or 2 for No",
	Symptoms:               "IDENTIFIED SYMPTOMS",
	DiagnosisFound:         "DIAGNOSIS FOUND",
	Cause:                  "Probable cause",
	SeverityHeading:        "Severity",
	Description:            "Description",
	Recommendations:        "RECOMMENDATIONS",
	CriticalWarning:        "WARNING: This is a CRITICAL fault",
	CriticalAdvice:         "See a specialist mechanic IMMEDIATELY",
	NoDiagnosis:            "DIAGNOSIS NOT DETERMINED",
	NoDiagnosisDetail:      "No specific cause could be identified from the symptoms provided.",
	GeneralRecommendations: "General recommendations",
	GeneralMechanic:        "Consult a specialist mechanic",
	GeneralInspection:      "Carry out a more detailed inspection",
	GeneralScanner:         "Check error codes with an OBD scanner",
	Restart:                "Run another diagnosis? (y/n): ",
	Goodbye:                "Thanks for using the automotive diagnostic system!",
	Cancelled:              "Diagnosis cancelled by the user.",
	Shutdown:               "System stopped by the user.",
	UnexpectedError:        "Unexpected error: %v",
	Starting:               "Starting Automotive Diagnostic Expert System...",
}

var severityES = map[domain.Severity]string{
	domain.SeverityLow:      "BAJA",
	domain.SeverityMedium:   "MEDIA",
	domain.SeverityHigh:     "ALTA",
	domain.SeverityCritical: "CRITICA",
}

var severityEN = map[domain.Severity]string{
	domain.SeverityLow:      "LOW",
	domain.SeverityMedium:   "MEDIUM",
	domain.SeverityHigh:     "HIGH",
	domain.SeverityCritical: "CRITICAL",
}

func severityKey(s domain.Severity) string {
	return "severity." + string(s)
}

func init() {
	register := func(tag language.Tag, messages map[string]string, severities map[domain.Severity]string) {
		for key, msg := range messages {
			_ = message.SetString(tag, key, msg)
		}
		for s, label := range severities {
			_ = message.SetString(tag, severityKey(s), label)
		}
	}
	register(spanish, copyES, severityES)
	register(english, copyEN, severityEN)
}

// Default returns the default language tag.
func Default() language.Tag {
	return spanish
}

// Resolve maps a locale string (e.g. "en-US", "es_AR") to a supported tag, falling back to Spanish.
func Resolve(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return Default()
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Default()
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Localizer renders copy for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for locale.
func New(locale string) *Localizer {
	tag := Resolve(locale)
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the resolved language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T renders the message for key with optional format arguments.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Severity returns the display label of s. Unknown severities use the medium label.
func (l *Localizer) Severity(s domain.Severity) string {
	if !s.Valid() {
		s = domain.DefaultSeverity
	}
	return l.printer.Sprintf(severityKey(s))
}

// IsYes reports whether answer is an affirmative reply to the restart prompt.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}
