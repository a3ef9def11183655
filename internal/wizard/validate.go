package wizard

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

const dateLayout = "2006-01-02"

// SchemaFieldKey is the error-map key used for DELTA schema placeholders.
const SchemaFieldKey = "_schema"

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)
	yearPattern  = regexp.MustCompile(`^(19|20)[0-9]{2}$`)
)

// msgRequired is reported for a blank required field.
const msgRequired = "required"

// ValidationErrors maps a field key to a human-readable message. An empty
// map means the step may be left.
type ValidationErrors map[string]string

// Validate runs the checks that gate leaving a step: every required key of
// the step must be filled and every filled value must be well formed. Only
// the first repeatable entry carries required keys. Language has no single
// required field, so it never blocks.
func Validate(id domain.StepID, s *domain.WizardState) ValidationErrors {
	errs := ValidationErrors{}
	switch id {
	case domain.StepResidency:
		if !residencyChosen(s) {
			errs[domain.FieldResidency] = "select a residency category"
		}
	case domain.StepPersonal:
		p := s.Personal
		requireKeys(errs, p.Values(), PersonalRequiredKeys(s), "")
		if !domain.IsBlank(p.Email) && !emailPattern.MatchString(strings.TrimSpace(p.Email)) {
			errs[domain.FieldEmail] = "enter a valid email address"
		}
		if !domain.IsBlank(p.Phone) && !phonePattern.MatchString(strings.TrimSpace(p.Phone)) {
			errs[domain.FieldPhone] = "enter a valid phone number"
		}
		checkDate(errs, domain.FieldBirthDate, p.BirthDate)
	case domain.StepVisa:
		if domain.IsBlank(s.Visa.VisaCode) {
			errs[domain.FieldVisaCode] = "choose a visa classification"
		}
		requireKeys(errs, s.Visa.Values(), VisaRequiredKeys(s), "")
		checkDate(errs, domain.FieldVisaExpiry, s.Visa.VisaExpiry)
		checkDate(errs, domain.FieldDesiredEntryDate, s.Visa.DesiredEntryDate)
	case domain.StepDelta:
		validateDelta(errs, s)
	case domain.StepEducation:
		if len(s.Education.Entries) == 0 {
			errs[EntryKey(0, domain.FieldSchool)] = "add at least one entry"
		} else {
			requireKeys(errs, s.Education.Entries[0].Values(), EducationRequiredKeys, EntryKey(0, ""))
		}
		for i, e := range s.Education.Entries {
			if !domain.IsBlank(e.GraduationYear) && !yearPattern.MatchString(strings.TrimSpace(e.GraduationYear)) {
				errs[EntryKey(i, domain.FieldGraduationYear)] = "enter a four-digit year"
			}
		}
	case domain.StepExperience:
		switch {
		case s.Experience.NoExperience:
		case len(s.Experience.Entries) == 0:
			errs[EntryKey(0, domain.FieldCompany)] = "add an entry or mark no experience"
		default:
			requireKeys(errs, s.Experience.Entries[0].Values(), ExperienceRequiredKeys, EntryKey(0, ""))
		}
		for i, e := range s.Experience.Entries {
			start, startOK := checkDate(errs, EntryKey(i, domain.FieldStartDate), e.StartDate)
			end, endOK := checkDate(errs, EntryKey(i, domain.FieldEndDate), e.EndDate)
			if startOK && endOK && end.Before(start) {
				errs[EntryKey(i, domain.FieldEndDate)] = "end date must not be before start date"
			}
		}
	case domain.StepDocuments:
		requireKeys(errs, s.Documents.Values(), DocumentRequiredKeys, "")
	}
	return errs
}

// requireKeys flags every blank key of keys in values, prefixing the error
// key with prefix.
func requireKeys(errs ValidationErrors, values map[string]string, keys []string, prefix string) {
	for _, k := range keys {
		if domain.IsBlank(values[k]) {
			if _, ok := errs[prefix+k]; !ok {
				errs[prefix+k] = msgRequired
			}
		}
	}
}

func validateDelta(errs ValidationErrors, s *domain.WizardState) {
	if domain.IsBlank(s.Visa.VisaCode) {
		errs[SchemaFieldKey] = "choose a visa classification first"
		return
	}
	sch := s.Delta.Schema
	if sch.Status == domain.SchemaLoading || sch.Code != s.Visa.VisaCode {
		errs[SchemaFieldKey] = "loading visa-specific fields"
		return
	}
	// A failed load carries no fields, so the offline fallback never blocks.
	requireKeys(errs, s.Delta.Values, domain.RequiredKeys(sch.Fields), "")
	for _, f := range sch.Fields {
		v := strings.TrimSpace(s.Delta.Values[f.Key])
		if v == "" {
			continue
		}
		switch f.Kind {
		case domain.FieldNumber:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				errs[f.Key] = "enter a number"
			}
		case domain.FieldDate:
			checkDate(errs, f.Key, v)
		case domain.FieldBoolean:
			if _, err := strconv.ParseBool(v); err != nil {
				errs[f.Key] = "answer yes or no"
			}
		case domain.FieldSelect:
			if len(f.Options) > 0 && !slices.Contains(f.Options, v) {
				errs[f.Key] = fmt.Sprintf("choose one of: %s", strings.Join(f.Options, ", "))
			}
		}
	}
}

// checkDate records an error when v is filled but not YYYY-MM-DD.
func checkDate(errs ValidationErrors, key, v string) (time.Time, bool) {
	if domain.IsBlank(v) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		errs[key] = "use YYYY-MM-DD"
		return time.Time{}, false
	}
	return t, true
}

// EntryKey builds the error key for a field of a repeatable entry.
func EntryKey(i int, field string) string {
	return fmt.Sprintf("%d.%s", i, field)
}
