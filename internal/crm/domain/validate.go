package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	hhmmPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
		v.RegisterStructValidation(validateShiftTimes, CreateScheduleEntryRequest{}, UpdateScheduleEntryRequest{})
		v.RegisterStructValidation(validateAcc, CreatePerformanceRequest{}, UpdatePerformanceRequest{})
		validate = v
	})
	return validate
}

// ValidPhone accepts international numbers of 7 to 15 digits, ignoring
// spaces, dashes and parentheses.
func ValidPhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// ShiftTimesOrdered reports whether start comes strictly before end. Both
// must be HH:MM.
func ShiftTimesOrdered(start, end string) bool {
	return hhmmPattern.MatchString(start) && hhmmPattern.MatchString(end) && start < end
}

func validateShiftTimes(sl validator.StructLevel) {
	var start, end string
	switch r := sl.Current().Interface().(type) {
	case CreateScheduleEntryRequest:
		start, end = r.StartTime, r.EndTime
	case UpdateScheduleEntryRequest:
		if r.StartTime == nil || r.EndTime == nil {
			return
		}
		start, end = *r.StartTime, *r.EndTime
	}
	if hhmmPattern.MatchString(start) && hhmmPattern.MatchString(end) && start >= end {
		sl.ReportError(end, "endTime", "EndTime", "after_start", "")
	}
}

func validateAcc(sl validator.StructLevel) {
	switch r := sl.Current().Interface().(type) {
	case CreatePerformanceRequest:
		if r.Acc.IsNegative() {
			sl.ReportError(r.Acc, "acc", "Acc", "nonnegative", "")
		}
	case UpdatePerformanceRequest:
		if r.Acc != nil && r.Acc.IsNegative() {
			sl.ReportError(*r.Acc, "acc", "Acc", "nonnegative", "")
		}
	}
}

// Validate checks a create or update request. It returns ValidationErrors
// listing every offending field, or nil.
func Validate(req interface{}) error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	tag := fe.Tag()
	if i := strings.LastIndex(tag, "|"); i >= 0 {
		// "eq=|email" style: empty or a valid value
		tag = tag[i+1:]
	}
	switch tag {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "after_start":
		return "must be after startTime"
	case "nonnegative":
		return "must not be negative"
	}
	return fmt.Sprintf("failed %s validation", tag)
}
