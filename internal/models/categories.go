package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedCategory is returned when free text does not name one of a
// field's categories.
var ErrUnrecognizedCategory = errors.New("unrecognized category")

// Category values are the selector labels the model was trained with.

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "Single"
	MaritalMarried  MaritalStatus = "Married"
	MaritalDivorced MaritalStatus = "Divorced"
	MaritalWidowed  MaritalStatus = "Widowed"
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "High School"
	EducationBachelor   EducationLevel = "Bachelor"
	EducationMaster     EducationLevel = "Master"
	EducationPhD        EducationLevel = "PhD"
	EducationOther      EducationLevel = "Other"
)

type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "Employed"
	EmploymentSelfEmployed EmploymentStatus = "Self-employed"
	EmploymentUnemployed   EmploymentStatus = "Unemployed"
)

type PurposeOfLoan string

const (
	PurposePersonal  PurposeOfLoan = "Personal"
	PurposeHome      PurposeOfLoan = "Home"
	PurposeCar       PurposeOfLoan = "Car"
	PurposeEducation PurposeOfLoan = "Education"
)

// Option lists in form order.
var (
	Genders            = []Gender{GenderMale, GenderFemale}
	MaritalStatuses    = []MaritalStatus{MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed}
	EducationLevels    = []EducationLevel{EducationHighSchool, EducationBachelor, EducationMaster, EducationPhD, EducationOther}
	EmploymentStatuses = []EmploymentStatus{EmploymentEmployed, EmploymentSelfEmployed, EmploymentUnemployed}
	PurposesOfLoan     = []PurposeOfLoan{PurposePersonal, PurposeHome, PurposeCar, PurposeEducation}
)

func ParseGender(s string) (Gender, error) {
	return parseCategory("gender", s, Genders)
}

func ParseMaritalStatus(s string) (MaritalStatus, error) {
	return parseCategory("maritalStatus", s, MaritalStatuses)
}

func ParseEducationLevel(s string) (EducationLevel, error) {
	return parseCategory("educationLevel", s, EducationLevels)
}

func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	return parseCategory("employmentStatus", s, EmploymentStatuses)
}

func ParsePurposeOfLoan(s string) (PurposeOfLoan, error) {
	return parseCategory("purposeOfLoan", s, PurposesOfLoan)
}

// parseCategory matches case-insensitively and ignores spaces, hyphens and
// underscores, so "HighSchool", "high school" and "SELF_EMPLOYED" resolve.
func parseCategory[T ~string](field, s string, options []T) (T, error) {
	key := categoryKey(s)
	for _, opt := range options {
		if categoryKey(string(opt)) == key {
			return opt, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnrecognizedCategory, field, s)
}

func categoryKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
