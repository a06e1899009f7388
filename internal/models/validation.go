package models

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinPublishingYear = 1888
	MaxPublishingYear = 3000
	MinPasswordLength = 6
)

// Validation messages shown verbatim to the user.
const (
	MsgTitleAndYearRequired = "Title and publishing year are required."
	MsgYearNotNumber        = "Publishing year must be a number."
	MsgYearNotWhole         = "Publishing year must be a whole number."
	MsgYearOutOfRange       = "Publishing year must be between 1888 and 3000."
	MsgCredentialsRequired  = "Email and password are required."
	MsgPasswordTooShort     = "Password must be at least 6 characters long."
)

// ValidationError is a local form error. It blocks submission and never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// MovieInput is a validated create/update payload.
type MovieInput struct {
	Title          string `json:"title"`
	PublishingYear int    `json:"publishingYear"`
}

// ParseMovieForm validates raw title and year text and returns the request payload.
func ParseMovieForm(title, year string) (MovieInput, error) {
	title = strings.TrimSpace(title)
	year = strings.TrimSpace(year)

	if title == "" || year == "" {
		return MovieInput{}, invalid("title", MsgTitleAndYearRequired)
	}

	n, err := strconv.ParseFloat(year, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return MovieInput{}, invalid("publishingYear", MsgYearNotNumber)
	}

	if n != math.Trunc(n) {
		return MovieInput{}, invalid("publishingYear", MsgYearNotWhole)
	}

	if n < MinPublishingYear || n > MaxPublishingYear {
		return MovieInput{}, invalid("publishingYear", MsgYearOutOfRange)
	}

	return MovieInput{Title: title, PublishingYear: int(n)}, nil
}

// ValidateRegistration checks the registration form. Email format is not validated.
func ValidateRegistration(email, password string) (Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Credentials{}, invalid("email", MsgCredentialsRequired)
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Credentials{}, invalid("password", MsgPasswordTooShort)
	}

	return Credentials{Email: email, Password: password}, nil
}
