// Package validation checks form input before any request reaches the
// forum API. Failures are reported per field so they can be shown next to
// the offending input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"careerpath_portal/models"

	"github.com/go-playground/validator/v10"
)

const (
	MinCommentLength  = 5
	MinGraduationYear = 1950
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("gradyear", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= MinGraduationYear && year <= maxGraduationYear()
	}); err != nil {
		panic(err)
	}
	return v
}

func maxGraduationYear() int {
	return time.Now().Year() + 10
}

// Login trims and validates a login form.
func Login(req *models.LoginRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	return check(req)
}

// Register trims and validates a registration form. The role is
// lower-cased; admin accounts cannot be self-registered.
func Register(req *models.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	return check(req)
}

func UpdateProfile(req *models.UpdateProfileRequest) error {
	for _, s := range []*string{req.FirstName, req.LastName, req.Email, req.Department, req.Bio} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	return check(req)
}

func ChangePassword(req *models.ChangePasswordRequest) error {
	return check(req)
}

// Comment trims content and checks the minimum length.
func Comment(req *models.CommentRequest) error {
	req.Content = strings.TrimSpace(req.Content)
	return check(req)
}

// JourneyPost trims and validates a career journey submission.
func JourneyPost(req *models.CreatePostRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	req.Company = strings.TrimSpace(req.Company)
	req.Category = strings.TrimSpace(req.Category)
	req.Skills = strings.TrimSpace(req.Skills)
	req.Experience = strings.TrimSpace(req.Experience)
	return check(req)
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return fields
}

var labels = map[string]string{
	"username":        "Username",
	"email":           "Email",
	"password":        "Password",
	"password2":       "Password confirmation",
	"role":            "Role",
	"graduation_year": "Graduation year",
	"old_password":    "Current password",
	"new_password":    "New password",
	"new_password2":   "Password confirmation",
	"content":         "Comment",
	"name":            "Name",
	"category":        "Category",
	"experience":      "Experience",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	l := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return l + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", l, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return "Please select a " + strings.ToLower(l)
	case "gradyear":
		return fmt.Sprintf("Graduation year must be between %d and %d", MinGraduationYear, maxGraduationYear())
	}
	return l + " is invalid"
}
