package directory

import (
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/hermandad/internal/config"
)

// FieldID tags one input of the registration form.
type FieldID int

const (
	FieldPhoto FieldID = iota
	FieldName
	FieldLastname
	FieldBirthday
	FieldPhone
	FieldAge
	FieldSex
	FieldDescription
	FieldAddress
	FieldEmail
	FieldPassword
)

// FieldDescriptor drives the rendering of one form input.
type FieldDescriptor struct {
	ID       FieldID
	LabelKey string // translation key used as placeholder
	Secret   bool
	Required bool
}

// Fields lists the registration inputs in display order.
var Fields = []FieldDescriptor{
	{ID: FieldPhoto, LabelKey: config.TKeyFieldPhoto},
	{ID: FieldName, LabelKey: config.TKeyFieldName, Required: true},
	{ID: FieldLastname, LabelKey: config.TKeyFieldLastname, Required: true},
	{ID: FieldBirthday, LabelKey: config.TKeyFieldBirthday},
	{ID: FieldPhone, LabelKey: config.TKeyFieldPhone},
	{ID: FieldAge, LabelKey: config.TKeyFieldAge},
	{ID: FieldSex, LabelKey: config.TKeyFieldSex},
	{ID: FieldDescription, LabelKey: config.TKeyFieldDesc},
	{ID: FieldAddress, LabelKey: config.TKeyFieldAddress},
	{ID: FieldEmail, LabelKey: config.TKeyFieldEmail, Required: true},
	{ID: FieldPassword, LabelKey: config.TKeyFieldPassword, Secret: true, Required: true},
}

// String returns the wire name of the field.
func (f FieldID) String() string {
	switch f {
	case FieldPhoto:
		return "photo"
	case FieldName:
		return "name"
	case FieldLastname:
		return "lastname"
	case FieldBirthday:
		return "birthday"
	case FieldPhone:
		return "phone"
	case FieldAge:
		return "age"
	case FieldSex:
		return "sex"
	case FieldDescription:
		return "description"
	case FieldAddress:
		return "direccion"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	default:
		return "unknown"
	}
}

// Form is the registration form as typed by the user.
type Form struct {
	Photo       string
	Name        string
	Lastname    string
	Birthday    string
	Phone       string
	Age         string
	Sex         string
	Description string
	Address     string
	Email       string
	Password    string
}

func (f *Form) field(id FieldID) *string {
	switch id {
	case FieldPhoto:
		return &f.Photo
	case FieldName:
		return &f.Name
	case FieldLastname:
		return &f.Lastname
	case FieldBirthday:
		return &f.Birthday
	case FieldPhone:
		return &f.Phone
	case FieldAge:
		return &f.Age
	case FieldSex:
		return &f.Sex
	case FieldDescription:
		return &f.Description
	case FieldAddress:
		return &f.Address
	case FieldEmail:
		return &f.Email
	case FieldPassword:
		return &f.Password
	default:
		return nil
	}
}

// Get returns the value of a field. Unknown IDs read as empty.
func (f *Form) Get(id FieldID) string {
	if p := f.field(id); p != nil {
		return *p
	}
	return ""
}

// Set stores a value. Unknown IDs are ignored.
func (f *Form) Set(id FieldID, v string) {
	if p := f.field(id); p != nil {
		*p = v
	}
}

// Reset clears every field.
func (f *Form) Reset() {
	*f = Form{}
}

// Validate checks the required fields first and, only when they are all
// present, the format of age and birthday.
func (f *Form) Validate() error {
	var missing []FieldID
	for _, d := range Fields {
		if d.Required && strings.TrimSpace(f.Get(d.ID)) == "" {
			missing = append(missing, d.ID)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: ValidationMissing, Fields: missing}
	}

	var invalid []FieldID
	if _, err := f.age(); err != nil {
		invalid = append(invalid, FieldAge)
	}
	if b := strings.TrimSpace(f.Birthday); b != "" {
		if _, err := time.Parse(config.BirthdayLayout, b); err != nil {
			invalid = append(invalid, FieldBirthday)
		}
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: ValidationFormat, Fields: invalid}
	}
	return nil
}

// age parses the free-text age. Empty means "not given".
func (f *Form) age() (*int, error) {
	s := strings.TrimSpace(f.Age)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, ErrAgeNumber
	}
	return &n, nil
}

// createUserRequest is the POST body; age travels as a number or null.
type createUserRequest struct {
	Name        string `json:"name"`
	Lastname    string `json:"lastname"`
	Birthday    string `json:"birthday"`
	Phone       string `json:"phone"`
	Age         *int   `json:"age"`
	Sex         string `json:"sex"`
	Description string `json:"description"`
	Address     string `json:"direccion"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Photo       string `json:"photo"`
}

func (f *Form) payload() (createUserRequest, error) {
	if err := f.Validate(); err != nil {
		return createUserRequest{}, err
	}
	age, _ := f.age()
	return createUserRequest{
		Name:        strings.TrimSpace(f.Name),
		Lastname:    strings.TrimSpace(f.Lastname),
		Birthday:    strings.TrimSpace(f.Birthday),
		Phone:       f.Phone,
		Age:         age,
		Sex:         strings.ToUpper(strings.TrimSpace(f.Sex)),
		Description: f.Description,
		Address:     f.Address,
		Email:       strings.TrimSpace(f.Email),
		Password:    f.Password,
		Photo:       strings.TrimSpace(f.Photo),
	}, nil
}
