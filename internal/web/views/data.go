package views

import "github.com/kudzaitsapo/fileflow-web/internal/fileflow"

// LoginData backs the login page.
type LoginData struct {
	Email       string
	CallbackURL string
}

// FilesData backs the file listing of the active project.
type FilesData struct {
	Project *fileflow.Project
	Files   []fileflow.StoredFile
	Pager   Pager
}

// ProjectsData backs the project picker.
type ProjectsData struct {
	Projects []fileflow.Project
	ActiveID int64
	Pager    Pager
}

// ProjectForm holds the raw values of the create and settings forms.
type ProjectForm struct {
	Name             string
	Description      string
	MaxUploadSize    string
	AllowedFileTypes []string
}

// FormErrors are the per-field validation messages of ProjectForm.
type FormErrors struct {
	Name          string
	MaxUploadSize string
}

// Any reports whether any field failed validation.
func (e FormErrors) Any() bool {
	return e.Name != "" || e.MaxUploadSize != ""
}

// MimeOption is one checkbox of the allowed-file-types picker.
type MimeOption struct {
	Value string
	Label string
}

// ProjectFormData backs the create and settings pages.
type ProjectFormData struct {
	Action     string
	Submit     string
	Form       ProjectForm
	Errors     FormErrors
	MimeTypes  []MimeOption
	ProjectID  int64
	ProjectKey string
}

// UsersData backs the project member listing.
type UsersData struct {
	Project *fileflow.Project
	Users   []fileflow.User
	Pager   Pager
}

// Stat is a summary tile.
type Stat struct {
	Label  string
	Value  string
	Detail string
}

// Toggle is a read-only on/off setting.
type Toggle struct {
	Label string
	On    bool
}

// ToggleGroup is a titled list of toggles.
type ToggleGroup struct {
	Title   string
	Toggles []Toggle
}

// IPEntry is one whitelisted address.
type IPEntry struct {
	Address     string
	Description string
	AddedBy     string
}

// Event is a row of the security and activity logs.
type Event struct {
	Name    string
	Address string
	User    string
	At      string
	Status  string
}

// SecurityData backs the security settings page.
type SecurityData struct {
	Stats     []Stat
	Groups    []ToggleGroup
	Whitelist []IPEntry
	Events    []Event
}

// ActivityData backs the activity log page.
type ActivityData struct {
	Events []Event
}

// ErrorData backs the error page.
type ErrorData struct {
	Status  int
	Message string
}
