package fileflow

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// timestampLayouts are the formats the backend has been seen to emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Timestamp decodes the backend's string timestamps. Values that match no
// known layout decode to the zero time rather than failing the response.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Project is a FileFlow project as returned by the backend.
type Project struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	MaxUploadSize    int64     `json:"max_upload_size"`
	CreatedAt        Timestamp `json:"created_at"`
	ProjectKey       string    `json:"project_key"`
	AllowedFileTypes []string  `json:"allowed_file_types"`
}

// AllowsType reports whether mimeType is in the project's allowed set.
func (p *Project) AllowsType(mimeType string) bool {
	return slices.Contains(p.AllowedFileTypes, mimeType)
}

// ProjectInput is the body of a project create request.
type ProjectInput struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	MaxUploadSize    int64    `json:"max_upload_size"`
	AllowedFileTypes []string `json:"allowed_file_types,omitempty"`
}

// FileType describes a MIME type known to the backend.
type FileType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mimetype"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	Icon        string    `json:"icon"`
}

// UnmarshalJSON accepts both "mimetype" and "mime_type" for the MIME field.
func (f *FileType) UnmarshalJSON(data []byte) error {
	type plain FileType
	var aux struct {
		plain
		AltMimeType string `json:"mime_type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FileType(aux.plain)
	if f.MimeType == "" {
		f.MimeType = aux.AltMimeType
	}
	return nil
}

// StoredFile is one file of a project listing.
type StoredFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon,omitempty"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt Timestamp `json:"uploaded_at"`
	Folder     string    `json:"folder,omitempty"`
	FileType   *FileType `json:"file_type,omitempty"`
}

// TypeName returns the file type's name, or "Unknown".
func (f StoredFile) TypeName() string {
	if f.FileType == nil || f.FileType.Name == "" {
		return "Unknown"
	}
	return f.FileType.Name
}

// Role is a user's role in the backend.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// User is a backend user account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt Timestamp `json:"created_at"`
	IsActive  bool      `json:"is_active"`
	Role      *Role     `json:"role,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RoleName returns the role's name, or "-" when the user has none.
func (u User) RoleName() string {
	if u.Role == nil || u.Role.Name == "" {
		return "-"
	}
	return u.Role.Name
}

// ProjectUser is a user's membership of a project.
type ProjectUser struct {
	ID        int64 `json:"id"`
	ProjectID int64 `json:"project_id"`
	UserInfo  User  `json:"user_info"`
}

// Meta carries the paging information of list responses.
type Meta struct {
	TotalRecords int64 `json:"total_records"`
	Limit        int64 `json:"limit"`
	Offset       int64 `json:"offset"`
}

// Envelope is the wrapper the backend puts around every response.
type Envelope[T any] struct {
	Success bool      `json:"success"`
	Result  T         `json:"result"`
	Error   *APIError `json:"error"`
	Meta    *Meta     `json:"meta"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// Total returns the total record count as an int.
func (p *Page[T]) Total() int {
	return int(p.Meta.TotalRecords)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
