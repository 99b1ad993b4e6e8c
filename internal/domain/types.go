package domain

import "time"

// Destination is one AR destination row. The three artifact columns hold
// sanitized filenames inside the upload directory, or nil when no artifact
// has been stored for that slot.
type Destination struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	MarkerImage *string   `json:"marker_image"`
	MindFile    *string   `json:"mind_file"`
	GLBModel    *string   `json:"glb_model"`
	CreatedAt   time.Time `json:"created_at"`
}

// DestinationFields are the scalar attributes of a destination.
type DestinationFields struct {
	Name        string
	Description string
	Location    string
}

// ArtifactRefs carries the three artifact filenames of a row. A nil entry
// means that slot holds no artifact.
type ArtifactRefs struct {
	MarkerImage *string
	MindFile    *string
	GLBModel    *string
}

// DestinationUpdate is a partial update of a destination: only non-nil
// attributes are written. The update statement covers exactly the populated
// options and leaves everything else untouched.
type DestinationUpdate struct {
	Name        *string
	Description *string
	Location    *string
	MarkerImage *string
	MindFile    *string
	GLBModel    *string
}

// IsEmpty reports whether the update touches no attribute at all.
func (u DestinationUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Location == nil &&
		u.MarkerImage == nil && u.MindFile == nil && u.GLBModel == nil
}

// User is one account row. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the trust assertion returned by a successful login. No token is
// issued; the caller treats this as valid for the current request only.
type Session struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
