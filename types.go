package eludris

// InstanceInfo is the instance metadata advertised by Oprish. It is fetched
// at most once per REST client and cached; a process that needs fresh
// metadata must build a new client.
type InstanceInfo struct {
	InstanceName       string              `json:"instance_name"`
	Description        string              `json:"description,omitempty"`
	Version            string              `json:"version"`
	MessageLimit       int                 `json:"message_limit"`
	OprishURL          string              `json:"oprish_url"`
	PandemoniumURL     string              `json:"pandemonium_url"`
	EffisURL           string              `json:"effis_url"`
	FileSize           uint64              `json:"file_size"`
	AttachmentFileSize uint64              `json:"attachment_file_size"`
	RateLimits         *InstanceRateLimits `json:"rate_limits,omitempty"`
}

// InstanceRateLimits is the rate-limit policy the instance advertises when
// info is fetched with rate limits included.
type InstanceRateLimits struct {
	Oprish      map[string]RateLimitConf `json:"oprish,omitempty"`
	Pandemonium RateLimitConf            `json:"pandemonium"`
	Effis       map[string]RateLimitConf `json:"effis,omitempty"`
}

// RateLimitConf is one advertised limit: at most Limit requests per window
// of ResetAfter milliseconds.
type RateLimitConf struct {
	ResetAfter uint64 `json:"reset_after"`
	Limit      int    `json:"limit"`
}

// Message is one chat message.
type Message struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Session is one authenticated session of a user.
type Session struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	Platform  string `json:"platform"`
	Client    string `json:"client"`
	IPAddress string `json:"ip,omitempty"`
}

// SessionCreate is the payload for creating a session. Identifier is a
// username or email address.
type SessionCreate struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Platform   string `json:"platform"`
	Client     string `json:"client"`
}

// SessionCreated is the response to a session creation: the new session and
// the token that authenticates it.
type SessionCreated struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// UserStatus is a user's presence.
type UserStatus struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
}

// User is a registered user of the instance.
type User struct {
	ID          uint64     `json:"id"`
	Username    string     `json:"username"`
	DisplayName *string    `json:"display_name,omitempty"`
	Status      UserStatus `json:"status"`
	Bio         *string    `json:"bio,omitempty"`
	Avatar      *uint64    `json:"avatar,omitempty"`
	Banner      *uint64    `json:"banner,omitempty"`
	Badges      uint64     `json:"badges"`
	Permissions uint64     `json:"permissions"`
	Email       *string    `json:"email,omitempty"`
	Verified    *bool      `json:"verified,omitempty"`
}

// UserCreate is the payload for registering a user.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate changes account fields. Password is the current password and is
// required; nil fields are left untouched.
type UserUpdate struct {
	Password    string  `json:"password"`
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

// ProfileUpdate changes profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Status      *string `json:"status,omitempty"`
	StatusType  *string `json:"status_type,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Avatar      *uint64 `json:"avatar,omitempty"`
	Banner      *uint64 `json:"banner,omitempty"`
}

// PasswordReset consumes a mailed reset code and sets a new password.
type PasswordReset struct {
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FileData is the metadata Effis stores about an uploaded file.
type FileData struct {
	ID       uint64        `json:"id"`
	Name     string        `json:"name"`
	Bucket   string        `json:"bucket"`
	Spoiler  bool          `json:"spoiler,omitempty"`
	Metadata *FileMetadata `json:"metadata,omitempty"`
}

// FileMetadata describes a file's content type and, for images and videos,
// its dimensions.
type FileMetadata struct {
	Type   string `json:"type"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}
