package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Importance  string `json:"importance"`
	TimeFrame   string `json:"time_frame"`
	Deadline    string `json:"deadline,omitempty"`
}

// TaskUpdateRequest is a partial update: absent JSON fields stay nil and the
// matching task fields keep their prior values.
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Urgency     *string `json:"urgency,omitempty"`
	Importance  *string `json:"importance,omitempty"`
	TimeFrame   *string `json:"time_frame,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}
