package dto

// ==================== CONTENT RESPONSE DTOs ====================

type ModuleResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Order       int    `json:"order"`
	Description string `json:"description"`
	LessonCount int    `json:"lesson_count"`
}

type ModuleCollectionResponse struct {
	Modules []ModuleResponse `json:"modules"`
	Total   int              `json:"total"`
}

// ModuleDetailResponse is the summary view served from the TTL cache.
type ModuleDetailResponse struct {
	Module  ModuleResponse   `json:"module"`
	Lessons []LessonResponse `json:"lessons"`
}

type LessonResponse struct {
	ID          string               `json:"id"`
	ModuleID    string               `json:"module_id"`
	Title       string               `json:"title"`
	Order       int                  `json:"order"`
	Description string               `json:"description"`
	Version     int                  `json:"version"`
	StepCount   int                  `json:"step_count"`
	Steps       []LessonStepResponse `json:"steps,omitempty"`
}

// LessonStepResponse omits the correct answer; grading happens server side.
type LessonStepResponse struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Options     []string `json:"options,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	MediaURL    string   `json:"media_url,omitempty"`
	Interactive bool     `json:"interactive"`
	Points      int      `json:"points"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// RemoteLessonPayload is the wire format of the remote content endpoint.
type RemoteLessonPayload struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Content RemoteLessonBody `json:"content"`
	Version int              `json:"version"`
}

type RemoteLessonBody struct {
	ModuleID    string       `json:"module_id"`
	Order       int          `json:"order"`
	Description string       `json:"description"`
	Items       []RemoteItem `json:"items"`
}

type RemoteItem struct {
	Kind        string      `json:"kind"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Options     []string    `json:"options,omitempty"`
	Answer      interface{} `json:"answer,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	MediaKey    string      `json:"media_key,omitempty"`
	Points      int         `json:"points"`
	Difficulty  string      `json:"difficulty,omitempty"`
}

// ==================== HEALTH ====================

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}
