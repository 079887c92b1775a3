package transport

type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role"     form:"role"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type PatchUserRequest struct {
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Default     bool     `json:"default"`
	Permissions []string `json:"permissions"`
}

type PatchRoleRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Default     *bool    `json:"default"`
	Permissions []string `json:"permissions"`
}

type CreateSubjectRequest struct {
	Name string `json:"name"`
}

type PatchSubjectRequest struct {
	Name *string `json:"name"`
}

type CreateTopicRequest struct {
	Name       string `json:"name"`
	SubjectIDs []uint `json:"subject_ids"`
}

type PatchTopicRequest struct {
	Name       *string `json:"name"`
	SubjectIDs []uint  `json:"subject_ids"`
}

type CreateSubtopicRequest struct {
	Name     string `json:"name"`
	TopicIDs []uint `json:"topic_ids"`
}

type PatchSubtopicRequest struct {
	Name     *string `json:"name"`
	TopicIDs []uint  `json:"topic_ids"`
}

type CreateQuestionRequest struct {
	Text            string `json:"text"`
	Difficulty      string `json:"difficulty"`
	SubjectIDs      []uint `json:"subject_ids"`
	TopicIDs        []uint `json:"topic_ids"`
	SubtopicIDs     []uint `json:"subtopic_ids"`
	AnswerChoiceIDs []uint `json:"answer_choice_ids"`
}

type PatchQuestionRequest struct {
	Text            *string `json:"text"`
	Difficulty      *string `json:"difficulty"`
	SubjectIDs      []uint  `json:"subject_ids"`
	TopicIDs        []uint  `json:"topic_ids"`
	SubtopicIDs     []uint  `json:"subtopic_ids"`
	AnswerChoiceIDs []uint  `json:"answer_choice_ids"`
}

type CreateAnswerChoiceRequest struct {
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

type PatchAnswerChoiceRequest struct {
	Text        *string `json:"text"`
	IsCorrect   *bool   `json:"is_correct"`
	Explanation *string `json:"explanation"`
}

type CreateQuestionSetRequest struct {
	Name        string `json:"name"`
	IsPublic    *bool  `json:"is_public"`
	QuestionIDs []uint `json:"question_ids"`
}

type PatchQuestionSetRequest struct {
	Name        *string `json:"name"`
	IsPublic    *bool   `json:"is_public"`
	QuestionIDs []uint  `json:"question_ids"`
}

type SessionSetSelection struct {
	QuestionSetID uint `json:"question_set_id"`
	QuestionLimit *int `json:"question_limit"`
}

type StartSessionRequest struct {
	QuestionSets []SessionSetSelection `json:"question_sets"`
}

type AnswerRequest struct {
	QuestionID     uint `json:"question_id"`
	AnswerChoiceID uint `json:"answer_choice_id"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type PatchGroupRequest struct {
	Name *string `json:"name"`
}
