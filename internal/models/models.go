package models

import (
	"time"
)

type User struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username           string     `gorm:"unique;not null"          json:"username"`
	Email              string     `gorm:"unique;not null"          json:"email"`
	PasswordHash       string     `gorm:"not null"                 json:"-"`
	IsActive           bool       `gorm:"not null"                 json:"is_active"`
	Role               string     `gorm:"not null"                 json:"role"`
	TokenBlacklistDate *time.Time `json:"-"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"unique;not null"          json:"name"`
	Description string       `json:"description"`
	Default     bool         `gorm:"default:false"            json:"default"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Permissions []Permission `gorm:"many2many:role_permission" json:"permissions,omitempty"`
}

type Permission struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
	Roles       []Role `gorm:"many2many:role_permission" json:"-"`
}

type RevokedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"unique;not null"          json:"token"`
	RevokedAt time.Time `gorm:"not null"                 json:"revoked_at"`
}

type Subject struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"unique;not null"          json:"name"`
	Topics []Topic `gorm:"many2many:subject_topics" json:"topics,omitempty"`
}

type Topic struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null"                 json:"name"`
	Subjects  []Subject  `gorm:"many2many:subject_topics"  json:"-"`
	Subtopics []Subtopic `gorm:"many2many:topic_subtopics" json:"subtopics,omitempty"`
}

type Subtopic struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"not null"                 json:"name"`
	Topics []Topic `gorm:"many2many:topic_subtopics" json:"-"`
}

type Difficulty string

const (
	DifficultyBeginner Difficulty = "Beginner"
	DifficultyEasy     Difficulty = "Easy"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyHard     Difficulty = "Hard"
	DifficultyExpert   Difficulty = "Expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

type Question struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Text          string         `gorm:"not null"                 json:"text"`
	Difficulty    Difficulty     `gorm:"not null;index"           json:"difficulty"`
	CreatorID     *uint          `gorm:"index"                    json:"creator_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Subjects      []Subject      `gorm:"many2many:question_subjects"       json:"subjects,omitempty"`
	Topics        []Topic        `gorm:"many2many:question_topics"         json:"topics,omitempty"`
	Subtopics     []Subtopic     `gorm:"many2many:question_subtopics"      json:"subtopics,omitempty"`
	AnswerChoices []AnswerChoice `gorm:"many2many:question_answer_choices" json:"answer_choices,omitempty"`
}

type AnswerChoice struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Text        string `gorm:"not null"                 json:"text"`
	IsCorrect   bool   `gorm:"not null"                 json:"is_correct"`
	Explanation string `json:"explanation"`
}

type QuestionSet struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null;index"           json:"name"`
	IsPublic  bool       `gorm:"not null"                 json:"is_public"`
	CreatorID *uint      `gorm:"index"                    json:"creator_id"`
	Questions []Question `gorm:"many2many:question_set_questions" json:"questions,omitempty"`
}

type QuizSession struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint              `gorm:"index;not null"           json:"user_id"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at"`
	Questions    []SessionQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
	QuestionSets []SessionSet      `gorm:"foreignKey:SessionID" json:"question_sets,omitempty"`
}

type SessionQuestion struct {
	SessionID  uint       `gorm:"primaryKey" json:"session_id"`
	QuestionID uint       `gorm:"primaryKey" json:"question_id"`
	Answered   bool       `gorm:"default:false" json:"answered"`
	Correct    *bool      `json:"correct"`
	AnsweredAt *time.Time `json:"answered_at"`
}

type SessionSet struct {
	SessionID     uint `gorm:"primaryKey" json:"session_id"`
	QuestionSetID uint `gorm:"primaryKey" json:"question_set_id"`
	QuestionLimit *int `json:"question_limit"`
}

type UserResponse struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null"           json:"user_id"`
	QuestionID     uint      `gorm:"index;not null"           json:"question_id"`
	AnswerChoiceID uint      `gorm:"not null"                 json:"answer_choice_id"`
	IsCorrect      bool      `json:"is_correct"`
	Timestamp      time.Time `gorm:"index"                    json:"timestamp"`
}

type Group struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"unique;not null"          json:"name"`
	CreatorID uint   `gorm:"index;not null"           json:"creator_id"`
	Users     []User `gorm:"many2many:user_groups"    json:"users,omitempty"`
}

type TimePeriod string

const (
	PeriodDaily   TimePeriod = "daily"
	PeriodWeekly  TimePeriod = "weekly"
	PeriodMonthly TimePeriod = "monthly"
	PeriodYearly  TimePeriod = "yearly"
	PeriodAllTime TimePeriod = "all_time"
)

func (p TimePeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodAllTime:
		return true
	}
	return false
}

type Leaderboard struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"index;not null"           json:"user_id"`
	Score      int        `gorm:"not null"                 json:"score"`
	TimePeriod TimePeriod `gorm:"index;not null"           json:"time_period"`
	GroupID    *uint      `gorm:"index"                    json:"group_id"`
	Timestamp  time.Time  `json:"timestamp"`
}
