// File: internal/message/model.go
package message

import (
	"referme_backend/internal/common"
	"referme_backend/internal/job"
	"referme_backend/internal/user"

	"github.com/google/uuid"
)

// Message is the database model for a direct message between two users,
// optionally tied to a job. Messages are immutable except for the read flag.
type Message struct {
	common.BaseModel
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	JobID       *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Read        bool       `gorm:"not null;default:false" json:"read"`

	Sender    *user.User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *user.User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Job       *job.Job   `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

// TableName specifies the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest is the payload for POST /chat/send.
type SendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	JobID       *uuid.UUID `json:"job_id"`
}

// SendJobMessageRequest is the payload for POST /jobs/:jobId/message.
type SendJobMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
