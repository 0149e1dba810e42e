// File: internal/message/repository.go
package message

import (
	"context"
	"errors"

	"referme_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for message data operations.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error)
	ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]Message, error)
	ListForJob(ctx context.Context, userID, jobID uuid.UUID) ([]Message, error)
	MarkRead(ctx context.Context, messageID, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM message repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) expanded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Preload("Job")
}

// Create inserts a new message.
func (r *gormRepository) Create(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID retrieves a single message.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	var msg Message
	err := r.expanded(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Message not found.")
		}
		return nil, err
	}
	return &msg, nil
}

// ListForUser returns all messages where the user is sender or recipient, newest first.
func (r *gormRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	var messages []Message
	err := r.expanded(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// ListConversation returns both directions between two users, oldest first.
func (r *gormRepository) ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]Message, error) {
	var messages []Message
	err := r.expanded(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// ListForJob returns the job's messages visible to the user, oldest first.
func (r *gormRepository) ListForJob(ctx context.Context, userID, jobID uuid.UUID) ([]Message, error) {
	var messages []Message
	err := r.expanded(ctx).
		Where("job_id = ? AND (sender_id = ? OR recipient_id = ?)", jobID, userID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips the read flag. Only the recipient can do this; anyone else
// sees the message as if it did not exist.
func (r *gormRepository) MarkRead(ctx context.Context, messageID, recipientID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Message{}).
		Where("id = ? AND recipient_id = ?", messageID, recipientID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Message not found.")
	}
	return nil
}

// CountUnread returns the number of unread inbound messages for a user.
func (r *gormRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Message{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
