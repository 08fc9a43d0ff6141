package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"super-tasks/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user. Emails are stored lower-cased; a taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate("create user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return findByID[model.User](ctx, r.db, id, "find user")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", normalizeEmail(email)).Count(&n).Error; err != nil {
		return false, translate("count users", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, translate("find user by chat", err)
	}
	return &user, nil
}

// SetTelegramChatID links or, with nil, unlinks a Telegram chat.
func (r *UserRepository) SetTelegramChatID(ctx context.Context, userID uint, chatID *int64) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("telegram_chat_id", chatID)
	if res.Error != nil {
		return translate("link telegram", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("link telegram", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListWithTelegram returns users that linked a chat and should receive digests.
func (r *UserRepository) ListWithTelegram(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id IS NOT NULL").Order("id ASC").Find(&users).Error; err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
