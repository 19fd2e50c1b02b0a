package repository

import (
	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var userColumns = map[string]bool{
	"name":          true,
	"phone":         true,
	"shop_id":       true,
	"user_level_id": true,
	"password":      true,
}

var userLevelColumns = map[string]bool{
	"name":        true,
	"level":       true,
	"description": true,
}

// usersQuery compiles the read scope into the user filter. A company scope
// reaches users through their shop.
func (r *Repository) usersQuery(sc policy.Scope) *gorm.DB {
	base := r.db.Model(&model.User{})
	switch sc.Kind {
	case policy.ScopeGlobal:
		return base
	case policy.ScopeCompany:
		return base.
			Joins("JOIN shops ON shops.id = users.shop_id").
			Where("shops.company_id = ?", sc.CompanyID)
	case policy.ScopeSelf:
		return base.Where("users.id = ?", sc.UserID)
	default:
		return base.Where("1 = 0")
	}
}

// ListUsers returns every user visible in the scope.
func (r *Repository) ListUsers(sc policy.Scope) ([]model.User, error) {
	var users []model.User
	if err := r.usersQuery(sc).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one user by id if the scope can see them.
func (r *Repository) GetUser(sc policy.Scope, id uint) (*model.User, error) {
	var user model.User
	if err := r.usersQuery(sc).Where("users.id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserAny returns one user by id with no scope; callers apply their own
// authorization before mutating.
func (r *Repository) GetUserAny(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user. The password must already be hashed.
func (r *Repository) CreateUser(user *model.User, actorID uint) error {
	user.ID = 0
	stampCreate(&user.Audit, actorID)
	return r.db.Create(user).Error
}

// UpdateUser applies a partial update to an already-authorized user row.
func (r *Repository) UpdateUser(user *model.User, updates map[string]interface{}, actorID uint) (*model.User, error) {
	if err := r.patch(user, updates, userColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(user, user.ID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByPhone looks a user up by phone for authentication.
func (r *Repository) FindUserByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserLevels returns every user level; the lookup is global.
func (r *Repository) ListUserLevels() ([]model.UserLevel, error) {
	var levels []model.UserLevel
	if err := r.db.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// GetUserLevel returns one user level by id.
func (r *Repository) GetUserLevel(id uint) (*model.UserLevel, error) {
	var level model.UserLevel
	if err := r.db.First(&level, id).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// CreateUserLevel inserts a new user level.
func (r *Repository) CreateUserLevel(level *model.UserLevel, actorID uint) error {
	level.ID = 0
	stampCreate(&level.Audit, actorID)
	return r.db.Create(level).Error
}

// UpdateUserLevel applies a partial update to a user level.
func (r *Repository) UpdateUserLevel(id uint, updates map[string]interface{}, actorID uint) (*model.UserLevel, error) {
	var level model.UserLevel
	if err := r.db.First(&level, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&level, updates, userLevelColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&level, id).Error; err != nil {
		return nil, err
	}
	return &level, nil
}
