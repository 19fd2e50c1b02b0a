package policy

import (
	"errors"

	"gorm.io/gorm"

	"easystock-service/internal/model"
)

// Engine resolves authenticated users into actors. Resolution needs the
// database because an actor's company is derived from their shop row.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a policy engine over the given database handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Resolve loads the user record for the given id and builds its actor.
func (e *Engine) Resolve(userID uint) (*model.User, Actor, error) {
	var user model.User
	if err := e.db.First(&user, userID).Error; err != nil {
		return nil, Actor{}, err
	}
	actor, err := e.ActorFor(&user)
	if err != nil {
		return nil, Actor{}, err
	}
	return &user, actor, nil
}

// ActorFor builds the actor for a loaded user, resolving the company the
// user's shop belongs to.
func (e *Engine) ActorFor(user *model.User) (Actor, error) {
	actor := Actor{
		UserID: user.ID,
		Level:  int(user.UserLevelID),
		ShopID: user.ShopID,
	}

	if user.ShopID != nil {
		var shop model.Shop
		err := e.db.Select("company_id").First(&shop, *user.ShopID).Error
		switch {
		case err == nil:
			actor.CompanyID = shop.CompanyID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Dangling shop reference: the actor simply has no company.
		default:
			return Actor{}, err
		}
	}

	return actor, nil
}
