package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/folio-works/portfolio/internal/modules/model"
)

// ErrNotFound is returned when no project matches the requested id.
var ErrNotFound = errors.New("project not found")

// ProjectRepo is the storage adapter for projects. Every backend implements all of it.
type ProjectRepo interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	// Create assigns a fresh id and applies defaults to p in place.
	Create(ctx context.Context, p *model.Project) error
	// Update replaces every field except id and views. It never inserts.
	Update(ctx context.Context, id string, p *model.Project) (*model.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	// IncrementViews atomically adds one view and returns the new count.
	IncrementViews(ctx context.Context, id string) (int, error)
}

func newID() string {
	return uuid.NewString()
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	items := []model.Project{}
	return items, r.db.WithContext(ctx).Find(&items).Error
}

func (r *projectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	p.ID = newID()
	p.Views = 0
	p.Normalize()
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Update(ctx context.Context, id string, p *model.Project) (*model.Project, error) {
	p.Normalize()

	var out model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Project{}).
			Where("id = ?", id).
			Select("*").
			Omit("id", "views").
			Updates(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *projectRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Project{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var p model.Project
		if err := tx.Select("views").Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		views = p.Views
		return nil
	})
	return views, err
}
