package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gosimple/slug"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rpupo63/blog-admin-backend/events"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// UploadPath is the storage namespace of featured images.
const UploadPath = "img/blog/"

// systemUserID owns tags and categories created implicitly from blog forms.
const systemUserID uint = 1

// Upload is a file received with a blog form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// BlogInput carries the writable fields of a blog.
// Nil pointers and empty strings leave the current value in place on update.
type BlogInput struct {
	Name            string
	PublishDatetime string
	Status          models.BlogStatus
	Content         string
	MetaTitle       *string
	CannonicalLink  *string
	MetaKeywords    *string
	MetaDescription *string
	Tags            []string
	Categories      []string
	Image           *Upload
	Extra           map[string]interface{}
}

// BlogService owns blog writes, their tag and category associations and the featured image.
type BlogService struct {
	db      database.Database
	storage storage.Storage
	bus     events.Bus
	now     func() time.Time
	logger  zerolog.Logger
}

func NewBlogService(db database.Database, store storage.Storage, bus events.Bus) *BlogService {
	return &BlogService{
		db:      db,
		storage: store,
		bus:     bus,
		now:     time.Now,
		logger:  log.With().Str("serviceName", "BlogService").Logger(),
	}
}

func (s *BlogService) Paginate(ctx context.Context, params database.ListParams) (*database.BlogPage, error) {
	return s.db.BlogRepo().Paginate(ctx, params)
}

func (s *BlogService) ListForTable(ctx context.Context) ([]models.BlogListItem, error) {
	return s.db.BlogRepo().ListForTable(ctx)
}

func (s *BlogService) Find(ctx context.Context, id uint) (*models.Blog, error) {
	return s.db.BlogRepo().FindByID(ctx, id)
}

// ListTags returns every tag for the blog form picker together with the row count.
func (s *BlogService) ListTags(ctx context.Context) ([]*models.BlogTag, int64, error) {
	tags, err := s.db.BlogTagRepo().FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.db.BlogTagRepo().Count(ctx)
	return tags, total, err
}

func (s *BlogService) ListCategories(ctx context.Context) ([]*models.BlogCategory, int64, error) {
	categories, err := s.db.BlogCategoryRepo().FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.db.BlogCategoryRepo().Count(ctx)
	return categories, total, err
}

// Create stores the image, then persists the blog and its associations in one transaction.
// The created event is published after commit.
func (s *BlogService) Create(ctx context.Context, userID uint, in BlogInput) (blog *models.Blog, err error) {
	defer func() { blogWrites.WithLabelValues("create", outcome(err)).Inc() }()

	blog = &models.Blog{CreatedBy: userID, Status: models.BlogStatusPublished}
	if err := s.fill(blog, in); err != nil {
		return nil, err
	}

	var stored string
	if in.Image != nil {
		name, err := s.UploadImage(ctx, *in.Image)
		if err != nil {
			return nil, errs.NewGeneralError(errs.BlogCreateError, err)
		}
		blog.FeaturedImage = &name
		stored = name
	}

	var created *models.Blog
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		tagIDs, err := createTags(ctx, tx, in.Tags)
		if err != nil {
			return err
		}
		categoryIDs, err := createCategories(ctx, tx, in.Categories)
		if err != nil {
			return err
		}

		if err := tx.BlogRepo().Create(ctx, blog); err != nil {
			return err
		}
		if err := syncAssociations(ctx, tx, blog.ID, tagIDs, categoryIDs); err != nil {
			return err
		}

		created, err = tx.BlogRepo().FindByID(ctx, blog.ID)
		return err
	})
	if err != nil {
		if stored != "" {
			s.deleteFile(ctx, UploadPath+stored)
		}
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create blog")
		return nil, errs.NewGeneralError(errs.BlogCreateError, err)
	}

	s.publish(ctx, events.BlogCreated, created)
	return created, nil
}

// Update replaces the featured image when a new one is given, then persists the
// blog and its associations in one transaction. The updated event is published after commit.
func (s *BlogService) Update(ctx context.Context, userID uint, blog *models.Blog, in BlogInput) (updated *models.Blog, err error) {
	defer func() { blogWrites.WithLabelValues("update", outcome(err)).Inc() }()

	if err := s.fill(blog, in); err != nil {
		return nil, err
	}
	blog.UpdatedBy = &userID

	if in.Image != nil {
		// the current image stays when the replacement is rejected
		if _, err := imageBase(in.Image.Filename); err != nil {
			return nil, err
		}
		if err := s.DeleteOldFile(ctx, blog); err != nil {
			s.logger.Warn().Err(err).Uint("blogID", blog.ID).Msg("failed to delete old featured image")
		}
		name, err := s.UploadImage(ctx, *in.Image)
		if err != nil {
			return nil, errs.NewGeneralError(errs.BlogUpdateError, err)
		}
		blog.FeaturedImage = &name
	}

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		tagIDs, err := createTags(ctx, tx, in.Tags)
		if err != nil {
			return err
		}
		categoryIDs, err := createCategories(ctx, tx, in.Categories)
		if err != nil {
			return err
		}

		if err := tx.BlogRepo().Update(ctx, blog); err != nil {
			return err
		}
		if err := syncAssociations(ctx, tx, blog.ID, tagIDs, categoryIDs); err != nil {
			return err
		}

		updated, err = tx.BlogRepo().FindByID(ctx, blog.ID)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("blogID", blog.ID).Msg("failed to update blog")
		return nil, errs.NewGeneralError(errs.BlogUpdateError, err)
	}

	s.publish(ctx, events.BlogUpdated, updated)
	return updated, nil
}

// Delete soft deletes the blog and removes its association rows. The featured image is kept.
func (s *BlogService) Delete(ctx context.Context, blog *models.Blog) (err error) {
	defer func() { blogWrites.WithLabelValues("delete", outcome(err)).Inc() }()

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		affected, err := tx.BlogRepo().Delete(ctx, blog.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.NewNotFound("blog")
		}
		return tx.BlogRepo().DeleteMappings(ctx, blog.ID)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("blogID", blog.ID).Msg("failed to delete blog")
		return errs.NewGeneralError(errs.BlogDeleteError, err)
	}

	s.publish(ctx, events.BlogDeleted, blog)
	return nil
}

// CreateTags resolves tag references to ids. Numeric references are ids,
// anything else becomes a new tag.
func (s *BlogService) CreateTags(ctx context.Context, refs []string) ([]uint, error) {
	return createTags(ctx, s.db, refs)
}

// CreateCategories resolves category references the same way as CreateTags.
func (s *BlogService) CreateCategories(ctx context.Context, refs []string) ([]uint, error) {
	return createCategories(ctx, s.db, refs)
}

// UploadImage stores the file under UploadPath and returns the stored filename.
func (s *BlogService) UploadImage(ctx context.Context, upload Upload) (name string, err error) {
	defer func() { imageOperations.WithLabelValues("upload", outcome(err)).Inc() }()

	base, err := imageBase(upload.Filename)
	if err != nil {
		return "", err
	}

	name = strconv.FormatInt(s.now().Unix(), 10) + base
	if err := s.storage.Put(ctx, UploadPath+name, upload.Body); err != nil {
		return "", err
	}
	return name, nil
}

// imageBase returns the last path element of an uploaded file name, accepting both separators.
func imageBase(filename string) (string, error) {
	base := strings.TrimSpace(filename)
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		return "", errs.NewInvalidFieldError("featured_image", "file name is empty")
	}
	return base, nil
}

// DeleteOldFile removes the blog's current featured image, if any.
func (s *BlogService) DeleteOldFile(ctx context.Context, blog *models.Blog) (err error) {
	if blog.FeaturedImage == nil || *blog.FeaturedImage == "" {
		return nil
	}
	defer func() { imageOperations.WithLabelValues("delete", outcome(err)).Inc() }()
	return s.storage.Delete(ctx, UploadPath+*blog.FeaturedImage)
}

func (s *BlogService) deleteFile(ctx context.Context, path string) {
	if err := s.storage.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove stored file")
	}
}

func (s *BlogService) publish(ctx context.Context, t events.Type, blog *models.Blog) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewBlogEvent(t, blog)); err != nil {
		s.logger.Error().Err(err).Str("eventType", string(t)).Uint("blogID", blog.ID).Msg("failed to publish blog event")
	}
}

// fill copies the input onto the blog and derives the slug from the name.
func (s *BlogService) fill(blog *models.Blog, in BlogInput) error {
	if in.Name != "" {
		blog.Name = in.Name
	}
	blog.Slug = slug.Make(blog.Name)

	if in.PublishDatetime != "" {
		t, err := dateparse.ParseIn(in.PublishDatetime, time.UTC)
		if err != nil {
			return errs.NewInvalidFieldError("publish_datetime", err.Error())
		}
		blog.PublishDatetime = &t
	} else if blog.PublishDatetime == nil {
		now := s.now().UTC()
		blog.PublishDatetime = &now
	}

	if in.Status != "" {
		blog.Status = in.Status
	}
	if in.Content != "" {
		blog.Content = in.Content
	}
	if in.MetaTitle != nil {
		blog.MetaTitle = in.MetaTitle
	}
	if in.CannonicalLink != nil {
		blog.CannonicalLink = in.CannonicalLink
	}
	if in.MetaKeywords != nil {
		blog.MetaKeywords = in.MetaKeywords
	}
	if in.MetaDescription != nil {
		blog.MetaDescription = in.MetaDescription
	}

	if len(in.Extra) > 0 {
		if blog.Extra == nil {
			blog.Extra = make(map[string]interface{}, len(in.Extra))
		}
		for k, v := range in.Extra {
			blog.Extra[k] = v
		}
	}
	return nil
}

func syncAssociations(ctx context.Context, tx database.Database, blogID uint, tagIDs, categoryIDs []uint) error {
	if len(categoryIDs) > 0 {
		if _, err := tx.BlogRepo().SyncCategories(ctx, blogID, categoryIDs); err != nil {
			return fmt.Errorf("sync categories: %w", err)
		}
	}
	if len(tagIDs) > 0 {
		if _, err := tx.BlogRepo().SyncTags(ctx, blogID, tagIDs); err != nil {
			return fmt.Errorf("sync tags: %w", err)
		}
	}
	return nil
}

func createTags(ctx context.Context, db database.Database, refs []string) ([]uint, error) {
	return resolveRefs(refs, func(name string) (uint, error) {
		tag := &models.BlogTag{Name: name, Status: models.TaxonomyStatusActive, CreatedBy: systemUserID}
		if err := db.BlogTagRepo().Add(ctx, tag); err != nil {
			return 0, err
		}
		taxonomyCreated.WithLabelValues("tag").Inc()
		return tag.ID, nil
	})
}

func createCategories(ctx context.Context, db database.Database, refs []string) ([]uint, error) {
	return resolveRefs(refs, func(name string) (uint, error) {
		category := &models.BlogCategory{Name: name, Status: models.TaxonomyStatusActive, CreatedBy: systemUserID}
		if err := db.BlogCategoryRepo().Add(ctx, category); err != nil {
			return 0, err
		}
		taxonomyCreated.WithLabelValues("category").Inc()
		return category.ID, nil
	})
}

// resolveRefs keeps numeric references as ids and calls create for every other non-blank one.
func resolveRefs(refs []string, create func(name string) (uint, error)) ([]uint, error) {
	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			ids = append(ids, uint(id))
			continue
		}
		id, err := create(ref)
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", ref, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
